package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/specialistvlad/tracegraph/internal/editor"
	"github.com/specialistvlad/tracegraph/internal/graphio"
	"github.com/specialistvlad/tracegraph/internal/graphstore"
	"github.com/specialistvlad/tracegraph/internal/metatype"
	"github.com/specialistvlad/tracegraph/internal/trace"
)

var errRateLimited = errors.New("too many convert requests")

// errorResponse is the body of every non-2xx JSON reply.
type errorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id"`
}

// statusFor maps an error to its HTTP status.
func statusFor(err error) int {
	var maxBytes *http.MaxBytesError
	switch {
	case errors.As(err, &maxBytes):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, errRateLimited):
		return http.StatusTooManyRequests
	case errors.Is(err, trace.ErrInvalidTrace),
		errors.Is(err, graphio.ErrUnknownFormat),
		errors.Is(err, metatype.ErrNotFound):
		return http.StatusBadRequest
	case errors.Is(err, graphstore.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, editor.ErrUnsafeRewrite):
		return http.StatusUnprocessableEntity
	case errors.Is(err, metatype.ErrAmbiguousSubtype):
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

func abortWithError(c *gin.Context, err error) {
	_ = c.Error(err)
	c.AbortWithStatusJSON(statusFor(err), errorResponse{
		Error:     err.Error(),
		RequestID: c.GetString(requestIDKey),
	})
}
