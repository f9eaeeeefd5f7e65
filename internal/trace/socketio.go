// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package trace

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"sync/atomic"
	"time"

	"github.com/specialistvlad/tracegraph/internal/ctxlog"
	"github.com/zishang520/engine.io-client-go/transports"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io-client-go/socket"
)

const (
	DefaultRequestEvent  = "trace:request"
	DefaultResponseEvent = "trace:response"
	DefaultFetchTimeout  = 30 * time.Second
)

// ErrNoTraceData is returned when the tracer answers with an empty event.
var ErrNoTraceData = errors.New("tracer responded without trace data")

// SocketIOSource requests an already materialized trace from a running tracer
// process. The tracer answers RequestEvent with a ResponseEvent whose first
// argument is the trace document, either as a JSON string or as an object.
type SocketIOSource struct {
	URL                string
	Namespace          string
	RequestEvent       string
	ResponseEvent      string
	Request            map[string]any
	Timeout            time.Duration
	InsecureSkipVerify bool
}

type fetchResult struct {
	trace *Trace
	err   error
}

// Fetch connects over the websocket transport, emits the request event once
// connected and waits for the response until the timeout or ctx expires.
func (s *SocketIOSource) Fetch(ctx context.Context) (*Trace, error) {
	requestEvent := s.RequestEvent
	if requestEvent == "" {
		requestEvent = DefaultRequestEvent
	}
	responseEvent := s.ResponseEvent
	if responseEvent == "" {
		responseEvent = DefaultResponseEvent
	}
	timeout := s.Timeout
	if timeout <= 0 {
		timeout = DefaultFetchTimeout
	}

	logger := ctxlog.FromContext(ctx).With("source", "socketio", "url", s.URL, "request_event", requestEvent, "response_event", responseEvent)
	logger.Debug("Fetch: Started.")

	parsedURL, err := url.Parse(s.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse URL: %w", err)
	}
	if parsedURL.Scheme == "" || parsedURL.Host == "" {
		return nil, fmt.Errorf("socket.io URL '%s' must be absolute", s.URL)
	}

	opts := socket.DefaultOptions()
	if parsedURL.Path != "" && parsedURL.Path != "/" {
		opts.SetPath(parsedURL.Path)
	}
	if s.InsecureSkipVerify {
		logger.Warn("Skipping TLS certificate verification")
		opts.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true})
	}
	opts.SetTransports(types.NewSet(transports.WebSocket))

	opCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var connected atomic.Bool
	done := make(chan fetchResult, 1)
	finish := func(res fetchResult) {
		select {
		case done <- res:
		default:
		}
	}

	baseURL := fmt.Sprintf("%s://%s", parsedURL.Scheme, parsedURL.Host)
	manager := socket.NewManager(baseURL, opts)
	io := manager.Socket(s.Namespace, opts)
	defer func() {
		logger.Debug("Fetch: Disconnecting socket client.")
		io.Disconnect()
	}()

	io.Once(types.EventName("connect"), func(...any) {
		connected.Store(true)
		logger.Info("Connected to tracer", "sid", io.Id())
		io.Emit(requestEvent, s.Request)
	})

	io.Once(types.EventName("connect_error"), func(errs ...any) {
		err := fmt.Errorf("socket.io connection failed")
		if len(errs) > 0 {
			if e, ok := errs[0].(error); ok {
				err = fmt.Errorf("socket.io connection failed: %w", e)
			}
		}
		finish(fetchResult{err: err})
	})

	io.Once(types.EventName(responseEvent), func(data ...any) {
		t, err := decodeResponse(data...)
		finish(fetchResult{trace: t, err: err})
	})

	io.Connect()

	select {
	case <-opCtx.Done():
		if connected.Load() {
			return nil, fmt.Errorf("timed out after %v waiting for event '%s'", timeout, responseEvent)
		}
		return nil, fmt.Errorf("timed out after %v waiting for socket.io connection", timeout)
	case res := <-done:
		if res.err != nil {
			return nil, res.err
		}
		logger.Info("Fetch: Trace received.", "nodes", len(res.trace.Nodes), "edges", len(res.trace.Edges))
		return res.trace, nil
	}
}

// decodeResponse accepts the event payload shapes a tracer may send.
func decodeResponse(data ...any) (*Trace, error) {
	if len(data) == 0 || data[0] == nil {
		return nil, ErrNoTraceData
	}

	var raw []byte
	switch v := data[0].(type) {
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	default:
		encoded, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("%w: tracer payload is not a JSON document: %v", ErrInvalidTrace, err)
		}
		raw = encoded
	}
	return Decode(raw, FormatJSON)
}
