package editor

import (
	"errors"
	"fmt"
)

// ErrUnsafeRewrite indicates that a node selected for removal is not a
// structural pass-through. It is a caller contract violation.
var ErrUnsafeRewrite = errors.New("unsafe rewrite")

// UnsafeRewriteError names the offending node and the violated precondition.
type UnsafeRewriteError struct {
	NodeID  int
	NodeKey string
	Reason  string
}

func (e *UnsafeRewriteError) Error() string {
	return fmt.Sprintf("%s: cannot remove node '%s': %s", ErrUnsafeRewrite, e.NodeKey, e.Reason)
}

func (e *UnsafeRewriteError) Unwrap() error {
	return ErrUnsafeRewrite
}
