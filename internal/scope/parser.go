// internal/scope/parser.go
package scope

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// elementRegex parses a single scope element, e.g. `Conv2d` or `Conv2d[conv1]`.
var elementRegex = regexp.MustCompile(`^([A-Za-z_][A-Za-z0-9_.]*)(?:\[([^\[\]/]+)\])?$`)

// opRegex parses the trailing operation segment of an address, e.g. `conv2d_3`.
var opRegex = regexp.MustCompile(`^(.+)_(\d+)$`)

// Parse creates a Scope by parsing its canonical string representation.
// The empty string is the top-level scope.
func Parse(raw string) (Scope, error) {
	if raw == "" {
		return Scope{}, nil
	}

	var s Scope
	for _, part := range strings.Split(raw, "/") {
		if part == "" {
			return Scope{}, fmt.Errorf("scope path contains empty element")
		}

		matches := elementRegex.FindStringSubmatch(part)
		if matches == nil {
			return Scope{}, fmt.Errorf("invalid scope element format: %q", part)
		}
		s.Elements = append(s.Elements, NewElementWithField(matches[1], matches[2]))
	}

	return s, nil
}

// ParseOperationAddress parses the string produced by OperationAddress.String.
func ParseOperationAddress(raw string) (OperationAddress, error) {
	if raw == "" {
		return OperationAddress{}, fmt.Errorf("operation address cannot be empty")
	}

	scopePart, opPart := "", raw
	if i := strings.LastIndex(raw, "/"); i >= 0 {
		scopePart, opPart = raw[:i], raw[i+1:]
	}

	matches := opRegex.FindStringSubmatch(opPart)
	if matches == nil {
		return OperationAddress{}, fmt.Errorf("invalid operation segment format: %q", opPart)
	}
	callOrder, err := strconv.Atoi(matches[2])
	if err != nil {
		// Unreachable due to regex `\d+`
		return OperationAddress{}, fmt.Errorf("internal error parsing call order: %w", err)
	}

	s, err := Parse(scopePart)
	if err != nil {
		return OperationAddress{}, err
	}

	return OperationAddress{OperatorName: matches[1], Scope: s, CallOrder: callOrder}, nil
}
