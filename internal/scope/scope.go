// internal/scope/scope.go
package scope

import (
	"fmt"
	"slices"
	"strings"
)

// String serializes the Scope into its canonical path string representation.
func (s Scope) String() string {
	var sb strings.Builder
	for i, e := range s.Elements {
		if i > 0 {
			sb.WriteRune('/')
		}
		sb.WriteString(e.String())
	}
	return sb.String()
}

// String serializes a single element.
func (e Element) String() string {
	if e.FieldName == "" {
		return e.ClassName
	}
	return fmt.Sprintf("%s[%s]", e.ClassName, e.FieldName)
}

// IsEmpty reports whether the scope has no elements.
func (s Scope) IsEmpty() bool {
	return len(s.Elements) == 0
}

// Equal checks for element-wise equality between two scopes.
func (s Scope) Equal(other Scope) bool {
	return slices.Equal(s.Elements, other.Elements)
}

// Child returns a copy of the scope extended by one element.
func (s Scope) Child(e Element) Scope {
	elements := make([]Element, 0, len(s.Elements)+1)
	elements = append(elements, s.Elements...)
	elements = append(elements, e)
	return Scope{Elements: elements}
}

// MarshalText implements encoding.TextMarshaler so scopes travel as plain strings.
func (s Scope) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Scope) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// String serializes the address as `<scope>/<operator>_<call order>`.
func (a OperationAddress) String() string {
	op := fmt.Sprintf("%s_%d", a.OperatorName, a.CallOrder)
	if a.Scope.IsEmpty() {
		return op
	}
	return a.Scope.String() + "/" + op
}

// Equal checks for deep equality between two addresses.
func (a OperationAddress) Equal(other OperationAddress) bool {
	return a.OperatorName == other.OperatorName &&
		a.CallOrder == other.CallOrder &&
		a.Scope.Equal(other.Scope)
}
