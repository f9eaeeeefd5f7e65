// internal/scope/types.go
package scope

// Element represents a single level of a scope path, e.g. `Conv2d[conv1]`.
type Element struct {
	ClassName string
	FieldName string // empty when the unit is not held under a named field.
}

// NewElement creates an element without a field name.
func NewElement(className string) Element {
	return Element{ClassName: className}
}

// NewElementWithField creates an element that records the field the unit is held under.
func NewElementWithField(className, fieldName string) Element {
	return Element{ClassName: className, FieldName: fieldName}
}

// HasField returns true if the element carries a field name.
func (e Element) HasField() bool {
	return e.FieldName != ""
}

// Scope is the structured representation of a call-site path.
// The zero value is the empty (top-level) scope.
type Scope struct {
	Elements []Element
}

// New builds a scope from its elements.
func New(elements ...Element) Scope {
	return Scope{Elements: elements}
}

// OperationAddress identifies one traced operation: the operator that was
// called, the scope it was called from and its call order inside that scope.
type OperationAddress struct {
	OperatorName string
	Scope        Scope
	CallOrder    int
}
