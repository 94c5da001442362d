package extract

import "fmt"

// Wrapper keys the service may nest its payload under.
const (
	SchemaWrapperKey = "structured_data"
	FieldsWrapperKey = "extracted_fields"
)

// Shape says how a response was laid out before unwrapping.
type Shape int

const (
	ShapeBare Shape = iota
	ShapeWrapped
)

func (s Shape) String() string {
	if s == ShapeWrapped {
		return "wrapped"
	}
	return "bare"
}

// Envelope is a response resolved once at the boundary: Data is always the
// payload object, whichever shape it arrived in.
type Envelope struct {
	Shape Shape
	Data  map[string]any
}

// Unwrap resolves raw into an Envelope. When raw carries wrapperKey the payload
// under it must itself be an object.
func Unwrap(raw map[string]any, wrapperKey string) (Envelope, error) {
	if raw == nil {
		return Envelope{}, fmt.Errorf("empty extraction response")
	}
	inner, ok := raw[wrapperKey]
	if !ok {
		return Envelope{Shape: ShapeBare, Data: raw}, nil
	}
	m, ok := inner.(map[string]any)
	if !ok {
		return Envelope{}, fmt.Errorf("%s is %T, want object", wrapperKey, inner)
	}
	return Envelope{Shape: ShapeWrapped, Data: m}, nil
}
