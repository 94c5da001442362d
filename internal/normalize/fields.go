package normalize

import (
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/tutejaLucky/docExtract/internal/common"
)

// Fields is a read-only view over one object of an extraction result.
// Every accessor falls back to a default instead of failing, except Number,
// which reports text that is present but not numeric.
type Fields struct {
	data map[string]any
	path string
}

// NewFields wraps m. A nil map behaves like an empty object.
func NewFields(m map[string]any) Fields {
	return Fields{data: m}
}

// Has reports whether key is present with a non-null value.
func (f Fields) Has(key string) bool {
	v, ok := f.data[key]
	return ok && v != nil
}

// Text returns the value under key as trimmed text, or "" when it is absent,
// null or not a scalar. Numbers are rendered as decimal text.
func (f Fields) Text(key string) string {
	switch v := f.data[key].(type) {
	case string:
		return strings.TrimSpace(v)
	case json.Number:
		return v.String()
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	default:
		return ""
	}
}

// Number returns the value under key as a float64. Absent, null, blank or
// non-scalar values give 0. Text that does not parse as a finite number gives
// a *common.MalformedFieldError.
func (f Fields) Number(key string) (float64, error) {
	raw := f.data[key]
	var (
		out float64
		err error
	)
	switch v := raw.(type) {
	case float64:
		out = v
	case float32:
		out = float64(v)
	case int:
		out = float64(v)
	case int64:
		out = float64(v)
	case json.Number:
		out, err = strconv.ParseFloat(v.String(), 64)
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return 0, nil
		}
		out, err = strconv.ParseFloat(s, 64)
	default:
		return 0, nil
	}
	if err == nil && (math.IsNaN(out) || math.IsInf(out, 0)) {
		err = errors.New("not a finite number")
	}
	if err != nil {
		return 0, &common.MalformedFieldError{Field: f.qualify(key), Value: raw, Cause: err}
	}
	return out, nil
}

// Object returns the nested object under key, or an empty view.
func (f Fields) Object(key string) Fields {
	m, _ := f.data[key].(map[string]any)
	return Fields{data: m, path: f.qualify(key)}
}

// List returns the object elements of the list under key. Elements that are
// not objects are skipped; a missing or non-list value gives no elements.
func (f Fields) List(key string) []Fields {
	arr, ok := f.data[key].([]any)
	if !ok {
		return nil
	}
	out := make([]Fields, 0, len(arr))
	for i, el := range arr {
		m, ok := el.(map[string]any)
		if !ok {
			continue
		}
		out = append(out, Fields{data: m, path: f.qualify(key) + "[" + strconv.Itoa(i) + "]"})
	}
	return out
}

func (f Fields) qualify(key string) string {
	if f.path == "" {
		return key
	}
	return f.path + "." + key
}

// numbers reads numeric fields and keeps the first coercion error, so a
// mapping can read every field and check once at the end.
type numbers struct {
	err error
}

func (n *numbers) read(f Fields, key string) float64 {
	if n.err != nil {
		return 0
	}
	v, err := f.Number(key)
	if err != nil {
		n.err = err
		return 0
	}
	return v
}
