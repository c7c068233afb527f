package models

import (
	"encoding/json"
	"strconv"
	"strings"
)

// RawRecord is a loosely-typed Graph object as decoded from JSON.
// Accessors treat a value of the wrong type as absent.
type RawRecord map[string]any

// AsRecord converts a decoded JSON value into a RawRecord.
func AsRecord(v any) (RawRecord, bool) {
	switch m := v.(type) {
	case RawRecord:
		return m, m != nil
	case map[string]any:
		return RawRecord(m), m != nil
	}

	return nil, false
}

// Has reports whether key is present, even when its value is null.
func (r RawRecord) Has(key string) bool {
	_, ok := r[key]

	return ok
}

// Present reports whether key is present with a non-null value.
func (r RawRecord) Present(key string) bool {
	v, ok := r[key]

	return ok && v != nil
}

// String returns the value of key if it is a string.
func (r RawRecord) String(key string) string {
	s, _ := r[key].(string)

	return s
}

// Text returns the display form of a non-null value.
func (r RawRecord) Text(key string) (string, bool) {
	v, ok := r[key]
	if !ok || v == nil {
		return "", false
	}

	return Stringify(v), true
}

// Bool returns the value of key if it is a boolean.
func (r RawRecord) Bool(key string) bool {
	b, _ := r[key].(bool)

	return b
}

// Object returns the nested object stored under key, or nil.
func (r RawRecord) Object(key string) RawRecord {
	obj, _ := AsRecord(r[key])

	return obj
}

// Slice returns the array stored under key, or nil.
func (r RawRecord) Slice(key string) []any {
	s, _ := r[key].([]any)

	return s
}

// Path walks nested objects and returns the value at the end of keys.
func (r RawRecord) Path(keys ...string) any {
	var cur any = r

	for _, k := range keys {
		obj, ok := AsRecord(cur)
		if !ok {
			return nil
		}

		cur = obj[k]
	}

	return cur
}

// Clone returns a shallow copy.
func (r RawRecord) Clone() RawRecord {
	out := make(RawRecord, len(r))
	for k, v := range r {
		out[k] = v
	}

	return out
}

// Stringify renders a JSON scalar the way a user expects to read it.
// Integral numbers drop the fractional part; arrays of scalars are joined with commas.
func Stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case json.Number:
		return t.String()
	case []any:
		parts := make([]string, 0, len(t))
		for _, item := range t {
			parts = append(parts, Stringify(item))
		}

		return strings.Join(parts, ",")
	}

	data, err := json.Marshal(v)
	if err != nil {
		return ""
	}

	return string(data)
}

// PrettyJSON renders objects and arrays as indented multi-line text.
func PrettyJSON(v any) string {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return Stringify(v)
	}

	return string(data)
}

// IsComposite reports whether v is a JSON object or array.
func IsComposite(v any) bool {
	switch v.(type) {
	case map[string]any, RawRecord, []any:
		return true
	}

	return false
}

// Page is one page of a Graph collection response.
type Page struct {
	NextLink string      `json:"@odata.nextLink"`
	Items    []RawRecord `json:"value"`
}
