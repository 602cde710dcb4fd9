// Package patch models partial-update request fields that can be absent,
// explicitly null, or carry a value.
package patch

import "encoding/json"

type state uint8

const (
	absent state = iota
	null
	present
)

// Field is an optional request value. The zero value is absent.
type Field[T any] struct {
	value T
	state state
}

// Value returns a Field holding v.
func Value[T any](v T) Field[T] {
	return Field[T]{value: v, state: present}
}

// Null returns a Field that was explicitly sent as null.
func Null[T any]() Field[T] {
	return Field[T]{state: null}
}

// IsSet reports whether the field carries a value.
func (f Field[T]) IsSet() bool {
	return f.state == present
}

// IsNull reports whether the field was explicitly null.
func (f Field[T]) IsNull() bool {
	return f.state == null
}

// Get returns the value and whether one is present.
func (f Field[T]) Get() (T, bool) {
	return f.value, f.state == present
}

// Or returns the value when present and fallback otherwise. Absent and null
// both keep the fallback; catalog updates never clear a field.
func (f Field[T]) Or(fallback T) T {
	if f.state == present {
		return f.value
	}
	return fallback
}

// UnmarshalJSON implements json.Unmarshaler. It only runs when the key is
// present in the payload, which is what separates absent from null.
func (f *Field[T]) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		var zero T
		f.value = zero
		f.state = null
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	f.value = v
	f.state = present
	return nil
}

// MarshalJSON implements json.Marshaler. Absent fields encode as null.
func (f Field[T]) MarshalJSON() ([]byte, error) {
	if f.state != present {
		return []byte("null"), nil
	}
	return json.Marshal(f.value)
}
