// Package nullable provides a tri-state optional value for patch payloads
// and filter criteria: a field can be absent, explicitly null, or set.
package nullable

import (
	"bytes"
	"encoding/json"
)

// Field holds a value of type T that may be absent, null, or present.
// The zero value is absent.
type Field[T any] struct {
	set   bool
	value *T
}

// Of returns a field holding v.
func Of[T any](v T) Field[T] {
	return Field[T]{set: true, value: &v}
}

// Null returns a field that was explicitly set to null.
func Null[T any]() Field[T] {
	return Field[T]{set: true}
}

// FromPtr returns a set field holding *p, or a null field when p is nil.
func FromPtr[T any](p *T) Field[T] {
	if p == nil {
		return Null[T]()
	}
	return Of(*p)
}

// IsSet reports whether the field was provided at all (null included).
func (f Field[T]) IsSet() bool { return f.set }

// IsNull reports whether the field was provided as null.
func (f Field[T]) IsNull() bool { return f.set && f.value == nil }

// Get returns the value and whether one is present.
func (f Field[T]) Get() (T, bool) {
	if f.value == nil {
		var zero T
		return zero, false
	}
	return *f.value, true
}

// Ptr returns a pointer to the value, or nil when absent or null.
func (f Field[T]) Ptr() *T {
	return f.value
}

// UnmarshalJSON is only invoked for keys present in the payload, which is
// what separates "absent" from "null".
func (f *Field[T]) UnmarshalJSON(data []byte) error {
	f.set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		f.value = nil
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	f.value = &v
	return nil
}

// MarshalJSON renders null for absent and null fields.
func (f Field[T]) MarshalJSON() ([]byte, error) {
	if f.value == nil {
		return []byte("null"), nil
	}
	return json.Marshal(*f.value)
}
