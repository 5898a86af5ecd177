package types

import (
	"encoding/json"
)

// Patch is one field of a partial update. It tells apart a field that was
// left out (Present false), one sent as null (Present true, Valid false) and
// one sent with a value.
type Patch[T any] struct {
	Present bool
	Valid   bool
	Value   T
}

// Some returns a patch carrying v.
func Some[T any](v T) Patch[T] {
	return Patch[T]{Present: true, Valid: true, Value: v}
}

// Null returns a patch that clears the field.
func Null[T any]() Patch[T] {
	return Patch[T]{Present: true}
}

// UnmarshalJSON implements json.Unmarshaler. encoding/json only calls it for
// keys that appear in the document, which is what makes absence observable.
func (p *Patch[T]) UnmarshalJSON(data []byte) error {
	p.Present = true
	if string(data) == "null" {
		var zero T
		p.Valid = false
		p.Value = zero
		return nil
	}
	if err := json.Unmarshal(data, &p.Value); err != nil {
		return err
	}
	p.Valid = true
	return nil
}

// MarshalJSON implements json.Marshaler.
func (p Patch[T]) MarshalJSON() ([]byte, error) {
	if !p.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(p.Value)
}

// IsSet reports whether the field was supplied.
func (p Patch[T]) IsSet() bool {
	return p.Present
}

// SQLValue returns the bound value, nil for an explicit null.
func (p Patch[T]) SQLValue() any {
	if !p.Valid {
		return nil
	}
	return p.Value
}

// Or returns the patched value when supplied, else fallback. A null patch
// yields nil.
func (p Patch[T]) Or(fallback *T) *T {
	if !p.Present {
		return fallback
	}
	if !p.Valid {
		return nil
	}
	v := p.Value
	return &v
}
