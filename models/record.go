// Package models defines data structures for the crawler.
package models

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// Fields present on every record, in output order.
const (
	FieldProductPageURL     = "product_page_url"
	FieldCategory           = "category"
	FieldTitle              = "title"
	FieldImageURL           = "image_url"
	FieldReviewRating       = "review_rating"
	FieldProductDescription = "product_description"
)

// ValueKind tags the variant held by a Value.
type ValueKind int

const (
	KindText ValueKind = iota
	KindInt
	KindNotRated
)

// Value is a single record cell: text, integer, or the not-rated sentinel.
type Value struct {
	Kind ValueKind
	Text string
	Int  int
}

// NotRated marks a rating indicator that was present but unrecognised.
var NotRated = Value{Kind: KindNotRated}

// Text wraps s as a text value.
func Text(s string) Value {
	return Value{Kind: KindText, Text: s}
}

// Int wraps n as an integer value.
func Int(n int) Value {
	return Value{Kind: KindInt, Int: n}
}

// IsNotRated reports whether v is the not-rated sentinel.
func (v Value) IsNotRated() bool {
	return v.Kind == KindNotRated
}

// String renders v as a CSV cell. The sentinel renders as an empty cell.
func (v Value) String() string {
	switch v.Kind {
	case KindInt:
		return strconv.Itoa(v.Int)
	case KindNotRated:
		return ""
	default:
		return v.Text
	}
}

// MarshalJSON encodes integers as numbers and the sentinel as null.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case KindInt:
		return []byte(strconv.Itoa(v.Int)), nil
	case KindNotRated:
		return []byte("null"), nil
	default:
		return json.Marshal(v.Text)
	}
}

// Record maps field names to values and remembers first-insertion order.
type Record struct {
	keys   []string
	values map[string]Value
}

// NewRecord returns an empty record.
func NewRecord() *Record {
	return &Record{values: make(map[string]Value)}
}

// Set stores v under key. Overwriting an existing key keeps its position.
func (r *Record) Set(key string, v Value) {
	if _, ok := r.values[key]; !ok {
		r.keys = append(r.keys, key)
	}
	r.values[key] = v
}

// Get returns the value stored under key.
func (r *Record) Get(key string) (Value, bool) {
	v, ok := r.values[key]
	return v, ok
}

// Text returns the string form of key, or "" when absent.
func (r *Record) Text(key string) string {
	return r.values[key].String()
}

// Keys returns the field names in first-seen order.
func (r *Record) Keys() []string {
	out := make([]string, len(r.keys))
	copy(out, r.keys)
	return out
}

// Len returns the number of fields.
func (r *Record) Len() int {
	return len(r.keys)
}

// SameKeys reports whether r and other hold exactly the same field names.
func (r *Record) SameKeys(other *Record) bool {
	if other == nil || len(r.keys) != len(other.keys) {
		return false
	}
	for _, k := range r.keys {
		if _, ok := other.values[k]; !ok {
			return false
		}
	}
	return true
}

// MarshalJSON encodes the record as an object with keys in first-seen order.
func (r *Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range r.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := r.values[k].MarshalJSON()
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
