package compiler

import (
	"bytes"
	"encoding/json"
)

// Document is a JSON object that marshals its keys in insertion order.
// Chart and series order inside a group document is a consumer contract
// (render order on the page), and encoding/json maps cannot honor it.
type Document struct {
	keys   []string
	values map[string]any
}

// NewDocument returns an empty ordered document.
func NewDocument() *Document {
	return &Document{values: make(map[string]any)}
}

// Set adds or replaces a key. First insertion fixes the key's position.
func (d *Document) Set(key string, value any) {
	if _, ok := d.values[key]; !ok {
		d.keys = append(d.keys, key)
	}
	d.values[key] = value
}

// Get returns the value stored under key, if any.
func (d *Document) Get(key string) (any, bool) {
	v, ok := d.values[key]
	return v, ok
}

// Len returns the number of keys.
func (d *Document) Len() int { return len(d.keys) }

// MarshalJSON writes the object with keys in insertion order.
func (d *Document) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range d.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		v, err := json.Marshal(d.values[key])
		if err != nil {
			return nil, err
		}
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
