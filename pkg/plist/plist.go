// Package plist provides the property-list value model used for persisted
// dock state: strings, arrays and dictionaries with ordered keys.
//
// Documents are encoded as JSON. Dictionary key order survives a round
// trip, so saved files diff cleanly.
package plist

import (
	"strconv"
	"strings"
)

// Value is a [String], an [*Array] or a [*Dict].
type Value interface {
	isValue()
}

// String is a property-list string.
type String string

func (String) isValue() {}

// Bool returns the YES/NO encoding of b.
func Bool(b bool) String {
	if b {
		return "YES"
	}
	return "NO"
}

// Array is an ordered list of values.
type Array struct {
	items []Value
}

func (*Array) isValue() {}

// NewArray returns an array holding vs.
func NewArray(vs ...Value) *Array {
	return &Array{items: append([]Value(nil), vs...)}
}

// Len returns the number of items; a nil array is empty.
func (a *Array) Len() int {
	if a == nil {
		return 0
	}
	return len(a.items)
}

// At returns item i.
func (a *Array) At(i int) Value { return a.items[i] }

// Append adds v at the end.
func (a *Array) Append(v Value) { a.items = append(a.items, v) }

// Items returns a copy of the items.
func (a *Array) Items() []Value {
	if a == nil {
		return nil
	}
	return append([]Value(nil), a.items...)
}

// Dict is a dictionary that remembers insertion order.
type Dict struct {
	keys []string
	vals map[string]Value
}

func (*Dict) isValue() {}

// NewDict returns an empty dictionary.
func NewDict() *Dict {
	return &Dict{vals: make(map[string]Value)}
}

// Len returns the number of keys; a nil dict is empty.
func (d *Dict) Len() int {
	if d == nil {
		return 0
	}
	return len(d.keys)
}

// Put sets key to v. A new key goes last; an existing key keeps its place.
func (d *Dict) Put(key string, v Value) {
	if d.vals == nil {
		d.vals = make(map[string]Value)
	}
	if _, ok := d.vals[key]; !ok {
		d.keys = append(d.keys, key)
	}
	d.vals[key] = v
}

// Get returns the value stored under key.
func (d *Dict) Get(key string) (Value, bool) {
	if d == nil {
		return nil, false
	}
	v, ok := d.vals[key]
	return v, ok
}

// Delete removes key.
func (d *Dict) Delete(key string) {
	if d == nil {
		return
	}
	if _, ok := d.vals[key]; !ok {
		return
	}
	delete(d.vals, key)
	for i, k := range d.keys {
		if k == key {
			d.keys = append(d.keys[:i], d.keys[i+1:]...)
			break
		}
	}
}

// Keys returns the keys in insertion order.
func (d *Dict) Keys() []string {
	if d == nil {
		return nil
	}
	return append([]string(nil), d.keys...)
}

// Each calls fn for every entry in insertion order.
func (d *Dict) Each(fn func(key string, v Value)) {
	if d == nil {
		return
	}
	for _, k := range d.keys {
		fn(k, d.vals[k])
	}
}

// String returns the string under key.
func (d *Dict) String(key string) (string, bool) {
	v, ok := d.Get(key)
	if !ok {
		return "", false
	}
	s, ok := v.(String)
	return string(s), ok
}

// Bool reads a YES/NO flag. Missing or unrecognised values are false.
func (d *Dict) Bool(key string) bool {
	s, _ := d.String(key)
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "YES", "TRUE", "1":
		return true
	}
	return false
}

// Array returns the array under key.
func (d *Dict) Array(key string) (*Array, bool) {
	v, ok := d.Get(key)
	if !ok {
		return nil, false
	}
	a, ok := v.(*Array)
	return a, ok
}

// Dict returns the dictionary under key.
func (d *Dict) Dict(key string) (*Dict, bool) {
	v, ok := d.Get(key)
	if !ok {
		return nil, false
	}
	sub, ok := v.(*Dict)
	return sub, ok
}

// ParsePair parses an "x,y" position string.
func ParsePair(s string) (x, y int, ok bool) {
	a, b, found := strings.Cut(s, ",")
	if !found {
		return 0, 0, false
	}
	x, err := strconv.Atoi(strings.TrimSpace(a))
	if err != nil {
		return 0, 0, false
	}
	y, err = strconv.Atoi(strings.TrimSpace(b))
	if err != nil {
		return 0, 0, false
	}
	return x, y, true
}

// Pair formats an "x,y" position string.
func Pair(x, y int) String {
	return String(strconv.Itoa(x) + "," + strconv.Itoa(y))
}
