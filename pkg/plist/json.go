package plist

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// MarshalJSON encodes the dictionary as a JSON object in key order.
func (d *Dict) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range d.Keys() {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		vb, err := marshalValue(d.vals[k])
		if err != nil {
			return nil, fmt.Errorf("key %q: %w", k, err)
		}
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MarshalJSON encodes the array as a JSON array.
func (a *Array) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, v := range a.Items() {
		if i > 0 {
			buf.WriteByte(',')
		}
		vb, err := marshalValue(v)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		buf.Write(vb)
	}
	buf.WriteByte(']')
	return buf.Bytes(), nil
}

func marshalValue(v Value) ([]byte, error) {
	switch v := v.(type) {
	case String:
		return json.Marshal(string(v))
	case *Array:
		return v.MarshalJSON()
	case *Dict:
		return v.MarshalJSON()
	case nil:
		return nil, fmt.Errorf("nil value")
	}
	return nil, fmt.Errorf("unsupported value %T", v)
}

// UnmarshalJSON decodes a JSON object, keeping key order.
func (d *Dict) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	v, err := decodeValue(dec)
	if err != nil {
		return err
	}
	sub, ok := v.(*Dict)
	if !ok {
		return fmt.Errorf("plist: expected object, got %T", v)
	}
	*d = *sub
	return nil
}

// Decode reads one JSON document and returns its top-level dictionary.
func Decode(r io.Reader) (*Dict, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	v, err := decodeValue(dec)
	if err != nil {
		return nil, err
	}
	d, ok := v.(*Dict)
	if !ok {
		return nil, fmt.Errorf("plist: top-level value is not an object")
	}
	return d, nil
}

// Encode writes d as indented JSON followed by a newline.
func Encode(w io.Writer, d *Dict) error {
	raw, err := d.MarshalJSON()
	if err != nil {
		return err
	}
	var out bytes.Buffer
	if err := json.Indent(&out, raw, "", "  "); err != nil {
		return err
	}
	out.WriteByte('\n')
	_, err = w.Write(out.Bytes())
	return err
}

// decodeValue reads the next value from dec. Numbers and booleans become
// strings; null is rejected.
func decodeValue(dec *json.Decoder) (Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("plist: %w", err)
	}
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			d := NewDict()
			for dec.More() {
				kt, err := dec.Token()
				if err != nil {
					return nil, fmt.Errorf("plist: %w", err)
				}
				key, ok := kt.(string)
				if !ok {
					return nil, fmt.Errorf("plist: object key is %T", kt)
				}
				v, err := decodeValue(dec)
				if err != nil {
					return nil, err
				}
				d.Put(key, v)
			}
			if _, err := dec.Token(); err != nil {
				return nil, fmt.Errorf("plist: %w", err)
			}
			return d, nil
		case '[':
			a := NewArray()
			for dec.More() {
				v, err := decodeValue(dec)
				if err != nil {
					return nil, err
				}
				a.Append(v)
			}
			if _, err := dec.Token(); err != nil {
				return nil, fmt.Errorf("plist: %w", err)
			}
			return a, nil
		}
		return nil, fmt.Errorf("plist: unexpected %v", t)
	case string:
		return String(t), nil
	case json.Number:
		return String(t.String()), nil
	case bool:
		return Bool(t), nil
	case nil:
		return nil, fmt.Errorf("plist: null is not a property-list value")
	}
	return nil, fmt.Errorf("plist: unexpected token %v", tok)
}
