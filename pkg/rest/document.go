package rest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// Document is the decoded structured form of a request or response body.
// A Document is one of three shapes: Scalar, Sequence, or *Mapping.
// Documents are value-like: decoding never shares state between results.
type Document interface {
	document()
}

// Scalar is a leaf value: a string, json.Number, bool, or nil.
type Scalar struct {
	Value interface{}
}

func (Scalar) document() {}

// String returns a string scalar.
func String(s string) Scalar { return Scalar{Value: s} }

// Number returns a numeric scalar from its wire representation.
func Number(n string) Scalar { return Scalar{Value: json.Number(n)} }

// Bool returns a boolean scalar.
func Bool(b bool) Scalar { return Scalar{Value: b} }

// Null returns the null scalar.
func Null() Scalar { return Scalar{} }

// Sequence is an ordered list of documents.
type Sequence []Document

func (Sequence) document() {}

// Mapping is a string-keyed document that preserves key order, so a
// decoded body re-encodes with the keys in the order the server sent them.
type Mapping struct {
	keys   []string
	values map[string]Document
}

func (*Mapping) document() {}

// NewMapping returns an empty mapping.
func NewMapping() *Mapping {
	return &Mapping{values: make(map[string]Document)}
}

// Set stores value under key. A new key is appended to the key order; an
// existing key keeps its position.
func (m *Mapping) Set(key string, value Document) *Mapping {
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}

	m.values[key] = value

	return m
}

// Get returns the value stored under key.
func (m *Mapping) Get(key string) (Document, bool) {
	v, ok := m.values[key]

	return v, ok
}

// Keys returns the key order. Callers must not modify the returned slice.
func (m *Mapping) Keys() []string { return m.keys }

// Len returns the number of keys.
func (m *Mapping) Len() int { return len(m.keys) }

// DecodeDocument parses a JSON body into a Document. Numbers are kept in
// their wire form so that re-encoding is lossless.
func DecodeDocument(data []byte) (Document, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	doc, err := decodeValue(dec)
	if err != nil {
		return nil, &DecodeError{Err: err}
	}

	if _, err := dec.Token(); err != io.EOF {
		return nil, &DecodeError{Err: ErrTrailingData}
	}

	return doc, nil
}

// EncodeDocument renders a Document back into its JSON wire form. Mapping
// keys are written in their stored order.
func EncodeDocument(doc Document) ([]byte, error) {
	var buf bytes.Buffer

	err := encodeValue(&buf, doc)
	if err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func decodeValue(dec *json.Decoder) (Document, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("reading token: %w", err)
	}

	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			return decodeMappingBody(dec)
		case '[':
			return decodeSequenceBody(dec)
		}

		return nil, fmt.Errorf("%w: unexpected delimiter %q", ErrUnsupportedValue, t.String())
	case string:
		return Scalar{Value: t}, nil
	case json.Number:
		return Scalar{Value: t}, nil
	case bool:
		return Scalar{Value: t}, nil
	case nil:
		return Scalar{}, nil
	}

	return nil, fmt.Errorf("%w: %T", ErrUnsupportedValue, tok)
}

func decodeMappingBody(dec *json.Decoder) (*Mapping, error) {
	m := NewMapping()

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("reading key: %w", err)
		}

		key, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("%w: non-string key %v", ErrUnsupportedValue, keyTok)
		}

		val, err := decodeValue(dec)
		if err != nil {
			return nil, err
		}

		m.Set(key, val)
	}

	// closing brace
	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("reading end of object: %w", err)
	}

	return m, nil
}

func decodeSequenceBody(dec *json.Decoder) (Sequence, error) {
	seq := Sequence{}

	for dec.More() {
		val, err := decodeValue(dec)
		if err != nil {
			return nil, err
		}

		seq = append(seq, val)
	}

	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("reading end of array: %w", err)
	}

	return seq, nil
}

func encodeValue(buf *bytes.Buffer, doc Document) error {
	switch d := doc.(type) {
	case Scalar:
		data, err := json.Marshal(d.Value)
		if err != nil {
			return fmt.Errorf("encoding scalar: %w", err)
		}

		buf.Write(data)
	case Sequence:
		buf.WriteByte('[')

		for i, el := range d {
			if i > 0 {
				buf.WriteByte(',')
			}

			err := encodeValue(buf, el)
			if err != nil {
				return err
			}
		}

		buf.WriteByte(']')
	case *Mapping:
		buf.WriteByte('{')

		for i, key := range d.keys {
			if i > 0 {
				buf.WriteByte(',')
			}

			keyData, err := json.Marshal(key)
			if err != nil {
				return fmt.Errorf("encoding key: %w", err)
			}

			buf.Write(keyData)
			buf.WriteByte(':')

			err = encodeValue(buf, d.values[key])
			if err != nil {
				return err
			}
		}

		buf.WriteByte('}')
	case nil:
		buf.WriteString("null")
	default:
		return fmt.Errorf("%w: %T", ErrUnsupportedValue, doc)
	}

	return nil
}
