package rest

import (
	"sort"

	"github.com/iancoleman/strcase"
	"github.com/jinzhu/inflection"
)

// typeNameForAttr derives a nested resource type name from its attribute
// key: "addresses" becomes "Address".
func typeNameForAttr(key string) string {
	return strcase.ToCamel(inflection.Singular(key))
}

// FromDocument converts a decoded mapping into a resource of this type.
// Nested mappings become nested resources, typed by registration or by the
// camelized singular of their attribute key; sequences become slices whose
// mapping elements are likewise nested resources.
func (t *Type) FromDocument(doc Document) (*Resource, error) {
	m, ok := doc.(*Mapping)
	if !ok {
		return nil, &ProtocolError{Reason: "expected a single document"}
	}

	return buildFromMapping(t, t.typeName, m, nil), nil
}

// CollectionFromDocument converts a decoded sequence into resources of
// this type. Every element must be a mapping carrying the primary key.
func (t *Type) CollectionFromDocument(doc Document) ([]*Resource, error) {
	seq, ok := doc.(Sequence)
	if !ok {
		return nil, &ProtocolError{Reason: "expected a collection document"}
	}

	out := make([]*Resource, 0, len(seq))

	for _, el := range seq {
		m, ok := el.(*Mapping)
		if !ok {
			return nil, &ProtocolError{Reason: "collection element is not a document"}
		}

		r := buildFromMapping(t, t.typeName, m, nil)
		if r.ID() == "" {
			return nil, &ProtocolError{Reason: "collection element missing " + t.primaryKey}
		}

		r.state = StatePersisted
		out = append(out, r)
	}

	return out, nil
}

// Document renders the resource back into a mapping, preserving attribute
// order. Prefix options never appear in the body.
func (r *Resource) Document() *Mapping {
	return r.encodeBody(false)
}

func buildFromMapping(typ *Type, name string, m *Mapping, prefixOpts map[string]string) *Resource {
	r := newResource(typ, name)

	for k, v := range prefixOpts {
		r.prefixOptions[k] = v
	}

	for _, key := range m.Keys() {
		val, _ := m.Get(key)
		r.SetAttr(key, buildAttr(typ, key, val))
	}

	if v, ok := r.attrs[r.primaryKeyName()]; ok && v != nil {
		r.state = StatePersisted
	}

	return r
}

func buildAttr(typ *Type, key string, doc Document) interface{} {
	switch d := doc.(type) {
	case Scalar:
		return d.Value
	case *Mapping:
		return buildNested(typ, key, d)
	case Sequence:
		out := make([]interface{}, 0, len(d))
		for _, el := range d {
			out = append(out, buildAttr(typ, key, el))
		}

		return out
	}

	return nil
}

func buildNested(typ *Type, key string, m *Mapping) *Resource {
	if typ != nil {
		if nested, ok := typ.nested[key]; ok {
			return buildFromMapping(nested, nested.typeName, m, nil)
		}
	}

	return buildFromMapping(nil, typeNameForAttr(key), m, nil)
}

// New builds a local resource from plain Go values. Nested maps become
// nested resources and nested slices become attribute slices, typed the
// same way decoding types them. Attribute order is sorted by key so a
// freshly built resource encodes deterministically.
func (t *Type) New(attrs map[string]interface{}) *Resource {
	return fromGoMap(t, t.typeName, attrs)
}

func fromGoMap(typ *Type, name string, attrs map[string]interface{}) *Resource {
	r := newResource(typ, name)

	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	for _, k := range keys {
		r.SetAttr(k, fromGoValue(typ, k, attrs[k]))
	}

	return r
}

func fromGoValue(typ *Type, key string, value interface{}) interface{} {
	switch v := value.(type) {
	case map[string]interface{}:
		if typ != nil {
			if nested, ok := typ.nested[key]; ok {
				return fromGoMap(nested, nested.typeName, v)
			}
		}

		return fromGoMap(nil, typeNameForAttr(key), v)
	case []interface{}:
		out := make([]interface{}, 0, len(v))
		for _, el := range v {
			out = append(out, fromGoValue(typ, key, el))
		}

		return out
	case *Resource:
		return v
	default:
		return v
	}
}

// encodeBody flattens the resource into a mapping. When excludeID is true
// the primary key attribute is skipped; element updates carry the id in
// the URL, not the body.
func (r *Resource) encodeBody(excludeID bool) *Mapping {
	m := NewMapping()

	for _, key := range r.keys {
		if excludeID && key == r.primaryKeyName() {
			continue
		}

		m.Set(key, encodeAttr(r.attrs[key]))
	}

	return m
}

func encodeAttr(value interface{}) Document {
	switch v := value.(type) {
	case *Resource:
		return v.encodeBody(false)
	case []interface{}:
		seq := make(Sequence, 0, len(v))
		for _, el := range v {
			seq = append(seq, encodeAttr(el))
		}

		return seq
	case Document:
		return v
	default:
		return Scalar{Value: v}
	}
}
