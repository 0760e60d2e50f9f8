package rest

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// State tracks where a resource is in its lifecycle.
type State int

const (
	// StateNew marks a resource built locally and never saved.
	StateNew State = iota
	// StatePersisted marks a resource that exists on the server.
	StatePersisted
	// StateDeleted marks a resource removed through this mapper.
	StateDeleted
)

func (s State) String() string {
	switch s {
	case StateNew:
		return "new"
	case StatePersisted:
		return "persisted"
	case StateDeleted:
		return "deleted"
	}

	return fmt.Sprintf("state(%d)", int(s))
}

// Resource is an in-memory object mapped from a remote collection element.
// Attribute order follows decode order, so re-encoding a resource writes
// keys the way the server sent them. Nested documents decode into nested
// resources; nested sequences decode into slices.
type Resource struct {
	typ           *Type
	typeName      string
	keys          []string
	attrs         map[string]interface{}
	prefixOptions map[string]string
	state         State
}

// TypeName returns the camel-cased type name of the resource, derived from
// the declared type or, for nested data, from its attribute key.
func (r *Resource) TypeName() string { return r.typeName }

// State returns the lifecycle state.
func (r *Resource) State() State { return r.state }

// Persisted returns true when the resource exists on the server.
func (r *Resource) Persisted() bool { return r.state == StatePersisted }

// PrefixOptions returns the prefix parameters the resource was loaded
// with. Instance operations reuse them to rebuild the nested path.
func (r *Resource) PrefixOptions() map[string]string { return r.prefixOptions }

// AttrNames returns the attribute names in their stored order. Callers
// must not modify the returned slice.
func (r *Resource) AttrNames() []string { return r.keys }

// Attr returns the raw attribute value. Scalars are string, json.Number,
// bool, or nil; nested documents are *Resource; sequences are
// []interface{}.
func (r *Resource) Attr(name string) (interface{}, bool) {
	v, ok := r.attrs[name]

	return v, ok
}

// SetAttr sets or replaces an attribute. A new attribute is appended to
// the attribute order; an existing one keeps its position.
func (r *Resource) SetAttr(name string, value interface{}) {
	if _, ok := r.attrs[name]; !ok {
		r.keys = append(r.keys, name)
	}

	r.attrs[name] = value
}

// GetString returns the attribute as a string. Numbers convert to their
// wire form.
func (r *Resource) GetString(name string) (string, bool) {
	v, ok := r.attrs[name]
	if !ok {
		return "", false
	}

	switch s := v.(type) {
	case string:
		return s, true
	case json.Number:
		return s.String(), true
	}

	return "", false
}

// GetInt returns the attribute as an int64.
func (r *Resource) GetInt(name string) (int64, bool) {
	v, ok := r.attrs[name]
	if !ok {
		return 0, false
	}

	switch n := v.(type) {
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return 0, false
		}

		return i, true
	case int:
		return int64(n), true
	case int64:
		return n, true
	}

	return 0, false
}

// GetFloat returns the attribute as a float64.
func (r *Resource) GetFloat(name string) (float64, bool) {
	v, ok := r.attrs[name]
	if !ok {
		return 0, false
	}

	switch n := v.(type) {
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0, false
		}

		return f, true
	case float64:
		return n, true
	}

	return 0, false
}

// GetBool returns the attribute as a bool.
func (r *Resource) GetBool(name string) (bool, bool) {
	b, ok := r.attrs[name].(bool)

	return b, ok
}

// GetResource returns the attribute as a nested resource.
func (r *Resource) GetResource(name string) (*Resource, bool) {
	nested, ok := r.attrs[name].(*Resource)

	return nested, ok
}

// GetSlice returns the attribute as a slice of values.
func (r *Resource) GetSlice(name string) ([]interface{}, bool) {
	s, ok := r.attrs[name].([]interface{})

	return s, ok
}

// ID returns the primary key value as a string, or "" when unset.
func (r *Resource) ID() string {
	v, ok := r.attrs[r.primaryKeyName()]
	if !ok || v == nil {
		return ""
	}

	switch id := v.(type) {
	case string:
		return id
	case json.Number:
		return id.String()
	default:
		return fmt.Sprintf("%v", id)
	}
}

// SetID sets the primary key attribute. A decimal id is stored as a
// number so it re-encodes unquoted.
func (r *Resource) SetID(id string) {
	if _, err := strconv.ParseInt(id, 10, 64); err == nil {
		r.SetAttr(r.primaryKeyName(), json.Number(id))

		return
	}

	r.SetAttr(r.primaryKeyName(), id)
}

// Equal reports whether two resources refer to the same remote object:
// same type name, same id, same prefix options.
func (r *Resource) Equal(other *Resource) bool {
	if other == nil {
		return false
	}

	if r.typeName != other.typeName || r.ID() == "" || r.ID() != other.ID() {
		return false
	}

	if len(r.prefixOptions) != len(other.prefixOptions) {
		return false
	}

	for k, v := range r.prefixOptions {
		if other.prefixOptions[k] != v {
			return false
		}
	}

	return true
}

func (r *Resource) primaryKeyName() string {
	if r.typ != nil {
		return r.typ.primaryKey
	}

	return "id"
}

func newResource(typ *Type, typeName string) *Resource {
	return &Resource{
		typ:           typ,
		typeName:      typeName,
		attrs:         make(map[string]interface{}),
		prefixOptions: make(map[string]string),
	}
}
