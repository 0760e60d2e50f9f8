package rest

import (
	"bytes"
	"context"
	"errors"
	"net/http"
)

const contentTypeJSON = "application/json"

// CollectionPath builds the path for the whole collection. Options naming
// a prefix placeholder fill the template; the rest become query
// parameters, encoded in insertion order.
func (t *Type) CollectionPath(opts *Params) (string, error) {
	prefixOpts, query := t.splitOptions(opts)

	return t.collectionPath(prefixOpts, query)
}

// ElementPath builds the path for a single element. Options split the
// same way as CollectionPath.
func (t *Type) ElementPath(id string, opts *Params) (string, error) {
	prefixOpts, query := t.splitOptions(opts)

	return t.elementPath(id, prefixOpts, query)
}

// Find retrieves the element with the given id.
func (t *Type) Find(ctx context.Context, id string, opts *Params) (*Resource, error) {
	prefixOpts, query := t.splitOptions(opts)

	path, err := t.elementPath(id, prefixOpts, query)
	if err != nil {
		return nil, err
	}

	resp, err := t.request(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}

	return t.decodeElement(resp, prefixOpts)
}

// FindAll retrieves the whole collection.
func (t *Type) FindAll(ctx context.Context, opts *Params) ([]*Resource, error) {
	prefixOpts, query := t.splitOptions(opts)

	path, err := t.collectionPath(prefixOpts, query)
	if err != nil {
		return nil, err
	}

	resp, err := t.request(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}

	doc, err := DecodeDocument(resp.Body)
	if err != nil {
		return nil, err
	}

	seq, ok := removeRoot(doc).(Sequence)
	if !ok {
		return nil, &ProtocolError{Status: resp.Status, Reason: "expected a collection document"}
	}

	out, err := t.CollectionFromDocument(seq)
	if err != nil {
		var protoErr *ProtocolError
		if errors.As(err, &protoErr) {
			protoErr.Status = resp.Status
		}

		return nil, err
	}

	for _, r := range out {
		for k, v := range prefixOpts {
			r.prefixOptions[k] = v
		}
	}

	return out, nil
}

// FindFirst retrieves the collection and returns its first element, or nil
// when the collection is empty.
func (t *Type) FindFirst(ctx context.Context, opts *Params) (*Resource, error) {
	all, err := t.FindAll(ctx, opts)
	if err != nil {
		return nil, err
	}

	if len(all) == 0 {
		return nil, nil
	}

	return all[0], nil
}

// FindOne retrieves a single element from a custom path instead of the
// generated element path. Options all become query parameters.
func (t *Type) FindOne(ctx context.Context, from string, opts *Params) (*Resource, error) {
	path := from
	if opts.Len() > 0 {
		path += "?" + opts.Encode()
	}

	resp, err := t.request(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}

	return t.decodeElement(resp, nil)
}

// Create builds a resource from attrs and submits it to the collection.
// On failure the returned resource is still populated and new, so the
// caller can adjust and resend it.
func (t *Type) Create(ctx context.Context, attrs map[string]interface{}, opts *Params) (*Resource, error) {
	prefixOpts, query := t.splitOptions(opts)

	r := t.New(attrs)
	r.prefixOptions = prefixOpts

	if err := r.create(ctx, query); err != nil {
		return r, err
	}

	return r, nil
}

// Exists checks whether the element with the given id is present, using a
// HEAD request. A 404 reports false without an error.
func (t *Type) Exists(ctx context.Context, id string, opts *Params) (bool, error) {
	prefixOpts, query := t.splitOptions(opts)

	path, err := t.elementPath(id, prefixOpts, query)
	if err != nil {
		return false, err
	}

	if _, err := t.request(ctx, http.MethodHead, path, nil); err != nil {
		if IsNotFound(err) {
			return false, nil
		}

		return false, err
	}

	return true, nil
}

// Delete removes the element with the given id.
func (t *Type) Delete(ctx context.Context, id string, opts *Params) error {
	prefixOpts, query := t.splitOptions(opts)

	path, err := t.elementPath(id, prefixOpts, query)
	if err != nil {
		return err
	}

	_, err = t.request(ctx, http.MethodDelete, path, nil)

	return err
}

// Save writes the resource back to the server: a PUT to the element path
// when the resource has an id, otherwise a POST to the collection. A
// response body, when present, refreshes the attributes.
func (r *Resource) Save(ctx context.Context) error {
	if r.typ == nil {
		return ErrDetachedResource
	}

	if r.state == StateDeleted {
		return &GoneError{TypeName: r.typeName, ID: r.ID()}
	}

	if r.ID() == "" {
		return r.create(ctx, nil)
	}

	path, err := r.typ.elementPath(r.ID(), r.prefixOptions, nil)
	if err != nil {
		return err
	}

	body, err := EncodeDocument(r.encodeBody(true))
	if err != nil {
		return err
	}

	resp, err := r.typ.request(ctx, http.MethodPut, path, body)
	if err != nil {
		return err
	}

	if err := r.refreshFrom(resp.Body); err != nil {
		return err
	}

	r.state = StatePersisted

	return nil
}

// Delete removes the resource from the server and marks it deleted.
// Further Save, Delete, or Reload calls fail with GoneError.
func (r *Resource) Delete(ctx context.Context) error {
	if r.typ == nil {
		return ErrDetachedResource
	}

	if r.state == StateDeleted {
		return &GoneError{TypeName: r.typeName, ID: r.ID()}
	}

	if r.ID() == "" {
		return ErrMissingID
	}

	path, err := r.typ.elementPath(r.ID(), r.prefixOptions, nil)
	if err != nil {
		return err
	}

	if _, err := r.typ.request(ctx, http.MethodDelete, path, nil); err != nil {
		return err
	}

	r.state = StateDeleted

	return nil
}

// Reload refetches the resource and replaces its attributes with the
// server's current state.
func (r *Resource) Reload(ctx context.Context) error {
	if r.typ == nil {
		return ErrDetachedResource
	}

	if r.state == StateDeleted {
		return &GoneError{TypeName: r.typeName, ID: r.ID()}
	}

	if r.ID() == "" {
		return ErrMissingID
	}

	path, err := r.typ.elementPath(r.ID(), r.prefixOptions, nil)
	if err != nil {
		return err
	}

	resp, err := r.typ.request(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}

	fresh, err := r.typ.decodeElement(resp, r.prefixOptions)
	if err != nil {
		return err
	}

	r.keys = fresh.keys
	r.attrs = fresh.attrs
	r.state = StatePersisted

	return nil
}

func (r *Resource) create(ctx context.Context, query *Params) error {
	t := r.typ
	if t == nil {
		return ErrDetachedResource
	}

	path, err := t.collectionPath(r.prefixOptions, query)
	if err != nil {
		return err
	}

	body, err := EncodeDocument(r.encodeBody(true))
	if err != nil {
		return err
	}

	resp, err := t.request(ctx, http.MethodPost, path, body)
	if err != nil {
		return err
	}

	if resp.Status == http.StatusCreated {
		id := idFromLocation(resp.Header("Location"))
		if id == "" {
			return &ProtocolError{Status: resp.Status, Reason: "created response missing Location id"}
		}

		r.SetID(id)
	}

	if err := r.refreshFrom(resp.Body); err != nil {
		return err
	}

	if r.ID() == "" {
		return &ProtocolError{Status: resp.Status, Reason: "create response did not yield an id"}
	}

	r.state = StatePersisted

	return nil
}

// refreshFrom merges a response body into the attributes. An empty body
// leaves the resource as it was; a non-empty body that fails to decode is
// a *DecodeError. A decodable non-mapping body (some servers answer a
// write with a bare value) is ignored.
func (r *Resource) refreshFrom(body []byte) error {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil
	}

	doc, err := DecodeDocument(body)
	if err != nil {
		return err
	}

	m, ok := removeRoot(doc).(*Mapping)
	if !ok {
		return nil
	}

	for _, key := range m.Keys() {
		val, _ := m.Get(key)
		r.SetAttr(key, buildAttr(r.typ, key, val))
	}

	return nil
}

func (t *Type) decodeElement(resp *Response, prefixOpts map[string]string) (*Resource, error) {
	doc, err := DecodeDocument(resp.Body)
	if err != nil {
		return nil, err
	}

	m, ok := removeRoot(doc).(*Mapping)
	if !ok {
		return nil, &ProtocolError{Status: resp.Status, Reason: "expected a single document"}
	}

	r := buildFromMapping(t, t.typeName, m, prefixOpts)
	r.state = StatePersisted

	return r, nil
}

// removeRoot unwraps the conventional single root element, so that both
// {"person": {...}} and a bare {...} decode the same way. Only a
// single-key mapping whose value is itself a mapping or sequence unwraps;
// {"id": 1} stays intact.
func removeRoot(doc Document) Document {
	m, ok := doc.(*Mapping)
	if !ok || m.Len() != 1 {
		return doc
	}

	v, _ := m.Get(m.keys[0])
	switch v.(type) {
	case *Mapping, Sequence:
		return v
	}

	return doc
}

// splitOptions separates options naming a prefix placeholder from the
// rest: placeholders fill the path template, everything else becomes
// query parameters.
func (t *Type) splitOptions(opts *Params) (map[string]string, *Params) {
	prefixOpts := make(map[string]string)
	query := NewParams()

	if opts == nil {
		return prefixOpts, query
	}

	names := prefixPlaceholders(t.prefix)

	for _, pair := range opts.pairs {
		if containsString(names, pair.key) {
			prefixOpts[pair.key] = pair.value
		} else {
			query.Add(pair.key, pair.value)
		}
	}

	return prefixOpts, query
}

func (t *Type) collectionPath(prefixOpts map[string]string, query *Params) (string, error) {
	prefix, err := expandPrefix(t.prefix, prefixOpts)
	if err != nil {
		return "", err
	}

	return buildPath(prefix, t.collection, "", t.site.extension, query), nil
}

func (t *Type) elementPath(id string, prefixOpts map[string]string, query *Params) (string, error) {
	prefix, err := expandPrefix(t.prefix, prefixOpts)
	if err != nil {
		return "", err
	}

	return buildPath(prefix, t.collection, id, t.site.extension, query), nil
}

// request performs one exchange through the site connection, merging the
// site's static headers, and maps non-2xx statuses to taxonomy errors.
func (t *Type) request(ctx context.Context, method, path string, body []byte) (*Response, error) {
	if t.site.conn == nil {
		return nil, ErrConnectionRequired
	}

	headers := make(map[string]string, len(t.site.headers)+2)
	for k, v := range t.site.headers {
		headers[k] = v
	}

	if _, ok := headers["Accept"]; !ok {
		headers["Accept"] = contentTypeJSON
	}

	if body != nil {
		headers["Content-Type"] = contentTypeJSON
	}

	t.logDebug("sending request", map[string]interface{}{
		"method": method,
		"path":   path,
		"type":   t.typeName,
	})

	resp, err := t.site.conn.Do(ctx, &Request{Method: method, Path: path, Body: body, Headers: headers})
	if err != nil {
		return nil, err
	}

	t.logDebug("received response", map[string]interface{}{
		"method": method,
		"path":   path,
		"status": resp.Status,
	})

	if resp.Status < 200 || resp.Status > 299 {
		return nil, statusError(resp.Status, path, resp.Body)
	}

	return resp, nil
}

func (t *Type) logDebug(msg string, fields map[string]interface{}) {
	if t.site.logger != nil {
		t.site.logger.Debug(msg, fields)
	}
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}

	return false
}
