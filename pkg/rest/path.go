package rest

import (
	"net/url"
	"strings"
)

// prefixPlaceholders returns the ":name" placeholder names in a prefix
// template, in order of appearance.
func prefixPlaceholders(template string) []string {
	var names []string

	for _, seg := range strings.Split(template, "/") {
		if strings.HasPrefix(seg, ":") && len(seg) > 1 {
			names = append(names, seg[1:])
		}
	}

	return names
}

// expandPrefix renders a prefix template by substituting each placeholder
// with its value from options. A placeholder with no value fails with
// MissingPrefixParamError.
func expandPrefix(template string, options map[string]string) (string, error) {
	if template == "" || template == "/" {
		return "", nil
	}

	segs := strings.Split(strings.Trim(template, "/"), "/")
	for i, seg := range segs {
		if !strings.HasPrefix(seg, ":") || len(seg) == 1 {
			continue
		}

		name := seg[1:]

		val, ok := options[name]
		if !ok || val == "" {
			return "", &MissingPrefixParamError{Param: name, Template: template}
		}

		segs[i] = url.PathEscape(val)
	}

	return "/" + strings.Join(segs, "/"), nil
}

// buildPath assembles a request path from its parts: expanded prefix,
// collection name, optional element id, optional format extension, and
// optional query parameters.
func buildPath(prefix, collection, id, ext string, query *Params) string {
	var b strings.Builder

	b.WriteString(prefix)
	b.WriteByte('/')
	b.WriteString(collection)

	if id != "" {
		b.WriteByte('/')
		b.WriteString(url.PathEscape(id))
	}

	if ext != "" {
		b.WriteByte('.')
		b.WriteString(ext)
	}

	if query.Len() > 0 {
		b.WriteByte('?')
		b.WriteString(query.Encode())
	}

	return b.String()
}

// idFromLocation extracts the element id from a Location header: the
// trailing path segment, with any format extension stripped.
// "/people/2.json" yields "2".
func idFromLocation(location string) string {
	if location == "" {
		return ""
	}

	path := location
	if u, err := url.Parse(location); err == nil {
		path = u.Path
	}

	path = strings.TrimSuffix(path, "/")

	seg := path
	if idx := strings.LastIndex(path, "/"); idx >= 0 {
		seg = path[idx+1:]
	}

	if dot := strings.LastIndex(seg, "."); dot > 0 {
		seg = seg[:dot]
	}

	if unescaped, err := url.PathUnescape(seg); err == nil {
		seg = unescaped
	}

	return seg
}
