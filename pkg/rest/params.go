package rest

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Params is an ordered set of request parameters. Encoding preserves
// insertion order, so a path built from the same params is byte-stable.
type Params struct {
	pairs []paramPair
}

type paramPair struct {
	key   string
	value string
}

// NewParams returns an empty parameter set.
func NewParams() *Params { return &Params{} }

// Set stores value under key, replacing an existing value in place.
// Booleans encode as lowercase "true"/"false"; other values use their
// natural string form.
func (p *Params) Set(key string, value interface{}) *Params {
	encoded := coerceParam(value)

	for i := range p.pairs {
		if p.pairs[i].key == key {
			p.pairs[i].value = encoded

			return p
		}
	}

	p.pairs = append(p.pairs, paramPair{key: key, value: encoded})

	return p
}

// Add appends a key/value pair, allowing repeated keys.
func (p *Params) Add(key string, value interface{}) *Params {
	p.pairs = append(p.pairs, paramPair{key: key, value: coerceParam(value)})

	return p
}

// Get returns the first value stored under key.
func (p *Params) Get(key string) (string, bool) {
	for _, pair := range p.pairs {
		if pair.key == key {
			return pair.value, true
		}
	}

	return "", false
}

// Len returns the number of stored pairs.
func (p *Params) Len() int {
	if p == nil {
		return 0
	}

	return len(p.pairs)
}

// Encode renders the parameters as a query string in insertion order.
func (p *Params) Encode() string {
	if p == nil {
		return ""
	}

	var b strings.Builder

	for i, pair := range p.pairs {
		if i > 0 {
			b.WriteByte('&')
		}

		b.WriteString(url.QueryEscape(pair.key))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(pair.value))
	}

	return b.String()
}

func coerceParam(value interface{}) string {
	switch v := value.(type) {
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprintf("%v", v)
	}
}
