package rest

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/iancoleman/strcase"
	"github.com/jinzhu/inflection"
)

// Site holds the per-service configuration shared by every resource type
// declared against it: base URL, credentials, static headers, format
// extension, and the connection that performs the exchanges.
type Site struct {
	baseURL   string
	prefix    string
	username  string
	password  string
	headers   map[string]string
	extension string
	conn      Connection
	logger    Logger
}

// SiteOption configures a Site.
type SiteOption func(*Site)

// WithHeaders sets static headers sent with every request.
func WithHeaders(headers map[string]string) SiteOption {
	return func(s *Site) {
		for k, v := range headers {
			s.headers[k] = v
		}
	}
}

// WithBasicAuth sets the credentials, overriding any embedded in the
// site URL.
func WithBasicAuth(username, password string) SiteOption {
	return func(s *Site) {
		s.username = username
		s.password = password
	}
}

// WithExtension sets the format extension appended to generated paths.
// The default is "json"; an empty string disables the suffix.
func WithExtension(ext string) SiteOption {
	return func(s *Site) {
		s.extension = strings.TrimPrefix(ext, ".")
	}
}

// WithConnection sets the transport used for every exchange.
func WithConnection(conn Connection) SiteOption {
	return func(s *Site) {
		s.conn = conn
	}
}

// WithLogger sets the logger for request-level debug output.
func WithLogger(logger Logger) SiteOption {
	return func(s *Site) {
		s.logger = logger
	}
}

// NewSite parses a site URL and applies options. Credentials embedded in
// the URL become the site credentials, and the URL path becomes the default
// prefix template for types declared on this site.
func NewSite(rawURL string, opts ...SiteOption) (*Site, error) {
	if rawURL == "" {
		return nil, ErrSiteRequired
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parsing site URL: %w", err)
	}

	site := &Site{
		headers:   make(map[string]string),
		extension: "json",
	}

	if u.User != nil {
		site.username = u.User.Username()
		site.password, _ = u.User.Password()
		u.User = nil
	}

	site.prefix = strings.TrimSuffix(u.Path, "/")
	u.Path = ""
	u.RawQuery = ""
	u.Fragment = ""
	site.baseURL = u.String()

	for _, opt := range opts {
		opt(site)
	}

	return site, nil
}

// BaseURL returns the scheme and host portion of the site URL.
func (s *Site) BaseURL() string { return s.baseURL }

// Prefix returns the prefix template derived from the site URL path.
func (s *Site) Prefix() string { return s.prefix }

// Username returns the configured username.
func (s *Site) Username() string { return s.username }

// Password returns the configured password.
func (s *Site) Password() string { return s.password }

// Type is the class-level handle for one resource collection. All CRUD
// operations hang off the Type; the resources it yields carry a reference
// back to it for instance-level operations.
type Type struct {
	site       *Site
	typeName   string
	element    string
	collection string
	primaryKey string
	prefix     string
	nested     map[string]*Type
}

// TypeOption configures a Type.
type TypeOption func(*Type)

// WithCollectionName overrides the derived collection name.
func WithCollectionName(name string) TypeOption {
	return func(t *Type) {
		t.collection = name
	}
}

// WithElementName overrides the derived element name.
func WithElementName(name string) TypeOption {
	return func(t *Type) {
		t.element = name
	}
}

// WithPrimaryKey overrides the primary key attribute name. The default
// is "id".
func WithPrimaryKey(name string) TypeOption {
	return func(t *Type) {
		t.primaryKey = name
	}
}

// WithPrefix sets the prefix template for this type, replacing the one
// derived from the site URL. Placeholders use ":name" segments, for
// example "/stores/:store_id".
func WithPrefix(template string) TypeOption {
	return func(t *Type) {
		t.prefix = strings.TrimSuffix(template, "/")
	}
}

// WithNested registers the type used for a nested attribute, so that
// decoded sub-documents under that key become resources of the given type
// instead of generic ones.
func WithNested(attr string, nested *Type) TypeOption {
	return func(t *Type) {
		t.nested[attr] = nested
	}
}

// Type declares a resource type bound to this site. The name may be given
// in any casing; the element name is its underscored singular form and the
// collection name its plural.
func (s *Site) Type(name string, opts ...TypeOption) *Type {
	t := &Type{
		site:       s,
		typeName:   strcase.ToCamel(name),
		element:    strcase.ToSnake(name),
		primaryKey: "id",
		prefix:     s.prefix,
		nested:     make(map[string]*Type),
	}
	t.collection = inflection.Plural(t.element)

	for _, opt := range opts {
		opt(t)
	}

	return t
}

// Name returns the camel-cased type name.
func (t *Type) Name() string { return t.typeName }

// ElementName returns the singular underscored name.
func (t *Type) ElementName() string { return t.element }

// CollectionName returns the plural collection name used in paths.
func (t *Type) CollectionName() string { return t.collection }

// PrimaryKey returns the primary key attribute name.
func (t *Type) PrimaryKey() string { return t.primaryKey }
