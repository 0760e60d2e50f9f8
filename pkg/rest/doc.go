// Package rest maps remote REST collections onto in-memory resources.
//
// A Site holds the per-service configuration (base URL, credentials,
// headers, format extension, transport); a Type declared on it binds a
// named resource to a collection endpoint. Class-level operations (Find,
// FindAll, Create, Delete, Exists) and instance-level operations (Save,
// Delete, Reload) each translate into exactly one HTTP exchange.
//
//	site, err := rest.NewSite("https://api.example.com",
//		rest.WithConnection(conn))
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	people := site.Type("person")
//
//	person, err := people.Find(ctx, "1", nil)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	name, _ := person.GetString("name")
//
// Paths follow the Rails resource convention: "/people.json" for the
// collection, "/people/1.json" for an element. A prefix template such as
// "/stores/:store_id" nests the collection under a parent; the
// placeholder values travel in the options and are reused by instance
// operations.
//
// Failures are typed: *TransportError (no response), *DecodeError
// (unparsable body), *NotFoundError (404), *ClientError (other 4xx and
// redirects), *ServerError (5xx), and *ProtocolError (a success status
// missing its companion data). IsNotFound, IsClientError, and
// IsServerError classify wrapped errors.
package rest
