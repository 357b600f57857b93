// Package registeredreaders implements the Registered Readers query use case.
//
// The query lists the registered readers and staff members, optionally narrowed to one reader or
// one reader kind. It is a read-only operation that queries with eventual consistency.
package registeredreaders
