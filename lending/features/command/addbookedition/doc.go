// Package addbookedition implements the Add Book Edition use case.
package addbookedition
