// Package addbookcopy implements the Add Book Copy use case.
//
// A copy belongs to an edition and starts available. Reading room copies are part of the stock
// but are never lent out.
package addbookcopy
