// Package borrowbookcopy implements the Borrow Book Copy use case.
//
// A reader borrows one copy, optionally processed by a librarian. The handler first resolves
// the book of the copy, then loads the consistency boundary of the borrow: the whole domain forest,
// every registered book, the catalog of the borrowed book, the reader and the librarian, and the
// loans of the reader, the book and the librarian. Decide runs the lending rules on that boundary,
// the new loan is appended only if nothing inside the boundary changed in the meantime.
//
// Concurrency conflicts are retried, every retry re-reads the boundary and re-evaluates the rules.
package borrowbookcopy
