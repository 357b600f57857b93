// Package bookstock implements the Book Stock query use case.
//
// The query counts the copies of a book by their lending status and reports whether the
// stock floor currently allows lending the book. It queries with eventual consistency.
package bookstock
