// Package loansbyreader implements the Loans By Reader query use case.
//
// The query returns the open and closed loans of one reader with their due dates and whether
// they are overdue at the time of the query. It is a read-only operation that queries with
// eventual consistency.
package loansbyreader
