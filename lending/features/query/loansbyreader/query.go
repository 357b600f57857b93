package loansbyreader

import (
	"github.com/google/uuid"
)

const (
	queryType = "LoansByReader"
)

// Query represents the intent to list the loans of a reader.
type Query struct {
	ReaderID uuid.UUID
}

// BuildQuery creates a new Query with the provided reader ID.
func BuildQuery(readerID uuid.UUID) Query {
	return Query{
		ReaderID: readerID,
	}
}

// QueryType returns the query type.
func (q Query) QueryType() string {
	return queryType
}
