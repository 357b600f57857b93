package catalog

import (
	"github.com/google/uuid"
)

const (
	queryType = "Catalog"
)

// Query represents the intent to list books.
// A nil BookID selects all books and a nil DomainID selects all domains.
type Query struct {
	BookID   uuid.UUID
	DomainID uuid.UUID
}

// BuildQuery creates a Query for all books of a domain and its subdomains, pass uuid.Nil for all books.
func BuildQuery(domainID uuid.UUID) Query {
	return Query{
		DomainID: domainID,
	}
}

// BuildQueryForBook creates a Query for exactly one book.
func BuildQueryForBook(bookID uuid.UUID) Query {
	return Query{
		BookID: bookID,
	}
}

// QueryType returns the query type.
func (q Query) QueryType() string {
	return queryType
}
