package registeredreaders

import (
	"github.com/google/uuid"

	"github.com/AntonStoeckl/lending-policy-engine/lending/shared/core"
)

const (
	queryType = "RegisteredReaders"
)

// Query represents the intent to list registered readers.
// A nil ReaderID selects all readers and an empty Kind selects both kinds.
type Query struct {
	ReaderID uuid.UUID
	Kind     core.ReaderKind
}

// BuildQuery creates a Query for all readers of the given kind, pass "" for all kinds.
func BuildQuery(kind core.ReaderKind) Query {
	return Query{
		Kind: kind,
	}
}

// BuildQueryForReader creates a Query for exactly one reader.
func BuildQueryForReader(readerID uuid.UUID) Query {
	return Query{
		ReaderID: readerID,
	}
}

// QueryType returns the query type.
func (q Query) QueryType() string {
	return queryType
}
