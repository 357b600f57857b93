package catalog

import (
	"github.com/AntonStoeckl/lending-policy-engine/lending/shared/core"
)

// DomainInfo names one domain of a book.
type DomainInfo struct {
	DomainID core.DomainIDString
	Name     string
}

// BookInfo represents one book of the catalog. Copies counts the copies in circulation,
// Available those of them that are not lent out.
type BookInfo struct {
	BookID    core.BookIDString
	Title     string
	Authors   []string
	Domains   []DomainInfo
	Editions  int
	Copies    int
	Available int
}

// Books represents the query result containing the selected books, ordered by title.
type Books struct {
	Books          []BookInfo
	Count          int
	SequenceNumber uint
}

// GetSequenceNumber returns the sequence number of the last event in the event history that was used to build the projection.
func (r Books) GetSequenceNumber() uint {
	return r.SequenceNumber
}
