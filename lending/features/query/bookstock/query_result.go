package bookstock

import (
	"github.com/AntonStoeckl/lending-policy-engine/lending/shared/core"
)

// BookStock represents the query result with the copy counts of one book.
// Retired copies are only counted in Retired, all other counts refer to copies in circulation.
type BookStock struct {
	BookID               core.BookIDString
	Title                string
	Total                int
	CirculatingAvailable int
	ReadingRoomOnly      int
	Lent                 int
	Retired              int
	StockVerdict         core.ErrorKind // empty while the stock floor allows lending
	SequenceNumber       uint
}

// Lendable reports whether the stock floor allows lending a copy of the book.
func (r BookStock) Lendable() bool {
	return r.StockVerdict == ""
}

// GetSequenceNumber returns the highest event sequence number included in the projection.
func (r BookStock) GetSequenceNumber() uint {
	return r.SequenceNumber
}
