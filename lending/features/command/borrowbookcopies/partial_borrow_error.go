package borrowbookcopies

import (
	"fmt"

	"github.com/AntonStoeckl/lending-policy-engine/lending/shared/core"
)

// PartialBorrowError is returned by CommandHandler when an item of a bulk borrow was rejected.
// Committed lists the loans of the items before it, they stay committed.
// It unwraps to the error of the failing item, so core.KindOf and errors.Is see its LendingError.
type PartialBorrowError struct {
	Committed    []core.LoanIDString
	FailedCopyID core.CopyIDString
	Err          error
}

func (e *PartialBorrowError) Error() string {
	return fmt.Sprintf("borrowing copy %s failed after %d committed loans: %v", e.FailedCopyID, len(e.Committed), e.Err)
}

func (e *PartialBorrowError) Unwrap() error {
	return e.Err
}
