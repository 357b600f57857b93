package core

import (
	"errors"
	"fmt"
)

// ErrorKind is the closed set of failure kinds surfaced by the lending operations.
type ErrorKind string

const (
	KindBadArgument            ErrorKind = "BAD_ARGUMENT"
	KindNotFound               ErrorKind = "NOT_FOUND"
	KindDataIncomplete         ErrorKind = "DATA_INCOMPLETE"
	KindCopyUnavailable        ErrorKind = "COPY_UNAVAILABLE"
	KindReadingRoomOnly        ErrorKind = "READING_ROOM_ONLY"
	KindStockTooLow            ErrorKind = "STOCK_TOO_LOW"
	KindAllReadingRoom         ErrorKind = "ALL_READING_ROOM"
	KindReaderLimit            ErrorKind = "READER_LIMIT"
	KindDailyLimit             ErrorKind = "DAILY_LIMIT"
	KindDomainLimit            ErrorKind = "DOMAIN_LIMIT"
	KindReborrowTooSoon        ErrorKind = "REBORROW_TOO_SOON"
	KindLibrarianLimit         ErrorKind = "LIBRARIAN_LIMIT"
	KindNotALibrarian          ErrorKind = "NOT_A_LIBRARIAN"
	KindEmptyRequest           ErrorKind = "EMPTY_REQUEST"
	KindLoanSize               ErrorKind = "LOAN_SIZE"
	KindInsufficientCategories ErrorKind = "INSUFFICIENT_CATEGORIES"
	KindAlreadyReturned        ErrorKind = "ALREADY_RETURNED"
	KindExtensionLimit         ErrorKind = "EXTENSION_LIMIT"
	KindContention             ErrorKind = "CONTENTION"
	KindStoreFailure           ErrorKind = "STORE_FAILURE"
)

// Sentinels for errors.Is, each matches every LendingError of its kind.
var (
	ErrBadArgument            = &LendingError{Kind: KindBadArgument}
	ErrNotFound               = &LendingError{Kind: KindNotFound}
	ErrDataIncomplete         = &LendingError{Kind: KindDataIncomplete}
	ErrCopyUnavailable        = &LendingError{Kind: KindCopyUnavailable}
	ErrReadingRoomOnly        = &LendingError{Kind: KindReadingRoomOnly}
	ErrStockTooLow            = &LendingError{Kind: KindStockTooLow}
	ErrAllReadingRoom         = &LendingError{Kind: KindAllReadingRoom}
	ErrReaderLimit            = &LendingError{Kind: KindReaderLimit}
	ErrDailyLimit             = &LendingError{Kind: KindDailyLimit}
	ErrDomainLimit            = &LendingError{Kind: KindDomainLimit}
	ErrReborrowTooSoon        = &LendingError{Kind: KindReborrowTooSoon}
	ErrLibrarianLimit         = &LendingError{Kind: KindLibrarianLimit}
	ErrNotALibrarian          = &LendingError{Kind: KindNotALibrarian}
	ErrEmptyRequest           = &LendingError{Kind: KindEmptyRequest}
	ErrLoanSize               = &LendingError{Kind: KindLoanSize}
	ErrInsufficientCategories = &LendingError{Kind: KindInsufficientCategories}
	ErrAlreadyReturned        = &LendingError{Kind: KindAlreadyReturned}
	ErrExtensionLimit         = &LendingError{Kind: KindExtensionLimit}
	ErrContention             = &LendingError{Kind: KindContention}
	ErrStoreFailure           = &LendingError{Kind: KindStoreFailure}
)

// LendingError is the typed error of all lending operations.
type LendingError struct {
	Kind ErrorKind
	Msg  string
}

// NewError creates a LendingError of the given kind with a formatted message.
func NewError(kind ErrorKind, format string, args ...any) *LendingError {
	return &LendingError{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

func (e *LendingError) Error() string {
	if e.Msg == "" {
		return string(e.Kind)
	}

	return string(e.Kind) + ": " + e.Msg
}

// Is matches any LendingError of the same kind, so that the sentinels work with errors.Is.
func (e *LendingError) Is(target error) bool {
	var other *LendingError
	if !errors.As(target, &other) {
		return false
	}

	return other.Kind == e.Kind
}

// KindOf returns the kind of the first LendingError in err's tree, or "" if there is none.
func KindOf(err error) ErrorKind {
	var lendingErr *LendingError
	if errors.As(err, &lendingErr) {
		return lendingErr.Kind
	}

	return ""
}

// IsRetryable reports whether the caller may retry the operation after re-reading state.
// Only CONTENTION is retryable, every rule violation is final.
func IsRetryable(err error) bool {
	return KindOf(err) == KindContention
}

// IsPolicyViolation reports whether err is a rejection by one of the lending rules
// as opposed to a caller input error or an infrastructure failure.
func IsPolicyViolation(err error) bool {
	switch KindOf(err) {
	case KindCopyUnavailable, KindReadingRoomOnly, KindStockTooLow, KindAllReadingRoom, KindReaderLimit,
		KindDailyLimit, KindDomainLimit, KindReborrowTooSoon, KindLibrarianLimit, KindNotALibrarian,
		KindLoanSize, KindInsufficientCategories, KindAlreadyReturned, KindExtensionLimit:
		return true
	default:
		return false
	}
}
