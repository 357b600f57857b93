// Package borrowbookcopies implements the bulk borrow use cases.
//
// A bulk borrow first checks the request as a whole: it must not be empty, must not exceed the
// per loan cap of the reader and, from three copies on, must span at least two domains.
//
// CommandHandler then lends the copies one after the other through the single borrow use case.
// It is not atomic: when an item is rejected, the loans of the items before it stay committed and
// the error is a *PartialBorrowError which lists them.
//
// AtomicCommandHandler evaluates all items on one boundary, each item seeing the loans of the
// items before it, and appends all loans with one conditional append or none of them.
package borrowbookcopies
