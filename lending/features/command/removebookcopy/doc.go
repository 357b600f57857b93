// Package removebookcopy implements the Remove Book Copy use case.
//
// A retired copy stays in the history but is no longer found by the lending rules
// and no longer counts for the stock floor. A copy that is lent out cannot be retired.
package removebookcopy
