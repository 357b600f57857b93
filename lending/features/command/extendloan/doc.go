// Package extendloan implements the Extend Loan use case.
//
// The extension cap depends on the kind of the reader, so the handler first looks up the reader
// of the loan and then loads the lending history of the loan together with the registration of
// that reader.
package extendloan
