// Package core is the functional core of the library lending domain.
//
// It contains the domain events (BookCopyLentToReader, LoanExtended, ...), the LibraryState projection
// which serves as catalog, loan store and domain hierarchy for one operation, the lending policy rules,
// the typed LendingError and the injectable Clock.
//
// Nothing in here performs I/O: the shell queries the events of a consistency boundary, projects them
// into a LibraryState, calls the pure rule functions and appends the events they produce.
//
// In Domain-Driven Design or Hexagonal Architecture terminology, this would be
// called the 'domain' layer.
package core
