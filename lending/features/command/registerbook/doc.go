// Package registerbook implements the Register Book use case.
//
// A book is the logical work, classified into one or more domains. The domains of one book must
// not be related: a book cannot be in a domain and in one of its ancestors at the same time.
package registerbook
