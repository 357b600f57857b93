// Package catalog implements the Catalog query use case.
//
// The query lists the registered books with their authors, domains, number of editions and
// copies in circulation. It can be narrowed to one book or to the books of a domain and its
// subdomains. It queries with eventual consistency.
package catalog
