// Package returnbookcopy implements the Return Book Copy use case.
//
// The consistency boundary is the lending history of one loan. Returning makes the copy available
// again, a copy that was retired in the meantime does not fail the return.
package returnbookcopy
