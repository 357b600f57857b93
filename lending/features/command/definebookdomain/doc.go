// Package definebookdomain implements the Define Book Domain use case.
//
// Domains form a forest: a domain without parent is a root, every other domain hangs below an
// existing parent. The parent of a domain never changes.
package definebookdomain
