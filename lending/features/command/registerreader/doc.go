// Package registerreader implements the Register Reader use case.
//
// Readers and staff members are registered the same way, the reader kind tells them apart.
// Staff members can process loans as librarians.
package registerreader
