// Package value defines the decoded value tree.
//
// Values are created fresh for every decode and owned by the caller. Records
// keep fields in declaration order, options keep an explicit None marker so a
// tree can be re-encoded byte for byte, and 128-bit integers are stored as two
// 64-bit halves.
package value
