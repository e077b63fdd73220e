// Package dag provides a small directed graph with cycle detection.
//
// The schema registry uses it to model which composite types embed which
// other types: a type that can reach itself through its own fields has no
// finite encoding and is rejected before any bytes are decoded.
package dag
