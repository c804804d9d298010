// Package release holds the candidate album and track records that sources
// produce and the reconciliation engine consumes, along with the artist
// credit type and the name folding helpers used to compare them.
package release
