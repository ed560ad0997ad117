// Package index holds the building blocks of the course index: a trigram
// index for coarse text recall, a bitmap index for filter algebra and a prefix
// index for one- and two-character queries.
//
// All three address sections by their ordinal position in the snapshot they
// were built from and are read-only once built.
package index
