// Package ingestion loads course catalogs from disk into storage.
//
// A catalog is a JSON array of sections or a CSV file with one row per
// meeting. The Importer decodes it, drops sections from excluded or
// undisplayed terms, validates what remains and replaces the stored catalog
// in batches. A fingerprint of the accepted sections is checkpointed so that
// re-importing an unchanged file is a no-op.
package ingestion
