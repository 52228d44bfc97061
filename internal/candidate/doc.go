// Package candidate defines the playlist entry record that flows through the
// validation pipeline and the Store that deduplicates entries by endpoint.
//
// An Entry is created once during ingestion. The validator records the
// availability outcome and then the latency outcome; after that the entry is
// treated as immutable input to ranking. Entries are never removed from a
// Store, only filtered out of downstream views.
package candidate
