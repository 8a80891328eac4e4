// Package collection transfers ordered sequences of boundary records as a
// single contiguous block.
//
// A Collection is a {len, ptr} pair. ptr addresses exactly len records laid
// out back to back at the record's layout size. Pack converts elements in
// the order given, so index i of the block is element i of the input.
//
// An empty sequence packs to {0, EmptyBase}. EmptyBase is non-null and
// aligned but never allocated, so it is safe to hand to Release.
//
// Release frees the block and nothing else. The strings referenced by the
// records stay alive: the caller copies what it needs and then releases
// each record with the per-record release for its kind.
package collection
