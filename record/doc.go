// Package record defines the structured values a plugin produces and their
// flat boundary twins.
//
// Native records hold Go strings. Boundary twins hold string handles, laid
// out at the offsets the layout package computes:
//
//	SearchResult       ──Encode──▶ CSearchResult       (plugin → host)
//	HostSearchResult   ──Decode──▶ SearchResult        (host → plugin)
//	ContextMenuResult  ──Encode──▶ CContextMenuResult  (plugin → host)
//
// Encode allocates one buffer per string field. A fault part way through is
// fatal and is not rolled back. Decode consumes every host buffer in the
// record. Release frees the strings of a twin produced by Encode.
package record
