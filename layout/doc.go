// Package layout describes the flat boundary structs as WIT records and
// computes their canonical ABI size, alignment and field offsets.
//
// Each struct the host and plugin exchange has a WIT description here. The
// descriptions are the single source of truth for offsets: the record and
// collection packages read and write fields at the offsets computed from
// them, and tests pin the resulting sizes so a layout change is caught.
//
//	Struct               Size  Align  Fields
//	────────────────────────────────────────────────────────────
//	c-search-result      24    4      6 × u32 string handle
//	host-search-result   48    4      6 × (s32 length, u32 ptr)
//	c-context-menu       24    4      4 × u32 handle, 2 × s32
//	collection           8     4      u32 len, u32 ptr
package layout
