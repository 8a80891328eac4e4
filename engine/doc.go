// Package engine exposes plugin bindings to WebAssembly guests through
// wazero.
//
// A host application compiled to wasm imports the plugin ABI from a host
// module. Each function takes and returns i32 values only; structs travel
// through guest memory, and collections are written to a return pointer:
//
//	get_plugin_info(which) -> str
//	init_search(query_ptr, query_len, retptr)
//	get_context_menu(record_ptr, retptr)
//	free_c_string(str)
//	drop_search(len, ptr)
//	drop_search_result(record_ptr)
//	drop_context_menu_result(record_ptr)
//	drop_context_menu(len, ptr)
//
// record_ptr addresses a host-search-result (get_context_menu) or a copy
// of a c-search-result / c-context-menu-result (drop_*_result). retptr
// receives an 8-byte {len, ptr} header.
//
// The guest must export its memory and cabi_realloc(old_ptr, old_size,
// align, new_size) -> ptr. The plugin allocates every string and block it
// returns through cabi_realloc and frees with a new_size of 0. Query and
// host-search-result buffers passed in must come from cabi_realloc as
// well: the plugin consumes them and frees them after decoding.
//
// A fatal fault inside an entry point panics; wazero turns the panic into
// a trap that aborts the guest call.
package engine
