// Package pluginabi implements the boundary protocol between a search
// launcher host and Go search plugins.
//
// A plugin supplies two callbacks, search(query) and context_menu(result),
// plus three identity strings. The host speaks UTF-16 and a flat, pointer
// based calling convention. This module converts between the two and makes
// every value that crosses the boundary have exactly one owner and exactly
// one release path.
//
// # Architecture Overview
//
//	pluginabi/          Root package with Memory and Allocator interfaces
//	├── memory/         Linear memories (Go heap, wazero) and the plugin heap
//	├── layout/         WIT record descriptions of the boundary structs
//	├── codec/          UTF-16 ↔ UTF-8 string codec, NUL-terminated buffers
//	├── record/         Search and context-menu records and their flat twins
//	├── collection/     Contiguous {len, ptr} blocks of flat records
//	├── binding/        The entry points the host calls, per plugin
//	├── engine/         wazero host module exporting the entry points
//	├── host/           Host-side harness mirroring the codec
//	├── config/         TOML configuration
//	├── errors/         Structured fault types
//	├── plugins/        Example plugins
//	└── cmd/run/        Command-line and interactive runner
//
// # Memory Model
//
// The boundary is a linear memory addressed by 32-bit offsets, as in
// wasm32. A handle is an offset; 0 is null. All integers are little-endian
// and all boundary structs are 4-byte aligned with no padding.
//
// # Ownership
//
// Strings returned to the host are NUL-terminated UTF-8 buffers allocated
// with the plugin's allocator and released with free_c_string. Collections
// are {len: u32, ptr: u32} pairs describing one contiguous block of records.
// Releasing a collection frees the block only; the caller releases each
// record's strings with the per-record release entry point.
//
// Host strings are (ptr, len) pairs of UTF-16 code units. Passing one to the
// plugin transfers ownership: the plugin frees the buffer after decoding it.
//
// # Failure Policy
//
// Malformed host input and allocation exhaustion are fatal. The entry
// points panic with an *errors.Error and never return a recoverable error.
// Releasing a handle twice or releasing a foreign handle is undefined
// behaviour and is not detected.
package pluginabi
