// Package memory provides the linear memories the boundary runs on and the
// plugin heap that allocates inside them.
//
// Two memories are available:
//
//   - Linear: a Go byte slice, used when host and plugin live in one process
//   - Wrap:   an adapter over a wazero api.Memory of a running wasm instance
//
// Heap implements pluginabi.Allocator over either of them. It is a first-fit
// free list with coalescing that grows the underlying memory in pages when
// it runs out of room. Heap.Stats reports live allocations so tests can
// verify that every allocating call has a matching release.
//
// Realloc implements pluginabi.Allocator for a wasm guest by calling the
// guest's own cabi_realloc export, so plugin allocations live in the
// guest's heap rather than beside it.
//
// # Reserved Region
//
// Offsets below the heap base are never handed out. Offset 0 is the null
// handle and low offsets are used as non-null sentinels for empty blocks.
package memory
