package memory

import (
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"

	pluginabi "github.com/wippyai/plugin-abi"
)

const (
	// granule is the unit every block size is rounded to.
	granule = 8

	// DefaultBase is the first offset the heap may hand out.
	DefaultBase = 1024
)

// HeapMemory is the memory a Heap manages.
type HeapMemory interface {
	pluginabi.Memory
	pluginabi.MemorySizer
}

// Stats is a snapshot of heap usage.
type Stats struct {
	Live      int    // outstanding allocations
	LiveBytes uint32 // rounded bytes held by outstanding allocations
	Allocs    uint64
	Frees     uint64
	Grows     uint64
	Top       uint32 // end of the bump region
}

type block struct {
	ptr  uint32
	size uint32
}

// Heap is the plugin's allocator. Blocks are carved from [base, top) and
// recycled through an address-ordered free list. When neither the free
// list nor the bump region can serve a request the memory is grown.
//
// Heap does not validate Free calls. Freeing a foreign pointer, freeing
// twice or passing a different size than was allocated corrupts the heap.
type Heap struct {
	mem   HeapMemory
	free  []block
	stats Stats
	base  uint32
	top   uint32
	mu    sync.Mutex
}

// NewHeap creates a heap over mem starting at base.
// A base of 0 selects DefaultBase.
func NewHeap(mem HeapMemory, base uint32) *Heap {
	if base == 0 {
		base = DefaultBase
	}
	base = alignTo(base, granule)
	h := &Heap{
		mem:  mem,
		base: base,
		top:  base,
	}
	h.stats.Top = base
	return h
}

// Alloc returns a block of at least size bytes aligned to align.
// Alignments above 8 are not supported.
func (h *Heap) Alloc(size, align uint32) (uint32, error) {
	if align > granule {
		return 0, fmt.Errorf("heap: unsupported alignment %d", align)
	}
	n := roundSize(size)
	if n == 0 {
		return 0, fmt.Errorf("heap: allocation of %d bytes overflows", size)
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	ptr, ok := h.takeFree(n)
	if !ok {
		var err error
		ptr, err = h.bump(n)
		if err != nil {
			return 0, err
		}
	}

	h.stats.Allocs++
	h.stats.Live++
	h.stats.LiveBytes += n
	return ptr, nil
}

// Free returns a block to the heap. ptr 0 is ignored.
func (h *Heap) Free(ptr, size, align uint32) {
	if ptr == 0 {
		return
	}
	n := roundSize(size)

	h.mu.Lock()
	defer h.mu.Unlock()

	h.insertFree(block{ptr: ptr, size: n})
	h.stats.Frees++
	h.stats.Live--
	h.stats.LiveBytes -= n
}

// Stats returns a snapshot of heap usage.
func (h *Heap) Stats() Stats {
	h.mu.Lock()
	defer h.mu.Unlock()
	s := h.stats
	s.Top = h.top
	return s
}

// Base returns the lowest offset the heap allocates from.
func (h *Heap) Base() uint32 {
	return h.base
}

// takeFree serves n bytes from the first free block that fits.
func (h *Heap) takeFree(n uint32) (uint32, bool) {
	for i := range h.free {
		b := &h.free[i]
		if b.size < n {
			continue
		}
		ptr := b.ptr
		if b.size == n {
			h.free = append(h.free[:i], h.free[i+1:]...)
		} else {
			b.ptr += n
			b.size -= n
		}
		return ptr, true
	}
	return 0, false
}

func (h *Heap) bump(n uint32) (uint32, error) {
	end := uint64(h.top) + uint64(n)
	if end > 1<<32-1 {
		return 0, fmt.Errorf("heap: address space exhausted")
	}
	if size := uint64(h.mem.Size()); end > size {
		if err := h.grow(end - size); err != nil {
			return 0, err
		}
	}
	ptr := h.top
	h.top = uint32(end)
	return ptr, nil
}

func (h *Heap) grow(need uint64) error {
	g, ok := h.mem.(pluginabi.MemoryGrower)
	if !ok {
		return fmt.Errorf("heap: memory exhausted and cannot grow")
	}
	pages := uint32((need + pluginabi.PageSize - 1) / pluginabi.PageSize)
	prev, ok := g.Grow(pages)
	if !ok {
		return fmt.Errorf("heap: failed to grow memory by %d pages from %d", pages, prev)
	}
	h.stats.Grows++
	Logger().Debug("heap grown",
		zap.Uint32("previous_pages", prev),
		zap.Uint32("delta_pages", pages))
	return nil
}

// insertFree adds b to the address-ordered free list, merging neighbours.
// A block adjacent to top is returned to the bump region instead.
func (h *Heap) insertFree(b block) {
	i := sort.Search(len(h.free), func(i int) bool { return h.free[i].ptr > b.ptr })

	if i > 0 && h.free[i-1].ptr+h.free[i-1].size == b.ptr {
		i--
		h.free[i].size += b.size
	} else {
		h.free = append(h.free, block{})
		copy(h.free[i+1:], h.free[i:])
		h.free[i] = b
	}

	if i+1 < len(h.free) && h.free[i].ptr+h.free[i].size == h.free[i+1].ptr {
		h.free[i].size += h.free[i+1].size
		h.free = append(h.free[:i+1], h.free[i+2:]...)
	}

	if last := h.free[len(h.free)-1]; last.ptr+last.size == h.top {
		h.top = last.ptr
		h.free = h.free[:len(h.free)-1]
	}
}

func roundSize(size uint32) uint32 {
	if size == 0 {
		size = 1
	}
	return alignTo(size, granule)
}

func alignTo(v, align uint32) uint32 {
	return (v + align - 1) &^ (align - 1)
}

var _ pluginabi.Allocator = (*Heap)(nil)
