package memory

import (
	"testing"

	pluginabi "github.com/wippyai/plugin-abi"
)

func newTestHeap(t *testing.T, pages, maxPages uint32) (*Linear, *Heap) {
	t.Helper()
	mem := NewLinear(pages, maxPages)
	return mem, NewHeap(mem, 0)
}

func mustAlloc(t *testing.T, h *Heap, size, align uint32) uint32 {
	t.Helper()
	ptr, err := h.Alloc(size, align)
	if err != nil {
		t.Fatalf("Alloc(%d, %d) failed: %v", size, align, err)
	}
	return ptr
}

func TestHeapAllocAlignment(t *testing.T) {
	_, h := newTestHeap(t, 1, 0)

	for _, size := range []uint32{0, 1, 3, 8, 9, 100} {
		ptr := mustAlloc(t, h, size, 4)
		if ptr == 0 {
			t.Fatalf("Alloc(%d) returned null", size)
		}
		if ptr < DefaultBase {
			t.Errorf("Alloc(%d) = %d, below heap base", size, ptr)
		}
		if ptr%granule != 0 {
			t.Errorf("Alloc(%d) = %d, not %d-aligned", size, ptr, granule)
		}
	}
}

func TestHeapDistinctBlocks(t *testing.T) {
	_, h := newTestHeap(t, 1, 0)

	a := mustAlloc(t, h, 16, 4)
	b := mustAlloc(t, h, 16, 4)
	if a == b {
		t.Fatal("two live allocations share a pointer")
	}
	if b < a+16 && a < b+16 {
		t.Errorf("blocks overlap: %d and %d", a, b)
	}
}

func TestHeapReuse(t *testing.T) {
	_, h := newTestHeap(t, 1, 0)

	a := mustAlloc(t, h, 24, 4)
	_ = mustAlloc(t, h, 8, 4)
	h.Free(a, 24, 4)

	c := mustAlloc(t, h, 16, 4)
	if c != a {
		t.Errorf("first-fit reuse: got %d, want %d", c, a)
	}
}

func TestHeapCoalesceReturnsTop(t *testing.T) {
	_, h := newTestHeap(t, 1, 0)

	a := mustAlloc(t, h, 8, 1)
	b := mustAlloc(t, h, 8, 1)
	c := mustAlloc(t, h, 8, 1)

	h.Free(b, 8, 1)
	h.Free(a, 8, 1)
	h.Free(c, 8, 1)

	s := h.Stats()
	if s.Top != h.Base() {
		t.Errorf("Top = %d, want base %d after freeing everything", s.Top, h.Base())
	}
	if len(h.free) != 0 {
		t.Errorf("free list has %d blocks, want 0", len(h.free))
	}
}

func TestHeapStats(t *testing.T) {
	_, h := newTestHeap(t, 1, 0)

	a := mustAlloc(t, h, 5, 1)
	b := mustAlloc(t, h, 12, 4)

	s := h.Stats()
	if s.Live != 2 || s.LiveBytes != 8+16 || s.Allocs != 2 {
		t.Errorf("after alloc: %+v", s)
	}

	h.Free(a, 5, 1)
	h.Free(b, 12, 4)
	h.Free(0, 0, 0)

	s = h.Stats()
	if s.Live != 0 || s.LiveBytes != 0 || s.Frees != 2 {
		t.Errorf("after free: %+v", s)
	}
}

func TestHeapGrow(t *testing.T) {
	mem, h := newTestHeap(t, 1, 4)

	ptr := mustAlloc(t, h, pluginabi.PageSize, 1)
	if mem.Size() != 2*pluginabi.PageSize {
		t.Errorf("Size = %d, want 2 pages", mem.Size())
	}
	if err := mem.WriteU8(ptr+pluginabi.PageSize-1, 0xAB); err != nil {
		t.Errorf("last byte of grown block not writable: %v", err)
	}
	if h.Stats().Grows != 1 {
		t.Errorf("Grows = %d, want 1", h.Stats().Grows)
	}
}

func TestHeapExhausted(t *testing.T) {
	_, h := newTestHeap(t, 1, 0)

	if _, err := h.Alloc(2*pluginabi.PageSize, 1); err == nil {
		t.Error("expected error when memory cannot grow")
	}
	if _, err := h.Alloc(8, 16); err == nil {
		t.Error("expected error for unsupported alignment")
	}
	if _, err := h.Alloc(^uint32(0), 1); err == nil {
		t.Error("expected error for overflowing size")
	}
	if h.Stats().Live != 0 {
		t.Error("failed allocations must not count as live")
	}
}
