package codec

import (
	"testing"
	"unicode/utf16"

	"github.com/wippyai/plugin-abi/errors"
	"github.com/wippyai/plugin-abi/memory"
)

func newBoundary(t *testing.T) (*memory.Linear, *memory.Heap) {
	t.Helper()
	mem := memory.NewLinear(1, 16)
	return mem, memory.NewHeap(mem, 0)
}

// putHost writes s as UTF-16LE into a heap buffer the way a host would.
func putHost(t *testing.T, mem *memory.Linear, heap *memory.Heap, s string) (uint32, int32) {
	t.Helper()
	units := utf16.Encode([]rune(s))
	if len(units) == 0 {
		return 0, 0
	}
	return putUnits(t, mem, heap, units), int32(len(units))
}

func putUnits(t *testing.T, mem *memory.Linear, heap *memory.Heap, units []uint16) uint32 {
	t.Helper()
	ptr, err := heap.Alloc(uint32(len(units))*2, 2)
	if err != nil {
		t.Fatalf("alloc: %v", err)
	}
	for i, u := range units {
		if err := mem.WriteU16(ptr+uint32(i)*2, u); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	return ptr
}

func expectFault(t *testing.T, kind errors.Kind, fn func()) {
	t.Helper()
	defer func() {
		t.Helper()
		r := recover()
		if r == nil {
			t.Fatalf("expected %s fault, got none", kind)
		}
		err, ok := r.(*errors.Error)
		if !ok {
			t.Fatalf("recovered %T (%v), want *errors.Error", r, r)
		}
		if err.Kind != kind {
			t.Fatalf("fault kind = %s, want %s (%v)", err.Kind, kind, err)
		}
	}()
	fn()
}

func TestRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"empty", ""},
		{"ascii", "hello world"},
		{"latin", "naïve café"},
		{"cjk", "検索結果"},
		{"astral", "rocket 🚀 and 𝄞 clef"},
		{"mixed", "aé中\U0001F600z"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mem, heap := newBoundary(t)

			ptr, n := putHost(t, mem, heap, tt.in)
			native := TakeHostString(mem, heap, ptr, n, "query")
			if native != tt.in {
				t.Fatalf("decoded %q, want %q", native, tt.in)
			}

			cs := EncodeForHost(mem, heap, native)
			if cs.IsNull() {
				t.Fatal("EncodeForHost returned null")
			}
			got, err := ReadCString(mem, cs.Ptr())
			if err != nil {
				t.Fatalf("ReadCString: %v", err)
			}
			if got != tt.in {
				t.Errorf("host read %q, want %q", got, tt.in)
			}

			ReleaseCString(mem, heap, cs)
			if live := heap.Stats().Live; live != 0 {
				t.Errorf("%d allocations outstanding", live)
			}
		})
	}
}

func TestTakeHostStringIsLengthFramed(t *testing.T) {
	mem, heap := newBoundary(t)
	// "a\x00b" followed by a unit that must not be read
	ptr := putUnits(t, mem, heap, []uint16{'a', 0, 'b', 'X'})

	got := TakeHostString(mem, heap, ptr, 3)
	if got != "a\x00b" {
		t.Errorf("got %q, want %q", got, "a\x00b")
	}
	// 4 units were allocated and 3 handed over; both round to one block
	if live := heap.Stats().Live; live != 0 {
		t.Errorf("host buffer not consumed: %d live", live)
	}
}

func TestTakeHostStringNonNullEmpty(t *testing.T) {
	mem, heap := newBoundary(t)
	ptr := putUnits(t, mem, heap, []uint16{'z'})

	if got := TakeHostString(mem, heap, ptr, 0); got != "" {
		t.Errorf("got %q", got)
	}
	if live := heap.Stats().Live; live != 0 {
		t.Errorf("buffer not consumed: %d live", live)
	}
}

func TestTakeHostStringFaults(t *testing.T) {
	t.Run("lone high surrogate", func(t *testing.T) {
		mem, heap := newBoundary(t)
		ptr := putUnits(t, mem, heap, []uint16{'a', 0xD83D})
		expectFault(t, errors.KindInvalidUTF16, func() { TakeHostString(mem, heap, ptr, 2) })
	})

	t.Run("lone low surrogate", func(t *testing.T) {
		mem, heap := newBoundary(t)
		ptr := putUnits(t, mem, heap, []uint16{0xDE80, 'a'})
		expectFault(t, errors.KindInvalidUTF16, func() { TakeHostString(mem, heap, ptr, 2) })
	})

	t.Run("reversed pair", func(t *testing.T) {
		mem, heap := newBoundary(t)
		ptr := putUnits(t, mem, heap, []uint16{0xDE80, 0xD83D})
		expectFault(t, errors.KindInvalidUTF16, func() { TakeHostString(mem, heap, ptr, 2) })
	})

	t.Run("negative length", func(t *testing.T) {
		mem, heap := newBoundary(t)
		expectFault(t, errors.KindNegativeLength, func() { TakeHostString(mem, heap, 2048, -1) })
	})

	t.Run("null buffer", func(t *testing.T) {
		mem, heap := newBoundary(t)
		expectFault(t, errors.KindNilPointer, func() { TakeHostString(mem, heap, 0, 4) })
	})

	t.Run("out of bounds", func(t *testing.T) {
		mem, heap := newBoundary(t)
		expectFault(t, errors.KindOutOfBounds, func() { TakeHostString(mem, heap, mem.Size()-2, 4) })
	})

	t.Run("too long", func(t *testing.T) {
		mem, heap := newBoundary(t)
		expectFault(t, errors.KindOverflow, func() { TakeHostString(mem, heap, 2048, MaxHostUnits+1) })
	})
}

func TestEncodeForHostFaults(t *testing.T) {
	mem, heap := newBoundary(t)

	expectFault(t, errors.KindInteriorNUL, func() { EncodeForHost(mem, heap, "a\x00b", "title") })
	expectFault(t, errors.KindInvalidUTF8, func() { EncodeForHost(mem, heap, "\xff\xfe") })

	if live := heap.Stats().Live; live != 0 {
		t.Errorf("faulted encodes leaked %d allocations", live)
	}
}

func TestEncodeForHostAllocationFault(t *testing.T) {
	mem := memory.NewLinear(1, 0)
	heap := memory.NewHeap(mem, mem.Size()-8)
	expectFault(t, errors.KindAllocation, func() { EncodeForHost(mem, heap, "this does not fit in eight bytes") })
}

func TestEncodeForHostLayout(t *testing.T) {
	mem, heap := newBoundary(t)

	cs := EncodeForHost(mem, heap, "ab")
	raw, err := mem.Read(cs.Ptr(), 3)
	if err != nil {
		t.Fatal(err)
	}
	if raw[0] != 'a' || raw[1] != 'b' || raw[2] != 0 {
		t.Errorf("buffer = %v, want [97 98 0]", raw)
	}

	empty := EncodeForHost(mem, heap, "")
	if empty.IsNull() || empty.Ptr() == cs.Ptr() {
		t.Errorf("empty string handle = %d", empty.Ptr())
	}
	if b, _ := mem.ReadU8(empty.Ptr()); b != 0 {
		t.Errorf("empty string not terminated: %d", b)
	}

	ReleaseCString(mem, heap, cs)
	ReleaseCString(mem, heap, Adopt(empty.Ptr()))
	ReleaseCString(mem, heap, CString{})
	if live := heap.Stats().Live; live != 0 {
		t.Errorf("%d allocations outstanding", live)
	}
}

func TestEncodeAllocatesFresh(t *testing.T) {
	mem, heap := newBoundary(t)

	a := EncodeForHost(mem, heap, "same")
	b := EncodeForHost(mem, heap, "same")
	if a.Ptr() == b.Ptr() {
		t.Error("identical strings share a buffer")
	}
	if heap.Stats().Allocs != 2 {
		t.Errorf("Allocs = %d, want 2", heap.Stats().Allocs)
	}
}

func TestReadCStringErrors(t *testing.T) {
	mem, _ := newBoundary(t)

	if _, err := ReadCString(mem, 0); err == nil {
		t.Error("expected error for null handle")
	}

	// fill the tail of memory with non-zero bytes so no terminator exists
	tail := mem.Size() - 16
	for i := uint32(0); i < 16; i++ {
		_ = mem.WriteU8(tail+i, 'x')
	}
	if _, err := ReadCString(mem, tail); err == nil {
		t.Error("expected error for unterminated string")
	}
}

func TestDecodeUTF16(t *testing.T) {
	units := utf16.Encode([]rune("ü🙂"))
	if got := DecodeUTF16(units); got != "ü🙂" {
		t.Errorf("got %q", got)
	}
	if got := DecodeUTF16(nil); got != "" {
		t.Errorf("got %q for nil", got)
	}
}
