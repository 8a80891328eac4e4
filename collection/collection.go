package collection

import (
	"strconv"

	pluginabi "github.com/wippyai/plugin-abi"
	"github.com/wippyai/plugin-abi/errors"
	"github.com/wippyai/plugin-abi/layout"
)

// EmptyBase is the base handle of every empty collection.
const EmptyBase uint32 = 4

// Collection is an owned handle to a block of boundary records.
type Collection struct {
	len uint32
	ptr uint32
}

// Len returns the number of records in the block.
func (c Collection) Len() uint32 {
	return c.len
}

// Ptr returns the base handle of the block.
func (c Collection) Ptr() uint32 {
	return c.ptr
}

// Adopt takes back a collection the host returned for release.
func Adopt(length, ptr uint32) Collection {
	return Collection{len: length, ptr: ptr}
}

// Kind describes how one boundary record type is laid out and moved in
// memory.
type Kind[B any] struct {
	Store  func(mem pluginabi.Memory, addr uint32, v B) error
	Load   func(mem pluginabi.Memory, addr uint32) (B, error)
	Layout layout.Record
}

// Pack allocates one block for len(items) records and fills it in order,
// converting each element with convert.
func Pack[N, B any](mem pluginabi.Memory, alloc pluginabi.Allocator, items []N, kind Kind[B], convert func(N) B) Collection {
	if len(items) == 0 {
		return Collection{len: 0, ptr: EmptyBase}
	}

	stride := kind.Layout.Size
	total := uint64(len(items)) * uint64(stride)
	if total > 1<<32-1 {
		errors.Fatal(errors.Overflow(errors.PhasePack, []string{kind.Layout.Name}, len(items), "collection size"))
	}

	ptr, err := alloc.Alloc(uint32(total), kind.Layout.Align)
	if err != nil || ptr == 0 {
		fault := errors.AllocationFailed(errors.PhasePack, uint32(total), kind.Layout.Align)
		fault.Path = []string{kind.Layout.Name}
		fault.Cause = err
		errors.Fatal(fault)
	}

	for i, item := range items {
		addr := ptr + uint32(i)*stride
		if err := kind.Store(mem, addr, convert(item)); err != nil {
			errors.Fatal(errors.New(errors.PhasePack, errors.KindOutOfBounds).
				Path(kind.Layout.Name, "["+strconv.Itoa(i)+"]").
				Cause(err).
				Build())
		}
	}

	return Collection{len: uint32(len(items)), ptr: ptr}
}

// Release frees the block of c. Record contents are not released.
func Release[B any](alloc pluginabi.Allocator, c Collection, kind Kind[B]) {
	if c.len == 0 || c.ptr == EmptyBase || c.ptr == 0 {
		return
	}
	alloc.Free(c.ptr, c.len*kind.Layout.Size, kind.Layout.Align)
}

// At reads record i of c.
func At[B any](mem pluginabi.Memory, c Collection, kind Kind[B], i uint32) (B, error) {
	if i >= c.len {
		var zero B
		return zero, errors.New(errors.PhaseDecode, errors.KindOutOfBounds).
			Path(kind.Layout.Name).
			Detail("index %d out of bounds (length %d)", i, c.len).
			Build()
	}
	return kind.Load(mem, c.ptr+i*kind.Layout.Size)
}

// Load reads every record of c in order.
func Load[B any](mem pluginabi.Memory, c Collection, kind Kind[B]) ([]B, error) {
	out := make([]B, 0, c.len)
	for i := uint32(0); i < c.len; i++ {
		v, err := At(mem, c, kind, i)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// StoreHeader writes the {len, ptr} header of c at addr.
func StoreHeader(mem pluginabi.Memory, addr uint32, c Collection) error {
	lenOff, _ := layout.Collection.Offset("len")
	ptrOff, _ := layout.Collection.Offset("ptr")
	if err := mem.WriteU32(addr+lenOff, c.len); err != nil {
		return err
	}
	return mem.WriteU32(addr+ptrOff, c.ptr)
}

// LoadHeader reads a {len, ptr} header at addr.
func LoadHeader(mem pluginabi.Memory, addr uint32) (Collection, error) {
	lenOff, _ := layout.Collection.Offset("len")
	ptrOff, _ := layout.Collection.Offset("ptr")
	n, err := mem.ReadU32(addr + lenOff)
	if err != nil {
		return Collection{}, err
	}
	ptr, err := mem.ReadU32(addr + ptrOff)
	if err != nil {
		return Collection{}, err
	}
	return Collection{len: n, ptr: ptr}, nil
}
