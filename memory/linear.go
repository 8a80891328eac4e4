package memory

import (
	"encoding/binary"
	"fmt"

	pluginabi "github.com/wippyai/plugin-abi"
)

// Linear is a linear memory backed by a Go byte slice.
// It is not safe for concurrent use without the Heap that owns it.
type Linear struct {
	data     []byte
	maxPages uint32
}

// NewLinear creates a memory of initialPages pages that may grow up to
// maxPages. A maxPages of 0 means the memory cannot grow. Both are capped
// at pluginabi.MaxPages.
func NewLinear(initialPages, maxPages uint32) *Linear {
	initialPages = min(initialPages, pluginabi.MaxPages)
	maxPages = min(maxPages, pluginabi.MaxPages)
	if maxPages != 0 && maxPages < initialPages {
		maxPages = initialPages
	}
	return &Linear{
		data:     make([]byte, int(initialPages)*pluginabi.PageSize),
		maxPages: maxPages,
	}
}

func (m *Linear) check(offset, length uint32) error {
	end := uint64(offset) + uint64(length)
	if end > uint64(len(m.data)) {
		return fmt.Errorf("memory access out of bounds: offset=%d, length=%d, size=%d", offset, length, len(m.data))
	}
	return nil
}

// Read returns a view of length bytes at offset.
// The view aliases memory and is invalidated by Grow.
func (m *Linear) Read(offset uint32, length uint32) ([]byte, error) {
	if err := m.check(offset, length); err != nil {
		return nil, err
	}
	return m.data[offset : offset+length : offset+length], nil
}

func (m *Linear) Write(offset uint32, data []byte) error {
	if err := m.check(offset, uint32(len(data))); err != nil {
		return err
	}
	copy(m.data[offset:], data)
	return nil
}

func (m *Linear) ReadU8(offset uint32) (uint8, error) {
	if err := m.check(offset, 1); err != nil {
		return 0, err
	}
	return m.data[offset], nil
}

func (m *Linear) ReadU16(offset uint32) (uint16, error) {
	if err := m.check(offset, 2); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(m.data[offset:]), nil
}

func (m *Linear) ReadU32(offset uint32) (uint32, error) {
	if err := m.check(offset, 4); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(m.data[offset:]), nil
}

func (m *Linear) ReadU64(offset uint32) (uint64, error) {
	if err := m.check(offset, 8); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(m.data[offset:]), nil
}

func (m *Linear) WriteU8(offset uint32, value uint8) error {
	if err := m.check(offset, 1); err != nil {
		return err
	}
	m.data[offset] = value
	return nil
}

func (m *Linear) WriteU16(offset uint32, value uint16) error {
	if err := m.check(offset, 2); err != nil {
		return err
	}
	binary.LittleEndian.PutUint16(m.data[offset:], value)
	return nil
}

func (m *Linear) WriteU32(offset uint32, value uint32) error {
	if err := m.check(offset, 4); err != nil {
		return err
	}
	binary.LittleEndian.PutUint32(m.data[offset:], value)
	return nil
}

func (m *Linear) WriteU64(offset uint32, value uint64) error {
	if err := m.check(offset, 8); err != nil {
		return err
	}
	binary.LittleEndian.PutUint64(m.data[offset:], value)
	return nil
}

// Size returns the memory size in bytes.
func (m *Linear) Size() uint32 {
	return uint32(len(m.data))
}

// Grow extends the memory by deltaPages zeroed pages.
func (m *Linear) Grow(deltaPages uint32) (uint32, bool) {
	prev := uint32(len(m.data) / pluginabi.PageSize)
	if deltaPages == 0 {
		return prev, true
	}
	if m.maxPages == 0 || uint64(prev)+uint64(deltaPages) > uint64(m.maxPages) {
		return prev, false
	}
	grown := make([]byte, (int(prev)+int(deltaPages))*pluginabi.PageSize)
	copy(grown, m.data)
	m.data = grown
	return prev, true
}

var (
	_ pluginabi.Memory       = (*Linear)(nil)
	_ pluginabi.MemorySizer  = (*Linear)(nil)
	_ pluginabi.MemoryGrower = (*Linear)(nil)
)
