package memory

import (
	"fmt"

	"github.com/tetratelabs/wazero/api"

	pluginabi "github.com/wippyai/plugin-abi"
)

// Wazero is the memory of a wazero module instance.
type Wazero struct {
	Mem api.Memory
}

// Wrap adapts mem. A nil mem yields nil.
func Wrap(mem api.Memory) *Wazero {
	if mem == nil {
		return nil
	}
	return &Wazero{Mem: mem}
}

func outOfBounds(op string, offset, length uint32) error {
	return fmt.Errorf("memory %s out of bounds: offset=%d, length=%d", op, offset, length)
}

func (m *Wazero) Read(offset uint32, length uint32) ([]byte, error) {
	if data, ok := m.Mem.Read(offset, length); ok {
		return data, nil
	}
	return nil, outOfBounds("read", offset, length)
}

func (m *Wazero) Write(offset uint32, data []byte) error {
	if m.Mem.Write(offset, data) {
		return nil
	}
	return outOfBounds("write", offset, uint32(len(data)))
}

func (m *Wazero) ReadU8(offset uint32) (uint8, error) {
	v, ok := m.Mem.ReadByte(offset)
	return v, check(ok, "read", offset, 1)
}

func (m *Wazero) ReadU16(offset uint32) (uint16, error) {
	v, ok := m.Mem.ReadUint16Le(offset)
	return v, check(ok, "read", offset, 2)
}

func (m *Wazero) ReadU32(offset uint32) (uint32, error) {
	v, ok := m.Mem.ReadUint32Le(offset)
	return v, check(ok, "read", offset, 4)
}

func (m *Wazero) ReadU64(offset uint32) (uint64, error) {
	v, ok := m.Mem.ReadUint64Le(offset)
	return v, check(ok, "read", offset, 8)
}

func (m *Wazero) WriteU8(offset uint32, value uint8) error {
	return check(m.Mem.WriteByte(offset, value), "write", offset, 1)
}

func (m *Wazero) WriteU16(offset uint32, value uint16) error {
	return check(m.Mem.WriteUint16Le(offset, value), "write", offset, 2)
}

func (m *Wazero) WriteU32(offset uint32, value uint32) error {
	return check(m.Mem.WriteUint32Le(offset, value), "write", offset, 4)
}

func (m *Wazero) WriteU64(offset uint32, value uint64) error {
	return check(m.Mem.WriteUint64Le(offset, value), "write", offset, 8)
}

// Size returns the memory size in bytes.
func (m *Wazero) Size() uint32 {
	return m.Mem.Size()
}

// Grow grows the instance memory, subject to its declared maximum.
func (m *Wazero) Grow(deltaPages uint32) (uint32, bool) {
	return m.Mem.Grow(deltaPages)
}

func check(ok bool, op string, offset, length uint32) error {
	if ok {
		return nil
	}
	return outOfBounds(op, offset, length)
}

var (
	_ pluginabi.Memory       = (*Wazero)(nil)
	_ pluginabi.MemorySizer  = (*Wazero)(nil)
	_ pluginabi.MemoryGrower = (*Wazero)(nil)
)
