package memory

import (
	"testing"

	pluginabi "github.com/wippyai/plugin-abi"
)

func TestLinearReadWrite(t *testing.T) {
	m := NewLinear(1, 0)

	if err := m.WriteU16(10, 0x1234); err != nil {
		t.Fatal(err)
	}
	if err := m.WriteU32(12, 0xDEADBEEF); err != nil {
		t.Fatal(err)
	}
	if err := m.WriteU64(16, 0x0102030405060708); err != nil {
		t.Fatal(err)
	}

	raw, err := m.Read(10, 2)
	if err != nil {
		t.Fatal(err)
	}
	if raw[0] != 0x34 || raw[1] != 0x12 {
		t.Errorf("u16 not little-endian: %x", raw)
	}
	if v, _ := m.ReadU16(10); v != 0x1234 {
		t.Errorf("ReadU16 = %x", v)
	}
	if v, _ := m.ReadU32(12); v != 0xDEADBEEF {
		t.Errorf("ReadU32 = %x", v)
	}
	if v, _ := m.ReadU64(16); v != 0x0102030405060708 {
		t.Errorf("ReadU64 = %x", v)
	}
	if v, _ := m.ReadU8(16); v != 0x08 {
		t.Errorf("ReadU8 = %x", v)
	}
}

func TestLinearBounds(t *testing.T) {
	m := NewLinear(1, 0)
	end := uint32(pluginabi.PageSize)

	if _, err := m.ReadU32(end - 2); err == nil {
		t.Error("ReadU32 across end should fail")
	}
	if err := m.Write(end-1, []byte{1, 2}); err == nil {
		t.Error("Write across end should fail")
	}
	if _, err := m.Read(^uint32(0), 2); err == nil {
		t.Error("Read with wrapping offset should fail")
	}
	if _, err := m.Read(end, 0); err != nil {
		t.Errorf("empty read at end should succeed: %v", err)
	}
}

func TestLinearGrow(t *testing.T) {
	m := NewLinear(1, 2)
	if err := m.WriteU8(5, 7); err != nil {
		t.Fatal(err)
	}

	prev, ok := m.Grow(1)
	if !ok || prev != 1 {
		t.Fatalf("Grow(1) = %d, %v", prev, ok)
	}
	if v, _ := m.ReadU8(5); v != 7 {
		t.Error("contents lost on grow")
	}
	if _, ok := m.Grow(1); ok {
		t.Error("Grow past maxPages should fail")
	}
	if NewLinear(1, 0).Size() != pluginabi.PageSize {
		t.Error("unexpected initial size")
	}
}

func TestLinearPageCap(t *testing.T) {
	m := NewLinear(1, 70000)
	if m.maxPages != pluginabi.MaxPages {
		t.Fatalf("maxPages = %d, want %d", m.maxPages, pluginabi.MaxPages)
	}

	// growing to 65536 pages would make Size wrap to 0
	if _, ok := m.Grow(pluginabi.MaxPages); ok {
		t.Fatal("grow past MaxPages succeeded")
	}
	if m.Size() != pluginabi.PageSize {
		t.Errorf("Size = %d after failed grow", m.Size())
	}
}
