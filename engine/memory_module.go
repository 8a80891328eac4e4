package engine

import (
	"bytes"
	"context"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"

	"github.com/wippyai/plugin-abi/errors"
)

// MemoryModule returns a wasm module that does nothing but export a memory
// named "memory" with the given limits. A maxPages of 0 leaves the memory
// unbounded.
func MemoryModule(minPages, maxPages uint32) []byte {
	var limits bytes.Buffer
	if maxPages == 0 {
		limits.WriteByte(0x00)
		writeLEB128u(&limits, minPages)
	} else {
		limits.WriteByte(0x01)
		writeLEB128u(&limits, minPages)
		writeLEB128u(&limits, maxPages)
	}

	var out bytes.Buffer
	out.Write([]byte{0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00})

	// memory section: one memory
	mem := append([]byte{0x01}, limits.Bytes()...)
	out.WriteByte(0x05)
	writeLEB128u(&out, uint32(len(mem)))
	out.Write(mem)

	// export section: "memory" -> memory 0
	exp := []byte{0x01, 0x06, 'm', 'e', 'm', 'o', 'r', 'y', 0x02, 0x00}
	out.WriteByte(0x07)
	writeLEB128u(&out, uint32(len(exp)))
	out.Write(exp)

	return out.Bytes()
}

// InstantiateMemory instantiates MemoryModule under name and returns the
// module. Its Memory() can back a binding when no guest program exists.
func InstantiateMemory(ctx context.Context, r wazero.Runtime, name string, minPages, maxPages uint32) (api.Module, error) {
	cfg := wazero.NewModuleConfig().WithName(name)
	mod, err := r.InstantiateWithConfig(ctx, MemoryModule(minPages, maxPages), cfg)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseHost, errors.KindRegistration, err, "instantiate memory module "+name)
	}
	return mod, nil
}

func writeLEB128u(w *bytes.Buffer, v uint32) {
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if v != 0 {
			b |= 0x80
		}
		w.WriteByte(b)
		if v == 0 {
			break
		}
	}
}
