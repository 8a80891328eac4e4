package engine_test

import (
	"bytes"
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"

	"github.com/wippyai/plugin-abi/engine"
	"github.com/wippyai/plugin-abi/memory"
)

// guestHeapBase keeps the guest allocator clear of the guest's own data,
// which tests place below it.
const guestHeapBase = 4096

type guestFunc struct {
	module  string
	name    string
	params  int
	results int
}

func abiImports(module string) []guestFunc {
	return []guestFunc{
		{module, engine.FuncGetPluginInfo, 1, 1},
		{module, engine.FuncInitSearch, 3, 0},
		{module, engine.FuncGetContextMenu, 2, 0},
		{module, engine.FuncFreeCString, 1, 0},
		{module, engine.FuncDropSearch, 2, 0},
		{module, engine.FuncDropSearchResult, 1, 0},
		{module, engine.FuncDropContextMenuResult, 1, 0},
		{module, engine.FuncDropContextMenu, 2, 0},
	}
}

func uleb(w *bytes.Buffer, v uint32) {
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if v != 0 {
			b |= 0x80
		}
		w.WriteByte(b)
		if v == 0 {
			return
		}
	}
}

func wasmName(w *bytes.Buffer, s string) {
	uleb(w, uint32(len(s)))
	w.WriteString(s)
}

func section(out *bytes.Buffer, id byte, payload *bytes.Buffer) {
	out.WriteByte(id)
	uleb(out, uint32(payload.Len()))
	out.Write(payload.Bytes())
}

// guestModule assembles a module that imports each of funcs and exports,
// under the same name, a function that forwards its arguments to the
// import. Calls through those exports reach the host with the guest as the
// caller. The module also exports a one-page growable memory.
func guestModule(funcs []guestFunc) []byte {
	var out bytes.Buffer
	out.Write([]byte{0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00})
	n := uint32(len(funcs))

	var types bytes.Buffer
	uleb(&types, n)
	for _, f := range funcs {
		types.WriteByte(0x60)
		uleb(&types, uint32(f.params))
		for i := 0; i < f.params; i++ {
			types.WriteByte(0x7f)
		}
		uleb(&types, uint32(f.results))
		for i := 0; i < f.results; i++ {
			types.WriteByte(0x7f)
		}
	}
	section(&out, 0x01, &types)

	var imports bytes.Buffer
	uleb(&imports, n)
	for i, f := range funcs {
		wasmName(&imports, f.module)
		wasmName(&imports, f.name)
		imports.WriteByte(0x00)
		uleb(&imports, uint32(i))
	}
	section(&out, 0x02, &imports)

	var decls bytes.Buffer
	uleb(&decls, n)
	for i := range funcs {
		uleb(&decls, uint32(i))
	}
	section(&out, 0x03, &decls)

	section(&out, 0x05, bytes.NewBuffer([]byte{0x01, 0x00, 0x01}))

	var exports bytes.Buffer
	uleb(&exports, n+1)
	wasmName(&exports, "memory")
	exports.Write([]byte{0x02, 0x00})
	for i, f := range funcs {
		wasmName(&exports, f.name)
		exports.WriteByte(0x00)
		uleb(&exports, n+uint32(i))
	}
	section(&out, 0x07, &exports)

	var code bytes.Buffer
	uleb(&code, n)
	for i, f := range funcs {
		var body bytes.Buffer
		body.WriteByte(0x00)
		for p := 0; p < f.params; p++ {
			body.WriteByte(0x20)
			uleb(&body, uint32(p))
		}
		body.WriteByte(0x10)
		uleb(&body, uint32(i))
		body.WriteByte(0x0b)
		uleb(&code, uint32(body.Len()))
		code.Write(body.Bytes())
	}
	section(&out, 0x0a, &code)

	return out.Bytes()
}

// guestAllocator plays the guest's own malloc. It is a host module so the
// tests can inspect it, but it runs on the memory of whichever guest calls
// it, starting at guestHeapBase.
type guestAllocator struct {
	heaps map[api.Memory]*memory.Heap
	mu    sync.Mutex
}

func (g *guestAllocator) heap(mod api.Module) *memory.Heap {
	g.mu.Lock()
	defer g.mu.Unlock()
	mem := mod.Memory()
	h, ok := g.heaps[mem]
	if !ok {
		h = memory.NewHeap(memory.Wrap(mem), guestHeapBase)
		g.heaps[mem] = h
	}
	return h
}

func (g *guestAllocator) realloc(_ context.Context, mod api.Module, stack []uint64) {
	oldPtr := api.DecodeU32(stack[0])
	oldSize := api.DecodeU32(stack[1])
	align := api.DecodeU32(stack[2])
	newSize := api.DecodeU32(stack[3])
	h := g.heap(mod)

	if newSize == 0 {
		h.Free(oldPtr, oldSize, align)
		stack[0] = 0
		return
	}
	ptr, err := h.Alloc(newSize, align)
	if err != nil {
		stack[0] = 0
		return
	}
	if oldPtr != 0 {
		data, _ := mod.Memory().Read(oldPtr, min(oldSize, newSize))
		mod.Memory().Write(ptr, bytes.Clone(data))
		h.Free(oldPtr, oldSize, align)
	}
	stack[0] = api.EncodeU32(ptr)
}

func instantiateGuestAllocator(t *testing.T, ctx context.Context, rt wazero.Runtime) *guestAllocator {
	t.Helper()
	g := &guestAllocator{heaps: make(map[api.Memory]*memory.Heap)}
	i32 := api.ValueTypeI32
	_, err := rt.NewHostModuleBuilder("env").
		NewFunctionBuilder().
		WithGoModuleFunction(api.GoModuleFunc(g.realloc), []api.ValueType{i32, i32, i32, i32}, []api.ValueType{i32}).
		Export(memory.ReallocExport).
		Instantiate(ctx)
	require.NoError(t, err)
	return g
}

func withRealloc(funcs []guestFunc) []guestFunc {
	return append(funcs, guestFunc{"env", memory.ReallocExport, 4, 1})
}
