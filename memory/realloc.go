package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/tetratelabs/wazero/api"
	"go.uber.org/zap"

	pluginabi "github.com/wippyai/plugin-abi"
)

// ReallocExport is the allocator a guest exports for the plugin ABI.
// Its signature is (old_ptr, old_size, align, new_size) -> ptr.
const ReallocExport = "cabi_realloc"

// ReallocStats counts the allocations made through a Realloc.
type ReallocStats struct {
	Live      int
	LiveBytes uint64
	Allocs    uint64
	Frees     uint64
}

// Realloc allocates in a guest's memory through its cabi_realloc export.
// Blocks are freed by reallocating them to size 0.
//
// The context passed to Bind is used for every call until the next Bind.
// A Realloc serves one guest instance and, like the instance, must not be
// called concurrently.
type Realloc struct {
	ctx   context.Context
	fn    reallocFunc
	stats ReallocStats
	mu    sync.Mutex
}

// reallocFunc is the part of api.Function a Realloc calls.
type reallocFunc interface {
	Call(ctx context.Context, params ...uint64) ([]uint64, error)
}

// NewRealloc wraps the cabi_realloc export of mod.
func NewRealloc(mod api.Module) (*Realloc, error) {
	fn := mod.ExportedFunction(ReallocExport)
	if fn == nil {
		return nil, fmt.Errorf("module %q does not export %s", mod.Name(), ReallocExport)
	}
	def := fn.Definition()
	if len(def.ParamTypes()) != 4 || len(def.ResultTypes()) != 1 {
		return nil, fmt.Errorf("module %q: %s has signature %v -> %v", mod.Name(), ReallocExport, def.ParamTypes(), def.ResultTypes())
	}
	return &Realloc{ctx: context.Background(), fn: fn}, nil
}

// Bind sets the context for subsequent calls.
func (a *Realloc) Bind(ctx context.Context) {
	a.mu.Lock()
	a.ctx = ctx
	a.mu.Unlock()
}

// Alloc allocates size bytes aligned to align.
func (a *Realloc) Alloc(size, align uint32) (uint32, error) {
	a.mu.Lock()
	ctx := a.ctx
	a.mu.Unlock()

	results, err := a.fn.Call(ctx, 0, 0, uint64(align), uint64(size))
	if err != nil {
		return 0, fmt.Errorf("allocation failed: %w", err)
	}
	if len(results) == 0 {
		return 0, fmt.Errorf("allocation returned no result")
	}
	ptr := api.DecodeU32(results[0])
	if ptr == 0 {
		return 0, fmt.Errorf("allocation of %d bytes returned null", size)
	}

	a.mu.Lock()
	a.stats.Live++
	a.stats.LiveBytes += uint64(size)
	a.stats.Allocs++
	a.mu.Unlock()
	return ptr, nil
}

// Free returns a block to the guest allocator.
func (a *Realloc) Free(ptr, size, align uint32) {
	if ptr == 0 {
		return
	}
	a.mu.Lock()
	ctx := a.ctx
	a.mu.Unlock()

	if _, err := a.fn.Call(ctx, uint64(ptr), uint64(size), uint64(align), 0); err != nil {
		Logger().Warn("guest free failed", zap.Uint32("ptr", ptr), zap.Uint32("size", size), zap.Error(err))
		return
	}

	a.mu.Lock()
	a.stats.Live--
	a.stats.LiveBytes -= uint64(size)
	a.stats.Frees++
	a.mu.Unlock()
}

// Stats returns a snapshot of the allocation counters.
func (a *Realloc) Stats() ReallocStats {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.stats
}

var _ pluginabi.Allocator = (*Realloc)(nil)
