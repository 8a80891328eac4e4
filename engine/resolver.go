package engine

import (
	"context"
	"sync"

	"github.com/tetratelabs/wazero/api"
	"go.uber.org/zap"

	"github.com/wippyai/plugin-abi/binding"
	"github.com/wippyai/plugin-abi/errors"
	"github.com/wippyai/plugin-abi/memory"
)

// Resolver selects the binding that serves a call from caller.
type Resolver func(ctx context.Context, caller api.Module) *binding.Binding

type guest struct {
	b     *binding.Binding
	alloc *memory.Realloc
}

// Guests binds a plugin to each guest instance that calls it. A guest's
// binding works in the guest's own memory and allocates through the
// guest's cabi_realloc, so every handle the plugin returns is memory the
// guest can read and every buffer the guest passes in came from the same
// allocator the plugin frees it with.
type Guests struct {
	info    binding.Info
	plugin  binding.Plugin
	opts    []binding.Option
	entries map[api.Memory]*guest
	mu      sync.Mutex
}

// NewGuests creates the per-guest bindings of plugin p.
func NewGuests(info binding.Info, p binding.Plugin, opts ...binding.Option) *Guests {
	return &Guests{
		info:    info,
		plugin:  p,
		opts:    opts,
		entries: make(map[api.Memory]*guest),
	}
}

// Resolve returns the binding of caller, creating it on the first call.
// A caller without a memory or without cabi_realloc is a fatal fault.
func (g *Guests) Resolve(ctx context.Context, caller api.Module) *binding.Binding {
	var mem api.Memory
	if caller != nil {
		mem = caller.Memory()
	}
	if mem == nil {
		errors.Fatal(errors.New(errors.PhaseHost, errors.KindNilPointer).
			Detail("caller has no memory").
			Build())
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	e, ok := g.entries[mem]
	if !ok {
		alloc, err := memory.NewRealloc(caller)
		if err != nil {
			errors.Fatal(errors.New(errors.PhaseHost, errors.KindRegistration).
				Path(caller.Name()).
				Cause(err).
				Build())
		}
		e = &guest{
			b:     binding.New(g.info, g.plugin, memory.Wrap(mem), alloc, g.opts...),
			alloc: alloc,
		}
		g.entries[mem] = e
		Logger().Debug("guest bound",
			zap.String("guest", caller.Name()),
			zap.String("binding", e.b.ID().String()))
	}
	e.alloc.Bind(ctx)
	return e.b
}

// Stats reports the allocations the plugin holds in caller's memory.
func (g *Guests) Stats(caller api.Module) (memory.ReallocStats, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	e, ok := g.entries[caller.Memory()]
	if !ok {
		return memory.ReallocStats{}, false
	}
	return e.alloc.Stats(), true
}

// Forget drops the binding of caller, for example after it is closed.
func (g *Guests) Forget(caller api.Module) {
	g.mu.Lock()
	delete(g.entries, caller.Memory())
	g.mu.Unlock()
}
