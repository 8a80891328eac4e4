package main

import (
	"context"
	"fmt"
	"sort"

	"github.com/tetratelabs/wazero"
	"go.uber.org/zap"

	pluginabi "github.com/wippyai/plugin-abi"
	"github.com/wippyai/plugin-abi/binding"
	"github.com/wippyai/plugin-abi/config"
	"github.com/wippyai/plugin-abi/engine"
	"github.com/wippyai/plugin-abi/host"
	"github.com/wippyai/plugin-abi/memory"
	"github.com/wippyai/plugin-abi/plugins/reverse"
)

type pluginEntry struct {
	info binding.Info
	new  func() binding.Plugin
}

var registry = map[string]pluginEntry{
	"reverse": {info: reverse.Info, new: reverse.New},
}

func pluginNames() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// session owns one binding and the memory behind it.
type session struct {
	cfg    config.Config
	log    *zap.Logger
	heap   *memory.Heap
	b      *binding.Binding
	client *host.Client
	guests *engine.Guests
	close  func(context.Context) error
}

func newSession(ctx context.Context, cfg config.Config, log *zap.Logger) (*session, error) {
	entry, ok := registry[cfg.Plugin]
	if !ok {
		return nil, fmt.Errorf("unknown plugin %q (available: %v)", cfg.Plugin, pluginNames())
	}

	s := &session{cfg: cfg, log: log, close: func(context.Context) error { return nil }}

	var (
		mem memory.HeapMemory
		rt  wazero.Runtime
	)
	switch cfg.Engine {
	case config.EngineLinear:
		mem = memory.NewLinear(cfg.Memory.InitialPages, cfg.Memory.MaxPages)

	case config.EngineWazero:
		rt = engine.NewRuntime(ctx, &engine.Config{MemoryLimitPages: cfg.Memory.MaxPages})
		s.close = rt.Close

		mod, err := engine.InstantiateMemory(ctx, rt, "plugin_memory", cfg.Memory.InitialPages, cfg.Memory.MaxPages)
		if err != nil {
			_ = rt.Close(ctx)
			return nil, err
		}
		mem = memory.Wrap(mod.Memory())

	default:
		return nil, fmt.Errorf("unknown engine %q", cfg.Engine)
	}

	s.heap = memory.NewHeap(mem, cfg.Memory.HeapBase)
	s.b = binding.New(entry.info, entry.new(), mem, s.heap, binding.WithLogger(log))
	s.client = host.NewClient(s.b)

	if rt != nil {
		// guests instantiated into rt get their own binding of the plugin,
		// working in their own memory
		s.guests = engine.NewGuests(entry.info, entry.new(), binding.WithLogger(log))
		if _, err := engine.NewHostModule(rt, cfg.Module, s.guests.Resolve).Build(ctx); err != nil {
			_ = rt.Close(ctx)
			return nil, err
		}
	}

	log.Info("plugin loaded",
		zap.String("plugin", entry.info.Name),
		zap.String("engine", cfg.Engine),
		zap.Uint32("memory_bytes", mem.Size()),
		zap.Uint32("page_size", pluginabi.PageSize),
	)
	return s, nil
}

func (s *session) Close(ctx context.Context) error {
	st := s.heap.Stats()
	s.log.Debug("session closed",
		zap.Int("live", st.Live),
		zap.Uint64("allocs", st.Allocs),
		zap.Uint64("frees", st.Frees),
		zap.Uint64("grows", st.Grows),
	)
	return s.close(ctx)
}
