package binding

import (
	"github.com/google/uuid"
	"go.uber.org/zap"

	pluginabi "github.com/wippyai/plugin-abi"
	"github.com/wippyai/plugin-abi/codec"
	"github.com/wippyai/plugin-abi/collection"
	"github.com/wippyai/plugin-abi/record"
)

// Binding connects one plugin to the boundary memory.
type Binding struct {
	plugin Plugin
	mem    pluginabi.Memory
	alloc  pluginabi.Allocator
	log    *zap.Logger
	info   Info
	id     uuid.UUID
}

// Option configures a Binding.
type Option func(*Binding)

// WithLogger sets the logger used by the binding's entry points.
func WithLogger(l *zap.Logger) Option {
	return func(b *Binding) {
		if l != nil {
			b.log = l
		}
	}
}

// New creates a binding for plugin p. Strings and collections are
// allocated in mem with alloc.
func New(info Info, p Plugin, mem pluginabi.Memory, alloc pluginabi.Allocator, opts ...Option) *Binding {
	b := &Binding{
		plugin: p,
		mem:    mem,
		alloc:  alloc,
		info:   info,
		id:     uuid.New(),
		log:    Logger(),
	}
	for _, opt := range opts {
		opt(b)
	}
	b.log = b.log.With(zap.String("binding", b.id.String()), zap.String("plugin", info.ID))
	return b
}

// ID identifies this binding in logs.
func (b *Binding) ID() uuid.UUID {
	return b.id
}

// Info returns the plugin identity.
func (b *Binding) Info() Info {
	return b.info
}

// Memory returns the boundary memory.
func (b *Binding) Memory() pluginabi.Memory {
	return b.mem
}

// Allocator returns the plugin allocator.
func (b *Binding) Allocator() pluginabi.Allocator {
	return b.alloc
}

// PluginInfo returns the identity string for which, encoded for the host.
func (b *Binding) PluginInfo(which uint8) codec.CString {
	return codec.EncodeForHost(b.mem, b.alloc, b.info.Field(which), "plugin_info")
}

// Search decodes the query, consuming the host buffer, runs the plugin
// search and packs the results in order.
func (b *Binding) Search(ptr uint32, length int32) collection.Collection {
	query := codec.TakeHostString(b.mem, b.alloc, ptr, length, "query")
	results := b.plugin.Search(query)

	c := collection.Pack(b.mem, b.alloc, results, SearchResults, func(r record.SearchResult) record.CSearchResult {
		return record.EncodeSearchResult(b.mem, b.alloc, r)
	})
	b.log.Debug("search",
		zap.Int32("query_units", length),
		zap.Uint32("results", c.Len()))
	return c
}

// ContextMenu decodes result, consuming its host buffers, and packs the
// plugin's menu entries for it.
func (b *Binding) ContextMenu(result record.HostSearchResult) collection.Collection {
	sr := record.DecodeSearchResult(b.mem, b.alloc, result)
	entries := b.plugin.ContextMenu(sr)

	c := collection.Pack(b.mem, b.alloc, entries, ContextMenuResults, func(r record.ContextMenuResult) record.CContextMenuResult {
		return record.EncodeContextMenuResult(b.mem, b.alloc, r)
	})
	b.log.Debug("context menu",
		zap.String("title", sr.Title),
		zap.Uint32("entries", c.Len()))
	return c
}

// FreeString releases a string returned by PluginInfo.
func (b *Binding) FreeString(s codec.CString) {
	codec.ReleaseCString(b.mem, b.alloc, s)
}

// DropSearch releases the block of a Search result. The records' strings
// must be released separately with DropSearchResult.
func (b *Binding) DropSearch(c collection.Collection) {
	collection.Release(b.alloc, c, SearchResults)
}

// DropSearchResult releases the strings of one search record.
func (b *Binding) DropSearchResult(r record.CSearchResult) {
	record.ReleaseSearchResult(b.mem, b.alloc, r)
}

// DropContextMenu releases the block of a ContextMenu result. The records'
// strings must be released separately with DropContextMenuResult.
func (b *Binding) DropContextMenu(c collection.Collection) {
	collection.Release(b.alloc, c, ContextMenuResults)
}

// DropContextMenuResult releases the strings of one context menu record.
func (b *Binding) DropContextMenuResult(r record.CContextMenuResult) {
	record.ReleaseContextMenuResult(b.mem, b.alloc, r)
}
