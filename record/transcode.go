package record

import (
	pluginabi "github.com/wippyai/plugin-abi"
	"github.com/wippyai/plugin-abi/codec"
	"github.com/wippyai/plugin-abi/layout"
)

const (
	searchPath      = "search_result"
	contextMenuPath = "context_menu_result"
)

// EncodeSearchResult converts r into a boundary record, allocating one
// NUL-terminated buffer per field.
func EncodeSearchResult(mem pluginabi.Memory, alloc pluginabi.Allocator, r SearchResult) CSearchResult {
	var h [6]codec.CString
	for i, s := range r.fields() {
		h[i] = codec.EncodeForHost(mem, alloc, s, searchPath, layout.SearchResultFields[i])
	}
	return cSearchResultFrom(h)
}

// DecodeSearchResult converts a host record into a native one. Every host
// buffer in h is consumed; the host must not release or reuse them.
func DecodeSearchResult(mem pluginabi.Memory, alloc pluginabi.Allocator, h HostSearchResult) SearchResult {
	var f [6]string
	for i, s := range h.strings() {
		f[i] = codec.TakeHostString(mem, alloc, s.Ptr, s.Length, searchPath, layout.SearchResultFields[i])
	}
	return searchResultFrom(f)
}

// ReleaseSearchResult frees the six strings of c.
func ReleaseSearchResult(mem pluginabi.Memory, alloc pluginabi.Allocator, c CSearchResult) {
	for _, s := range c.handles() {
		codec.ReleaseCString(mem, alloc, s)
	}
}

// EncodeContextMenuResult converts r into a boundary record. The
// accelerator integers are copied verbatim.
func EncodeContextMenuResult(mem pluginabi.Memory, alloc pluginabi.Allocator, r ContextMenuResult) CContextMenuResult {
	var h [4]codec.CString
	for i, s := range r.strings() {
		h[i] = codec.EncodeForHost(mem, alloc, s, contextMenuPath, layout.ContextMenuStringFields[i])
	}
	return CContextMenuResult{
		PluginName:           h[0],
		Title:                h[1],
		FontFamily:           h[2],
		Glyph:                h[3],
		AcceleratorKey:       r.AcceleratorKey,
		AcceleratorModifiers: r.AcceleratorModifiers,
	}
}

// ReleaseContextMenuResult frees the four strings of c.
func ReleaseContextMenuResult(mem pluginabi.Memory, alloc pluginabi.Allocator, c CContextMenuResult) {
	for _, s := range c.handles() {
		codec.ReleaseCString(mem, alloc, s)
	}
}

// ReadSearchResult copies the strings of c out of memory without
// releasing them. It is the host's view of a boundary record.
func ReadSearchResult(mem pluginabi.Memory, c CSearchResult) (SearchResult, error) {
	var f [6]string
	for i, h := range c.handles() {
		s, err := codec.ReadCString(mem, h.Ptr())
		if err != nil {
			return SearchResult{}, err
		}
		f[i] = s
	}
	return searchResultFrom(f), nil
}

// ReadContextMenuResult copies the content of c out of memory without
// releasing it.
func ReadContextMenuResult(mem pluginabi.Memory, c CContextMenuResult) (ContextMenuResult, error) {
	var f [4]string
	for i, h := range c.handles() {
		s, err := codec.ReadCString(mem, h.Ptr())
		if err != nil {
			return ContextMenuResult{}, err
		}
		f[i] = s
	}
	return ContextMenuResult{
		PluginName:           f[0],
		Title:                f[1],
		FontFamily:           f[2],
		Glyph:                f[3],
		AcceleratorKey:       c.AcceleratorKey,
		AcceleratorModifiers: c.AcceleratorModifiers,
	}, nil
}
