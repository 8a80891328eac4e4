package record

import (
	pluginabi "github.com/wippyai/plugin-abi"
	"github.com/wippyai/plugin-abi/codec"
	"github.com/wippyai/plugin-abi/layout"
)

// StoreCSearchResult writes c at addr using the c-search-result layout.
func StoreCSearchResult(mem pluginabi.Memory, addr uint32, c CSearchResult) error {
	for i, h := range c.handles() {
		if err := mem.WriteU32(addr+layout.CSearchResult.Fields[i].Offset, h.Ptr()); err != nil {
			return err
		}
	}
	return nil
}

// LoadCSearchResult reads a c-search-result at addr.
func LoadCSearchResult(mem pluginabi.Memory, addr uint32) (CSearchResult, error) {
	var h [6]codec.CString
	for i := range h {
		ptr, err := mem.ReadU32(addr + layout.CSearchResult.Fields[i].Offset)
		if err != nil {
			return CSearchResult{}, err
		}
		h[i] = codec.Adopt(ptr)
	}
	return cSearchResultFrom(h), nil
}

// StoreHostSearchResult writes h at addr using the host-search-result
// layout of (length, ptr) pairs.
func StoreHostSearchResult(mem pluginabi.Memory, addr uint32, h HostSearchResult) error {
	fields := layout.HostSearchResult.Fields
	for i, s := range h.strings() {
		if err := mem.WriteU32(addr+fields[2*i].Offset, uint32(s.Length)); err != nil {
			return err
		}
		if err := mem.WriteU32(addr+fields[2*i+1].Offset, s.Ptr); err != nil {
			return err
		}
	}
	return nil
}

// LoadHostSearchResult reads a host-search-result at addr.
func LoadHostSearchResult(mem pluginabi.Memory, addr uint32) (HostSearchResult, error) {
	fields := layout.HostSearchResult.Fields
	var s [6]HostString
	for i := range s {
		n, err := mem.ReadU32(addr + fields[2*i].Offset)
		if err != nil {
			return HostSearchResult{}, err
		}
		ptr, err := mem.ReadU32(addr + fields[2*i+1].Offset)
		if err != nil {
			return HostSearchResult{}, err
		}
		s[i] = HostString{Length: int32(n), Ptr: ptr}
	}
	return hostSearchResultFrom(s), nil
}

// StoreCContextMenuResult writes c at addr using the
// c-context-menu-result layout.
func StoreCContextMenuResult(mem pluginabi.Memory, addr uint32, c CContextMenuResult) error {
	fields := layout.CContextMenuResult.Fields
	for i, h := range c.handles() {
		if err := mem.WriteU32(addr+fields[i].Offset, h.Ptr()); err != nil {
			return err
		}
	}
	if err := mem.WriteU32(addr+fields[4].Offset, uint32(c.AcceleratorKey)); err != nil {
		return err
	}
	return mem.WriteU32(addr+fields[5].Offset, uint32(c.AcceleratorModifiers))
}

// LoadCContextMenuResult reads a c-context-menu-result at addr.
func LoadCContextMenuResult(mem pluginabi.Memory, addr uint32) (CContextMenuResult, error) {
	fields := layout.CContextMenuResult.Fields
	var v [6]uint32
	for i := range v {
		x, err := mem.ReadU32(addr + fields[i].Offset)
		if err != nil {
			return CContextMenuResult{}, err
		}
		v[i] = x
	}
	return CContextMenuResult{
		PluginName:           codec.Adopt(v[0]),
		Title:                codec.Adopt(v[1]),
		FontFamily:           codec.Adopt(v[2]),
		Glyph:                codec.Adopt(v[3]),
		AcceleratorKey:       int32(v[4]),
		AcceleratorModifiers: int32(v[5]),
	}, nil
}
