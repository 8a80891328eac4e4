package record

import (
	"github.com/wippyai/plugin-abi/codec"
)

// Tooltip is the two-line tooltip shown for a search result.
type Tooltip struct {
	Primary   string
	Secondary string
}

// SearchResult is a single search hit as produced by a plugin.
type SearchResult struct {
	QueryTextDisplay string
	IcoPath          string
	Title            string
	Subtitle         string
	Tooltip          Tooltip
}

// ContextMenuResult is one entry of a result's context menu.
type ContextMenuResult struct {
	PluginName           string
	Title                string
	FontFamily           string
	Glyph                string
	AcceleratorKey       int32
	AcceleratorModifiers int32
}

// CSearchResult is the flat search result handed to the host.
type CSearchResult struct {
	QueryTextDisplay codec.CString
	IcoPath          codec.CString
	Title            codec.CString
	Subtitle         codec.CString
	TooltipA         codec.CString
	TooltipB         codec.CString
}

// HostString is a length-framed UTF-16 string owned by the host until it
// is passed to the plugin.
type HostString struct {
	Length int32
	Ptr    uint32
}

// HostSearchResult is a search result the host sends back, for example to
// ask for its context menu.
type HostSearchResult struct {
	QueryTextDisplay HostString
	IcoPath          HostString
	Title            HostString
	Subtitle         HostString
	TooltipA         HostString
	TooltipB         HostString
}

// CContextMenuResult is the flat context menu entry handed to the host.
type CContextMenuResult struct {
	PluginName           codec.CString
	Title                codec.CString
	FontFamily           codec.CString
	Glyph                codec.CString
	AcceleratorKey       int32
	AcceleratorModifiers int32
}

func (r SearchResult) fields() [6]string {
	return [6]string{r.QueryTextDisplay, r.IcoPath, r.Title, r.Subtitle, r.Tooltip.Primary, r.Tooltip.Secondary}
}

func searchResultFrom(f [6]string) SearchResult {
	return SearchResult{
		QueryTextDisplay: f[0],
		IcoPath:          f[1],
		Title:            f[2],
		Subtitle:         f[3],
		Tooltip:          Tooltip{Primary: f[4], Secondary: f[5]},
	}
}

func (c CSearchResult) handles() [6]codec.CString {
	return [6]codec.CString{c.QueryTextDisplay, c.IcoPath, c.Title, c.Subtitle, c.TooltipA, c.TooltipB}
}

func cSearchResultFrom(h [6]codec.CString) CSearchResult {
	return CSearchResult{
		QueryTextDisplay: h[0],
		IcoPath:          h[1],
		Title:            h[2],
		Subtitle:         h[3],
		TooltipA:         h[4],
		TooltipB:         h[5],
	}
}

func (h HostSearchResult) strings() [6]HostString {
	return [6]HostString{h.QueryTextDisplay, h.IcoPath, h.Title, h.Subtitle, h.TooltipA, h.TooltipB}
}

func hostSearchResultFrom(s [6]HostString) HostSearchResult {
	return HostSearchResult{
		QueryTextDisplay: s[0],
		IcoPath:          s[1],
		Title:            s[2],
		Subtitle:         s[3],
		TooltipA:         s[4],
		TooltipB:         s[5],
	}
}

func (r ContextMenuResult) strings() [4]string {
	return [4]string{r.PluginName, r.Title, r.FontFamily, r.Glyph}
}

func (c CContextMenuResult) handles() [4]codec.CString {
	return [4]codec.CString{c.PluginName, c.Title, c.FontFamily, c.Glyph}
}
