// Package reverse is a small example plugin. It answers every query with the
// query reversed and a summary of its characters.
package reverse

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/wippyai/plugin-abi/binding"
	"github.com/wippyai/plugin-abi/record"
)

// Info identifies the plugin.
var Info = binding.Info{
	ID:          "5F1B3C2E9A4D4E7B8C6A1D0F2E3B4A59",
	Name:        "Reverse",
	Description: "Reverses the query and counts its characters",
}

// Icon shown next to every result.
const Icon = "Images\\reverse.png"

// Segoe MDL2 glyphs used by the context menu.
const (
	GlyphCopy = "\uE8C8"
	GlyphOpen = "\uE8A7"
)

// Accelerator keys and modifiers, as virtual-key codes.
const (
	KeyC       = 0x43
	KeyEnter   = 0x0D
	ModControl = 0x0002
	ModShift   = 0x0004
)

// FontFamilyUI is the icon font the glyphs come from.
const FontFamilyUI = "/Resources/#Segoe Fluent Icons"

// Plugin implements binding.Plugin.
type Plugin struct{}

// New returns the reverse plugin.
func New() binding.Plugin {
	return Plugin{}
}

// Search returns nothing for a blank query, otherwise the reversed query
// followed by a statistics line.
func (Plugin) Search(query string) []record.SearchResult {
	if strings.TrimSpace(query) == "" {
		return nil
	}

	reversed := Reverse(query)
	st := Count(query)
	return []record.SearchResult{
		{
			QueryTextDisplay: query,
			IcoPath:          Icon,
			Title:            reversed,
			Subtitle:         "Reversed",
			Tooltip: record.Tooltip{
				Primary:   reversed,
				Secondary: query,
			},
		},
		{
			QueryTextDisplay: query,
			IcoPath:          Icon,
			Title:            st.String(),
			Subtitle:         "Characters",
			Tooltip: record.Tooltip{
				Primary:   fmt.Sprintf("%d bytes of UTF-8", len(query)),
				Secondary: fmt.Sprintf("%d UTF-16 code units", st.UTF16Units),
			},
		},
	}
}

// ContextMenu offers to copy the title and to open the original query.
func (Plugin) ContextMenu(r record.SearchResult) []record.ContextMenuResult {
	return []record.ContextMenuResult{
		{
			PluginName:           Info.Name,
			Title:                "Copy " + r.Title,
			FontFamily:           FontFamilyUI,
			Glyph:                GlyphCopy,
			AcceleratorKey:       KeyC,
			AcceleratorModifiers: ModControl,
		},
		{
			PluginName:           Info.Name,
			Title:                "Search for " + r.QueryTextDisplay,
			FontFamily:           FontFamilyUI,
			Glyph:                GlyphOpen,
			AcceleratorKey:       KeyEnter,
			AcceleratorModifiers: ModControl | ModShift,
		},
	}
}

// Reverse reverses s by code point.
func Reverse(s string) string {
	r := []rune(s)
	for i, j := 0, len(r)-1; i < j; i, j = i+1, j-1 {
		r[i], r[j] = r[j], r[i]
	}
	return string(r)
}

// Stats counts the characters of a query.
type Stats struct {
	Runes      int
	Letters    int
	Digits     int
	Spaces     int
	UTF16Units int
}

// Count computes Stats for s.
func Count(s string) Stats {
	var st Stats
	for _, r := range s {
		st.Runes++
		st.UTF16Units++
		if r > 0xFFFF {
			st.UTF16Units++
		}
		switch {
		case unicode.IsLetter(r):
			st.Letters++
		case unicode.IsDigit(r):
			st.Digits++
		case unicode.IsSpace(r):
			st.Spaces++
		}
	}
	return st
}

func (s Stats) String() string {
	return fmt.Sprintf("%d characters: %d letters, %d digits, %d spaces", s.Runes, s.Letters, s.Digits, s.Spaces)
}

