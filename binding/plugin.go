package binding

import (
	"github.com/wippyai/plugin-abi/record"
)

// Plugin is the search logic a plugin supplies.
type Plugin interface {
	// Search returns results in display order. It must not retain query.
	Search(query string) []record.SearchResult

	// ContextMenu returns the menu entries for a result in display order.
	ContextMenu(result record.SearchResult) []record.ContextMenuResult
}

// Funcs adapts two plain functions to Plugin.
// A nil function behaves as one that returns no entries.
type Funcs struct {
	SearchFunc      func(query string) []record.SearchResult
	ContextMenuFunc func(result record.SearchResult) []record.ContextMenuResult
}

func (f Funcs) Search(query string) []record.SearchResult {
	if f.SearchFunc == nil {
		return nil
	}
	return f.SearchFunc(query)
}

func (f Funcs) ContextMenu(result record.SearchResult) []record.ContextMenuResult {
	if f.ContextMenuFunc == nil {
		return nil
	}
	return f.ContextMenuFunc(result)
}

// Info holds the plugin identity strings.
type Info struct {
	ID          string
	Name        string
	Description string
}

// Identity query tags accepted by PluginInfo.
const (
	InfoID          uint8 = 0
	InfoName        uint8 = 1
	InfoDescription uint8 = 2
)

// Field returns the identity string for a tag, or "" for unknown tags.
func (i Info) Field(which uint8) string {
	switch which {
	case InfoID:
		return i.ID
	case InfoName:
		return i.Name
	case InfoDescription:
		return i.Description
	default:
		return ""
	}
}
