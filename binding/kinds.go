package binding

import (
	"github.com/wippyai/plugin-abi/collection"
	"github.com/wippyai/plugin-abi/layout"
	"github.com/wippyai/plugin-abi/record"
)

// SearchResults describes blocks returned by Search.
var SearchResults = collection.Kind[record.CSearchResult]{
	Layout: layout.CSearchResult,
	Store:  record.StoreCSearchResult,
	Load:   record.LoadCSearchResult,
}

// ContextMenuResults describes blocks returned by ContextMenu.
var ContextMenuResults = collection.Kind[record.CContextMenuResult]{
	Layout: layout.CContextMenuResult,
	Store:  record.StoreCContextMenuResult,
	Load:   record.LoadCContextMenuResult,
}
