// Package binding implements the entry points a host calls on a plugin.
//
// A Binding is built once per plugin from its identity strings and its two
// callbacks. Each entry point is a self-contained, synchronous call:
//
//	PluginInfo(which)    0=id 1=name 2=description, other → ""
//	Search(ptr, len)     decode query → plugin.Search → pack results
//	ContextMenu(result)  decode record → plugin.ContextMenu → pack entries
//
// Every allocation family has a release entry point whose argument mirrors
// what was returned:
//
//	FreeString              one string from PluginInfo or inside a record
//	DropSearch              the block returned by Search
//	DropSearchResult        the six strings of one search record
//	DropContextMenu         the block returned by ContextMenu
//	DropContextMenuResult   the four strings of one context menu record
//
// A host that is done with a search drops the collection and then each
// record it copied out of it, or each record first and then the
// collection. Releasing only one of the two leaks.
//
// # Plugins
//
// Implement Plugin, or adapt two functions with Funcs:
//
//	b := binding.New(info, binding.Funcs{
//	    SearchFunc:      search,
//	    ContextMenuFunc: menu,
//	}, mem, heap)
//
// The callbacks must be total. A panic inside them propagates to the host.
// Binding keeps no state between calls; concurrent calls are as safe as the
// callbacks are.
package binding
