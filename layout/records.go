package layout

import (
	"go.bytecodealliance.org/wit"
)

// Field is a record field with its resolved offset.
type Field struct {
	Type   wit.Type
	Name   string
	Offset uint32
}

// Record is a compiled record layout with fields in declaration order.
type Record struct {
	Name   string
	Fields []Field
	Size   uint32
	Align  uint32
}

// Compile resolves the layout of a record type definition.
// It panics if td is not a record; the descriptions are fixed at build time.
func Compile(td *wit.TypeDef) Record {
	r, ok := td.Kind.(*wit.Record)
	if !ok {
		panic("layout: " + typeName(td) + " is not a record")
	}
	info := NewCalculator().Calculate(td)

	rec := Record{
		Name:   typeName(td),
		Size:   info.Size,
		Align:  info.Align,
		Fields: make([]Field, len(r.Fields)),
	}
	for i, f := range r.Fields {
		rec.Fields[i] = Field{Name: f.Name, Type: f.Type, Offset: info.FieldOffs[f.Name]}
	}
	return rec
}

// Offset returns the offset of the named field.
func (r Record) Offset(name string) (uint32, bool) {
	for _, f := range r.Fields {
		if f.Name == name {
			return f.Offset, true
		}
	}
	return 0, false
}

func typeName(td *wit.TypeDef) string {
	if td.Name != nil {
		return *td.Name
	}
	return "<anonymous>"
}

func named(name string, fields ...wit.Field) *wit.TypeDef {
	return &wit.TypeDef{
		Name: &name,
		Kind: &wit.Record{Fields: fields},
	}
}

func handle(name string) wit.Field {
	return wit.Field{Name: name, Type: wit.U32{}}
}

// hostString expands to the (length, ptr) pair the host sends per string.
func hostString(name string) []wit.Field {
	return []wit.Field{
		{Name: name + "-length", Type: wit.S32{}},
		{Name: name, Type: wit.U32{}},
	}
}

// Search result field names in boundary order.
var SearchResultFields = []string{
	"query-text-display",
	"ico-path",
	"title",
	"subtitle",
	"tooltip-a",
	"tooltip-b",
}

// Context menu string field names in boundary order.
var ContextMenuStringFields = []string{
	"plugin-name",
	"title",
	"font-family",
	"glyph",
}

var (
	// CSearchResultType is the plugin-to-host search result.
	CSearchResultType = func() *wit.TypeDef {
		fields := make([]wit.Field, 0, len(SearchResultFields))
		for _, n := range SearchResultFields {
			fields = append(fields, handle(n))
		}
		return named("c-search-result", fields...)
	}()

	// HostSearchResultType is the host-to-plugin search result with
	// length-framed UTF-16 fields.
	HostSearchResultType = func() *wit.TypeDef {
		fields := make([]wit.Field, 0, 2*len(SearchResultFields))
		for _, n := range SearchResultFields {
			fields = append(fields, hostString(n)...)
		}
		return named("host-search-result", fields...)
	}()

	// CContextMenuResultType is the plugin-to-host context menu entry.
	CContextMenuResultType = func() *wit.TypeDef {
		fields := make([]wit.Field, 0, len(ContextMenuStringFields)+2)
		for _, n := range ContextMenuStringFields {
			fields = append(fields, handle(n))
		}
		fields = append(fields,
			wit.Field{Name: "accelerator-key", Type: wit.S32{}},
			wit.Field{Name: "accelerator-modifiers", Type: wit.S32{}},
		)
		return named("c-context-menu-result", fields...)
	}()

	// CollectionType is the {len, ptr} header of a record block.
	CollectionType = named("collection",
		wit.Field{Name: "len", Type: wit.U32{}},
		handle("ptr"),
	)
)

// Compiled layouts of the boundary structs.
var (
	CSearchResult      = Compile(CSearchResultType)
	HostSearchResult   = Compile(HostSearchResultType)
	CContextMenuResult = Compile(CContextMenuResultType)
	Collection         = Compile(CollectionType)
)
