package layout

import (
	"testing"

	"go.bytecodealliance.org/wit"
)

func TestBoundaryLayouts(t *testing.T) {
	tests := []struct {
		rec    Record
		name   string
		size   uint32
		fields int
	}{
		{CSearchResult, "c-search-result", 24, 6},
		{HostSearchResult, "host-search-result", 48, 12},
		{CContextMenuResult, "c-context-menu-result", 24, 6},
		{Collection, "collection", 8, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.rec.Name != tt.name {
				t.Errorf("Name = %q", tt.rec.Name)
			}
			if tt.rec.Size != tt.size || tt.rec.Align != 4 {
				t.Errorf("size=%d align=%d, want %d/4", tt.rec.Size, tt.rec.Align, tt.size)
			}
			if len(tt.rec.Fields) != tt.fields {
				t.Fatalf("fields = %d, want %d", len(tt.rec.Fields), tt.fields)
			}
			// no padding: fields are packed at 4-byte strides
			for i, f := range tt.rec.Fields {
				if f.Offset != uint32(i)*4 {
					t.Errorf("field %s at %d, want %d", f.Name, f.Offset, i*4)
				}
			}
		})
	}
}

func TestHostSearchResultPairs(t *testing.T) {
	for i, name := range SearchResultFields {
		lenOff, ok := HostSearchResult.Offset(name + "-length")
		if !ok {
			t.Fatalf("missing %s-length", name)
		}
		ptrOff, _ := HostSearchResult.Offset(name)
		if lenOff != uint32(i)*8 || ptrOff != lenOff+4 {
			t.Errorf("%s: length at %d, ptr at %d", name, lenOff, ptrOff)
		}
	}
}

func TestContextMenuIntegersFollowHandles(t *testing.T) {
	key, ok := CContextMenuResult.Offset("accelerator-key")
	if !ok || key != 16 {
		t.Errorf("accelerator-key at %d", key)
	}
	mods, _ := CContextMenuResult.Offset("accelerator-modifiers")
	if mods != 20 {
		t.Errorf("accelerator-modifiers at %d", mods)
	}
	if _, ok := CContextMenuResult.Offset("missing"); ok {
		t.Error("unknown field reported present")
	}
}

func TestCompileRejectsNonRecord(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for non-record type")
		}
	}()
	Compile(&wit.TypeDef{Kind: wit.U32{}})
}
