package host

import (
	"fmt"

	"golang.org/x/text/encoding/unicode"

	"github.com/wippyai/plugin-abi/binding"
	"github.com/wippyai/plugin-abi/codec"
	"github.com/wippyai/plugin-abi/collection"
	"github.com/wippyai/plugin-abi/record"
)

// Client drives a Binding the way a host would.
type Client struct {
	b *binding.Binding
}

// NewClient creates a client for b.
func NewClient(b *binding.Binding) *Client {
	return &Client{b: b}
}

// EncodeUTF16 returns s as little-endian UTF-16 code units without a BOM.
func EncodeUTF16(s string) ([]byte, error) {
	enc := unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewEncoder()
	out, err := enc.String(s)
	if err != nil {
		return nil, fmt.Errorf("encode utf-16: %w", err)
	}
	return []byte(out), nil
}

// PutString writes s into a fresh host buffer. Ownership passes to the
// plugin when the buffer is handed to an entry point.
func (c *Client) PutString(s string) (record.HostString, error) {
	data, err := EncodeUTF16(s)
	if err != nil {
		return record.HostString{}, err
	}
	if len(data) == 0 {
		return record.HostString{}, nil
	}

	ptr, err := c.b.Allocator().Alloc(uint32(len(data)), 2)
	if err != nil {
		return record.HostString{}, fmt.Errorf("allocate host string: %w", err)
	}
	if err := c.b.Memory().Write(ptr, data); err != nil {
		c.b.Allocator().Free(ptr, uint32(len(data)), 2)
		return record.HostString{}, fmt.Errorf("write host string: %w", err)
	}
	return record.HostString{Length: int32(len(data) / 2), Ptr: ptr}, nil
}

// PutSearchResult writes every field of r into host buffers.
func (c *Client) PutSearchResult(r record.SearchResult) (record.HostSearchResult, error) {
	fields := []string{r.QueryTextDisplay, r.IcoPath, r.Title, r.Subtitle, r.Tooltip.Primary, r.Tooltip.Secondary}
	put := make([]record.HostString, len(fields))
	for i, f := range fields {
		hs, err := c.PutString(f)
		if err != nil {
			for _, done := range put[:i] {
				c.discard(done)
			}
			return record.HostSearchResult{}, err
		}
		put[i] = hs
	}
	return record.HostSearchResult{
		QueryTextDisplay: put[0],
		IcoPath:          put[1],
		Title:            put[2],
		Subtitle:         put[3],
		TooltipA:         put[4],
		TooltipB:         put[5],
	}, nil
}

func (c *Client) discard(hs record.HostString) {
	if hs.Ptr != 0 {
		c.b.Allocator().Free(hs.Ptr, uint32(hs.Length)*2, 2)
	}
}

// Info queries the three identity strings.
func (c *Client) Info() (binding.Info, error) {
	var f [3]string
	for i := range f {
		s, err := c.takeString(c.b.PluginInfo(uint8(i)))
		if err != nil {
			return binding.Info{}, err
		}
		f[i] = s
	}
	return binding.Info{ID: f[0], Name: f[1], Description: f[2]}, nil
}

// InfoField queries a single identity string by tag.
func (c *Client) InfoField(which uint8) (string, error) {
	return c.takeString(c.b.PluginInfo(which))
}

func (c *Client) takeString(cs codec.CString) (string, error) {
	defer c.b.FreeString(cs)
	return codec.ReadCString(c.b.Memory(), cs.Ptr())
}

// Search runs query through the plugin and returns copies of the results.
// Every allocation made by the call is released before Search returns.
func (c *Client) Search(query string) ([]record.SearchResult, error) {
	q, err := c.PutString(query)
	if err != nil {
		return nil, err
	}
	block := c.b.Search(q.Ptr, q.Length)

	recs, err := collection.Load(c.b.Memory(), block, binding.SearchResults)
	if err != nil {
		return nil, err
	}
	c.b.DropSearch(block)

	out := make([]record.SearchResult, 0, len(recs))
	var firstErr error
	for _, r := range recs {
		sr, err := record.ReadSearchResult(c.b.Memory(), r)
		if err != nil && firstErr == nil {
			firstErr = err
		}
		out = append(out, sr)
		c.b.DropSearchResult(r)
	}
	if firstErr != nil {
		return nil, firstErr
	}
	return out, nil
}

// ContextMenu sends r back to the plugin and returns copies of its menu
// entries, releasing everything the call allocated.
func (c *Client) ContextMenu(r record.SearchResult) ([]record.ContextMenuResult, error) {
	h, err := c.PutSearchResult(r)
	if err != nil {
		return nil, err
	}
	block := c.b.ContextMenu(h)

	recs, err := collection.Load(c.b.Memory(), block, binding.ContextMenuResults)
	if err != nil {
		return nil, err
	}
	c.b.DropContextMenu(block)

	out := make([]record.ContextMenuResult, 0, len(recs))
	var firstErr error
	for _, r := range recs {
		cm, err := record.ReadContextMenuResult(c.b.Memory(), r)
		if err != nil && firstErr == nil {
			firstErr = err
		}
		out = append(out, cm)
		c.b.DropContextMenuResult(r)
	}
	if firstErr != nil {
		return nil, firstErr
	}
	return out, nil
}
