package engine

import (
	"context"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"go.uber.org/zap"

	"github.com/wippyai/plugin-abi/binding"
	"github.com/wippyai/plugin-abi/codec"
	"github.com/wippyai/plugin-abi/collection"
	"github.com/wippyai/plugin-abi/errors"
	"github.com/wippyai/plugin-abi/record"
)

// DefaultModuleName is the import module guests use for the plugin ABI.
const DefaultModuleName = "plugin_abi"

// Export names of the entry points.
const (
	FuncGetPluginInfo         = "get_plugin_info"
	FuncInitSearch            = "init_search"
	FuncGetContextMenu        = "get_context_menu"
	FuncFreeCString           = "free_c_string"
	FuncDropSearch            = "drop_search"
	FuncDropSearchResult      = "drop_search_result"
	FuncDropContextMenuResult = "drop_context_menu_result"
	FuncDropContextMenu       = "drop_context_menu"
)

type hostFunc struct {
	fn      api.GoModuleFunc
	name    string
	params  []string
	results []api.ValueType
}

// HostModuleBuilder collects the entry points for one host module.
type HostModuleBuilder struct {
	runtime wazero.Runtime
	resolve Resolver
	name    string
}

// NewHostModule starts building the plugin ABI host module. resolve is
// usually (*Guests).Resolve. An empty name selects DefaultModuleName.
func NewHostModule(r wazero.Runtime, name string, resolve Resolver) *HostModuleBuilder {
	if name == "" {
		name = DefaultModuleName
	}
	return &HostModuleBuilder{runtime: r, name: name, resolve: resolve}
}

// Build instantiates the host module into the wazero runtime.
func (b *HostModuleBuilder) Build(ctx context.Context) (api.Module, error) {
	builder := b.runtime.NewHostModuleBuilder(b.name)

	for _, f := range b.funcs() {
		params := make([]api.ValueType, len(f.params))
		for i := range params {
			params[i] = api.ValueTypeI32
		}
		builder.NewFunctionBuilder().
			WithGoModuleFunction(f.fn, params, f.results).
			WithParameterNames(f.params...).
			Export(f.name)
	}

	mod, err := builder.Instantiate(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseHost, errors.KindRegistration, err, "instantiate host module "+b.name)
	}
	Logger().Debug("host module registered", zap.String("module", b.name))
	return mod, nil
}

func (b *HostModuleBuilder) funcs() []hostFunc {
	i32 := []api.ValueType{api.ValueTypeI32}
	return []hostFunc{
		{name: FuncGetPluginInfo, params: []string{"which"}, results: i32, fn: b.getPluginInfo},
		{name: FuncInitSearch, params: []string{"query_ptr", "query_len", "retptr"}, fn: b.initSearch},
		{name: FuncGetContextMenu, params: []string{"record_ptr", "retptr"}, fn: b.getContextMenu},
		{name: FuncFreeCString, params: []string{"str"}, fn: b.freeCString},
		{name: FuncDropSearch, params: []string{"len", "ptr"}, fn: b.dropSearch},
		{name: FuncDropSearchResult, params: []string{"record_ptr"}, fn: b.dropSearchResult},
		{name: FuncDropContextMenuResult, params: []string{"record_ptr"}, fn: b.dropContextMenuResult},
		{name: FuncDropContextMenu, params: []string{"len", "ptr"}, fn: b.dropContextMenu},
	}
}

func (b *HostModuleBuilder) getPluginInfo(ctx context.Context, mod api.Module, stack []uint64) {
	bd := b.resolve(ctx, mod)
	// which is a u8 tag at the boundary; wider values select no field
	which := api.DecodeU32(stack[0])
	tag := uint8(255)
	if which <= 255 {
		tag = uint8(which)
	}
	stack[0] = api.EncodeU32(bd.PluginInfo(tag).Ptr())
}

func (b *HostModuleBuilder) initSearch(ctx context.Context, mod api.Module, stack []uint64) {
	bd := b.resolve(ctx, mod)
	ptr := api.DecodeU32(stack[0])
	length := api.DecodeI32(stack[1])
	retptr := api.DecodeU32(stack[2])

	c := bd.Search(ptr, length)
	storeHeader(bd, retptr, c)
}

func (b *HostModuleBuilder) getContextMenu(ctx context.Context, mod api.Module, stack []uint64) {
	bd := b.resolve(ctx, mod)
	recPtr := api.DecodeU32(stack[0])
	retptr := api.DecodeU32(stack[1])

	h, err := record.LoadHostSearchResult(bd.Memory(), recPtr)
	if err != nil {
		fatalMemory(err, "host-search-result")
	}
	c := bd.ContextMenu(h)
	storeHeader(bd, retptr, c)
}

func (b *HostModuleBuilder) freeCString(ctx context.Context, mod api.Module, stack []uint64) {
	bd := b.resolve(ctx, mod)
	bd.FreeString(codec.Adopt(api.DecodeU32(stack[0])))
}

func (b *HostModuleBuilder) dropSearch(ctx context.Context, mod api.Module, stack []uint64) {
	bd := b.resolve(ctx, mod)
	bd.DropSearch(collection.Adopt(api.DecodeU32(stack[0]), api.DecodeU32(stack[1])))
}

func (b *HostModuleBuilder) dropSearchResult(ctx context.Context, mod api.Module, stack []uint64) {
	bd := b.resolve(ctx, mod)
	r, err := record.LoadCSearchResult(bd.Memory(), api.DecodeU32(stack[0]))
	if err != nil {
		fatalMemory(err, "c-search-result")
	}
	bd.DropSearchResult(r)
}

func (b *HostModuleBuilder) dropContextMenuResult(ctx context.Context, mod api.Module, stack []uint64) {
	bd := b.resolve(ctx, mod)
	r, err := record.LoadCContextMenuResult(bd.Memory(), api.DecodeU32(stack[0]))
	if err != nil {
		fatalMemory(err, "c-context-menu-result")
	}
	bd.DropContextMenuResult(r)
}

func (b *HostModuleBuilder) dropContextMenu(ctx context.Context, mod api.Module, stack []uint64) {
	bd := b.resolve(ctx, mod)
	bd.DropContextMenu(collection.Adopt(api.DecodeU32(stack[0]), api.DecodeU32(stack[1])))
}

func storeHeader(bd *binding.Binding, retptr uint32, c collection.Collection) {
	if err := collection.StoreHeader(bd.Memory(), retptr, c); err != nil {
		fatalMemory(err, "retptr")
	}
}

func fatalMemory(err error, what string) {
	errors.Fatal(errors.New(errors.PhaseHost, errors.KindOutOfBounds).
		Path(what).
		Cause(err).
		Build())
}
