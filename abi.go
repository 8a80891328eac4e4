package pluginabi

// Handle is a 32-bit offset into the boundary's linear memory.
// Handle 0 is the null handle and is never returned by an allocator.
type Handle = uint32

// Memory represents the linear memory shared by host and plugin
type Memory interface {
	Read(offset uint32, length uint32) ([]byte, error)
	Write(offset uint32, data []byte) error
	ReadU8(offset uint32) (uint8, error)
	ReadU16(offset uint32) (uint16, error)
	ReadU32(offset uint32) (uint32, error)
	ReadU64(offset uint32) (uint64, error)
	WriteU8(offset uint32, value uint8) error
	WriteU16(offset uint32, value uint16) error
	WriteU32(offset uint32, value uint32) error
	WriteU64(offset uint32, value uint64) error
}

// MemorySizer provides the current size of linear memory in bytes.
type MemorySizer interface {
	Size() uint32
}

// MemoryGrower is implemented by memories that can grow in 64KiB pages.
// Grow returns the previous size in pages, or false if the memory cannot grow.
type MemoryGrower interface {
	Grow(deltaPages uint32) (previousPages uint32, ok bool)
}

// Allocator allocates memory in linear memory on behalf of the plugin.
type Allocator interface {
	Alloc(size, align uint32) (uint32, error)
	Free(ptr, size, align uint32)
}

// PageSize is the linear memory page size in bytes.
const PageSize = 65536

// MaxPages is the largest memory whose size in bytes fits in a uint32.
const MaxPages = 65535
