package codec

import (
	"strings"
	"unicode/utf16"
	"unicode/utf8"

	pluginabi "github.com/wippyai/plugin-abi"
	"github.com/wippyai/plugin-abi/errors"
)

// MaxHostUnits bounds the code unit count of a single host string.
const MaxHostUnits = 1 << 24

// CString is an owned handle to a NUL-terminated UTF-8 buffer in boundary
// memory. It is produced by EncodeForHost and consumed by ReleaseCString.
// The zero value is the null handle.
type CString struct {
	ptr uint32
}

// Ptr returns the raw handle passed across the boundary.
func (s CString) Ptr() uint32 {
	return s.ptr
}

// IsNull reports whether s is the null handle.
func (s CString) IsNull() bool {
	return s.ptr == 0
}

// Adopt takes back a raw handle the host returned for release. The handle
// must have been produced by EncodeForHost.
func Adopt(ptr uint32) CString {
	return CString{ptr: ptr}
}

// TakeHostString decodes length UTF-16 code units at ptr and frees the host
// buffer. path names the field in fault reports.
func TakeHostString(mem pluginabi.Memory, alloc pluginabi.Allocator, ptr uint32, length int32, path ...string) string {
	if length < 0 {
		errors.Fatal(errors.NegativeLength(errors.PhaseDecode, path, length))
	}
	if length > MaxHostUnits {
		errors.Fatal(errors.Overflow(errors.PhaseDecode, path, length, "host string"))
	}
	if length == 0 {
		if ptr != 0 {
			alloc.Free(ptr, 0, 2)
		}
		return ""
	}
	if ptr == 0 {
		errors.Fatal(errors.New(errors.PhaseDecode, errors.KindNilPointer).
			Path(path...).
			Detail("null buffer with length %d", length).
			Build())
	}

	size := uint32(length) * 2
	raw, err := mem.Read(ptr, size)
	if err != nil {
		errors.Fatal(errors.New(errors.PhaseDecode, errors.KindOutOfBounds).
			Path(path...).
			Cause(err).
			Detail("read %d code units at %d", length, ptr).
			Build())
	}

	units := make([]uint16, length)
	for i := range units {
		units[i] = uint16(raw[2*i]) | uint16(raw[2*i+1])<<8
	}
	s := DecodeUTF16(units, path...)

	alloc.Free(ptr, size, 2)
	return s
}

// DecodeUTF16 converts code units to UTF-8, faulting on unpaired surrogates.
func DecodeUTF16(units []uint16, path ...string) string {
	buf := make([]byte, 0, len(units))
	for i := 0; i < len(units); i++ {
		u := units[i]
		if !utf16.IsSurrogate(rune(u)) {
			buf = utf8.AppendRune(buf, rune(u))
			continue
		}
		if u < 0xDC00 && i+1 < len(units) {
			if r := utf16.DecodeRune(rune(u), rune(units[i+1])); r != utf8.RuneError {
				buf = utf8.AppendRune(buf, r)
				i++
				continue
			}
		}
		errors.Fatal(errors.InvalidUTF16(errors.PhaseDecode, path, u, i))
	}
	return string(buf)
}

// EncodeForHost copies s into a new NUL-terminated buffer owned by the
// caller. The empty string allocates a one-byte buffer.
func EncodeForHost(mem pluginabi.Memory, alloc pluginabi.Allocator, s string, path ...string) CString {
	if !utf8.ValidString(s) {
		errors.Fatal(errors.InvalidUTF8(errors.PhaseEncode, path, []byte(s)))
	}
	if i := strings.IndexByte(s, 0); i >= 0 {
		errors.Fatal(errors.InteriorNUL(errors.PhaseEncode, path, i))
	}
	if uint64(len(s))+1 > 1<<32-1 {
		errors.Fatal(errors.Overflow(errors.PhaseEncode, path, len(s), "u32"))
	}

	size := uint32(len(s)) + 1
	ptr, err := alloc.Alloc(size, 1)
	if err != nil || ptr == 0 {
		fault := errors.AllocationFailed(errors.PhaseEncode, size, 1)
		fault.Path = path
		fault.Cause = err
		errors.Fatal(fault)
	}

	buf := make([]byte, size)
	copy(buf, s)
	if err := mem.Write(ptr, buf); err != nil {
		errors.Fatal(errors.New(errors.PhaseEncode, errors.KindOutOfBounds).
			Path(path...).
			Cause(err).
			Build())
	}
	return CString{ptr: ptr}
}

// ReleaseCString frees a buffer produced by EncodeForHost.
// Releasing the null handle is a no-op.
func ReleaseCString(mem pluginabi.Memory, alloc pluginabi.Allocator, s CString) {
	if s.ptr == 0 {
		return
	}
	n, err := scan(mem, s.ptr)
	if err != nil {
		errors.Fatal(errors.New(errors.PhaseRelease, errors.KindOutOfBounds).
			Cause(err).
			Detail("unterminated string at %d", s.ptr).
			Build())
	}
	alloc.Free(s.ptr, n+1, 1)
}

// ReadCString copies the NUL-terminated string at ptr. It is the host's
// view of a plugin string and reports problems as errors.
func ReadCString(mem pluginabi.Memory, ptr uint32) (string, error) {
	if ptr == 0 {
		return "", errors.New(errors.PhaseDecode, errors.KindNilPointer).
			Detail("null string handle").
			Build()
	}
	n, err := scan(mem, ptr)
	if err != nil {
		return "", errors.New(errors.PhaseDecode, errors.KindOutOfBounds).
			Cause(err).
			Detail("unterminated string at %d", ptr).
			Build()
	}
	data, err := mem.Read(ptr, n)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

const scanChunk = 64

// scan returns the length of the string at ptr, excluding the terminator.
func scan(mem pluginabi.Memory, ptr uint32) (uint32, error) {
	limit := uint32(1<<32 - 1)
	if sz, ok := mem.(pluginabi.MemorySizer); ok {
		limit = sz.Size()
	}

	var n uint32
	for off := ptr; off < limit; {
		chunk := uint32(scanChunk)
		if limit-off < chunk {
			chunk = limit - off
		}
		data, err := mem.Read(off, chunk)
		if err != nil {
			return 0, err
		}
		for _, b := range data {
			if b == 0 {
				return n, nil
			}
			n++
		}
		off += chunk
	}
	return 0, errors.OutOfBounds(errors.PhaseDecode, nil, ptr, n)
}
