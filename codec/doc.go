// Package codec converts strings between the host's UTF-16 representation
// and the plugin's UTF-8 representation.
//
// Host strings arrive as a pointer to UTF-16LE code units and a signed code
// unit count. They are never NUL-terminated, and may contain a 0x0000 unit
// that must not be read as a terminator. TakeHostString decodes them and
// releases the host buffer: passing a string to the plugin hands it over.
//
// Plugin strings leave as a single handle to a NUL-terminated UTF-8 buffer
// allocated with the plugin allocator. The host scans for the terminator and
// must return the handle through ReleaseCString exactly once.
//
// Every call allocates fresh memory. Nothing is cached.
//
// # Faults
//
// Unpaired surrogates, negative lengths, out-of-bounds buffers, strings the
// host could not terminate (interior NUL, invalid UTF-8) and allocation
// failure are contract violations. They panic with an *errors.Error.
package codec
