// Package host is a host-side harness for plugin bindings.
//
// Client plays the role of the launcher: it encodes strings as UTF-16LE in
// boundary memory, calls the entry points, copies every returned value out
// and releases it in protocol order. The CLI and the integration tests use
// it; a real host reimplements the same steps in its own language.
//
// Host buffers are allocated with the binding's allocator because the
// plugin frees them when it decodes them.
package host
