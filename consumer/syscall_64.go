//go:build windows && (amd64 || arm64)
// +build windows
// +build amd64 arm64

package consumer

func uint64Args(v uint64) []uintptr {
	return []uintptr{uintptr(v)}
}

func uint64Result(r0, _ uintptr) uint64 {
	return uint64(r0)
}

// Go already lays out EVENT_TRACE and TRACE_LOGFILE_HEADER like MSVC here.
const (
	eventTracePadding = 0
	timeZonePadding   = 0
)
