//go:build windows && 386
// +build windows
// +build 386

package consumer

func uint64Args(v uint64) []uintptr {
	return []uintptr{uintptr(uint32(v)), uintptr(uint32(v >> 32))}
}

// 64-bit results come back in EDX:EAX.
func uint64Result(r0, r1 uintptr) uint64 {
	return uint64(uint32(r0)) | uint64(uint32(r1))<<32
}

// MSVC aligns 64-bit members to 8 bytes, Go only to 4 on 386: EVENT_TRACE
// ends with 4 bytes of tail padding inside EVENT_TRACE_LOGFILEW, and
// TIME_ZONE_INFORMATION is followed by 4 in TRACE_LOGFILE_HEADER. Both are
// spelled out in the embedding struct: a zero-size last field would make Go
// pad the struct on 64-bit.
const (
	eventTracePadding = 4
	timeZonePadding   = 4
)
