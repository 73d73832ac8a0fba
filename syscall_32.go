//go:build windows && 386
// +build windows
// +build 386

package etwlog

import (
	"syscall"
	"unsafe"

	"golang.org/x/sys/windows"
)

// uint64Args spreads a 64-bit by-value argument over the stack slots the
// calling convention expects: low word first on 32-bit targets.
func uint64Args(v uint64) []uintptr {
	return []uintptr{uintptr(uint32(v)), uintptr(uint32(v >> 32))}
}

// ULONG EVNTAPI EventWrite(
//
//	REGHANDLE              RegHandle,
//	PCEVENT_DESCRIPTOR     EventDescriptor,
//	ULONG                  UserDataCount,
//	PEVENT_DATA_DESCRIPTOR UserData
//
// );
//
// The pointer conversions stay inside the call expression: nothing may grow
// the stack between them and the call.
func eventWrite(handle providerHandle, descriptor *eventDescriptor, count uint32, data *eventDataDescriptor) windows.Errno {
	r0, _, _ := syscall.SyscallN(procEventWrite.Addr(),
		uintptr(uint32(handle)),
		uintptr(uint32(handle>>32)),
		uintptr(unsafe.Pointer(descriptor)),
		uintptr(count),
		uintptr(unsafe.Pointer(data)))
	return status(r0)
}
