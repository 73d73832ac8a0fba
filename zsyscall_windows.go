//go:build windows
// +build windows

package etwlog

import (
	"syscall"
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	modadvapi32 = windows.NewLazySystemDLL("advapi32.dll")

	// https://learn.microsoft.com/en-us/windows/win32/api/evntprov/nf-evntprov-eventregister
	procEventRegister = modadvapi32.NewProc("EventRegister")

	// https://learn.microsoft.com/en-us/windows/win32/api/evntprov/nf-evntprov-eventunregister
	procEventUnregister = modadvapi32.NewProc("EventUnregister")

	// https://learn.microsoft.com/en-us/windows/win32/api/evntprov/nf-evntprov-eventwrite
	procEventWrite = modadvapi32.NewProc("EventWrite")

	// https://learn.microsoft.com/en-us/windows/win32/api/evntrace/nf-evntrace-starttracew
	procStartTraceW = modadvapi32.NewProc("StartTraceW")

	// https://learn.microsoft.com/en-us/windows/win32/api/evntrace/nf-evntrace-controltracew
	procControlTraceW = modadvapi32.NewProc("ControlTraceW")

	// https://learn.microsoft.com/en-us/windows/win32/api/evntrace/nf-evntrace-enabletraceex2
	procEnableTraceEx2 = modadvapi32.NewProc("EnableTraceEx2")
)

// All of the functions below return a ULONG status; the upper half of the
// register is undefined on 64-bit targets.
func status(r0 uintptr) windows.Errno {
	return windows.Errno(uint32(r0))
}

// ULONG EVNTAPI EventRegister(
//
//	LPCGUID         ProviderId,
//	PENABLECALLBACK EnableCallback,
//	PVOID           CallbackContext,
//	PREGHANDLE      RegHandle
//
// );
func eventRegister(providerID *windows.GUID, handle *providerHandle) windows.Errno {
	r0, _, _ := syscall.SyscallN(procEventRegister.Addr(),
		uintptr(unsafe.Pointer(providerID)),
		0, // No enable callback, the session enables us explicitly.
		0,
		uintptr(unsafe.Pointer(handle)))
	return status(r0)
}

// ULONG EVNTAPI EventUnregister(REGHANDLE RegHandle);
func eventUnregister(handle providerHandle) windows.Errno {
	r0, _, _ := syscall.SyscallN(procEventUnregister.Addr(), uint64Args(uint64(handle))...)
	return status(r0)
}

// ULONG WMIAPI StartTraceW(
//
//	PTRACEHANDLE            TraceHandle,
//	LPCWSTR                 InstanceName,
//	PEVENT_TRACE_PROPERTIES Properties
//
// );
func startTrace(handle *traceHandle, name *uint16, properties *eventTraceProperties) windows.Errno {
	r0, _, _ := syscall.SyscallN(procStartTraceW.Addr(),
		uintptr(unsafe.Pointer(handle)),
		uintptr(unsafe.Pointer(name)),
		uintptr(unsafe.Pointer(properties)))
	return status(r0)
}

// ULONG WMIAPI ControlTraceW(
//
//	TRACEHANDLE             TraceHandle,
//	LPCWSTR                 InstanceName,
//	PEVENT_TRACE_PROPERTIES Properties,
//	ULONG                   ControlCode
//
// );
func controlTrace(handle traceHandle, name *uint16, properties *eventTraceProperties, code uint32) windows.Errno {
	args := append(uint64Args(uint64(handle)),
		uintptr(unsafe.Pointer(name)),
		uintptr(unsafe.Pointer(properties)),
		uintptr(code))
	r0, _, _ := syscall.SyscallN(procControlTraceW.Addr(), args...)
	return status(r0)
}

// ULONG WMIAPI EnableTraceEx2(
//
//	TRACEHANDLE              TraceHandle,
//	LPCGUID                  ProviderId,
//	ULONG                    ControlCode,
//	UCHAR                    Level,
//	ULONGLONG                MatchAnyKeyword,
//	ULONGLONG                MatchAllKeyword,
//	ULONG                    Timeout,
//	PENABLE_TRACE_PARAMETERS EnableParameters
//
// );
func enableTraceEx2(handle traceHandle, providerID *windows.GUID, code uint32, level TraceLevel,
	matchAnyKeyword, matchAllKeyword uint64, timeout uint32) windows.Errno {
	args := uint64Args(uint64(handle))
	args = append(args, uintptr(unsafe.Pointer(providerID)), uintptr(code), uintptr(level))
	args = append(args, uint64Args(matchAnyKeyword)...)
	args = append(args, uint64Args(matchAllKeyword)...)
	args = append(args, uintptr(timeout), 0) // No ENABLE_TRACE_PARAMETERS.
	r0, _, _ := syscall.SyscallN(procEnableTraceEx2.Addr(), args...)
	return status(r0)
}
