//go:build windows
// +build windows

package consumer

import (
	"syscall"
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	modadvapi32 = windows.NewLazySystemDLL("advapi32.dll")

	// https://learn.microsoft.com/en-us/windows/win32/api/evntrace/nf-evntrace-opentracew
	procOpenTraceW = modadvapi32.NewProc("OpenTraceW")

	// https://learn.microsoft.com/en-us/windows/win32/api/evntrace/nf-evntrace-processtrace
	procProcessTrace = modadvapi32.NewProc("ProcessTrace")

	// https://learn.microsoft.com/en-us/windows/win32/api/evntrace/nf-evntrace-closetrace
	procCloseTrace = modadvapi32.NewProc("CloseTrace")
)

// TRACEHANDLE openTraceW(PEVENT_TRACE_LOGFILEW Logfile);
//
// On failure the handle is INVALID_PROCESSTRACE_HANDLE and @err holds the
// last error.
func openTrace(logfile *eventTraceLogfile) (handle traceHandle, err error) {
	r0, r1, e1 := syscall.SyscallN(procOpenTraceW.Addr(), uintptr(unsafe.Pointer(logfile)))
	handle = traceHandle(uint64Result(r0, r1))
	if handle == invalidProcessTraceHandle {
		err = e1
	}
	return handle, err
}

// ULONG WMIAPI ProcessTrace(
//
//	PTRACEHANDLE HandleArray,
//	ULONG        HandleCount,
//	LPFILETIME   StartTime,
//	LPFILETIME   EndTime
//
// );
func processTrace(handles *traceHandle, count uint32) windows.Errno {
	r0, _, _ := syscall.SyscallN(procProcessTrace.Addr(),
		uintptr(unsafe.Pointer(handles)),
		uintptr(count),
		0, // Do not want to limit StartTime.
		0) // Do not want to limit EndTime.
	return windows.Errno(uint32(r0))
}

// ULONG WMIAPI CloseTrace(TRACEHANDLE TraceHandle);
func closeTrace(handle traceHandle) windows.Errno {
	r0, _, _ := syscall.SyscallN(procCloseTrace.Addr(), uint64Args(uint64(handle))...)
	return windows.Errno(uint32(r0))
}
