//go:build windows
// +build windows

package etwlog

import (
	"fmt"
	"unsafe"

	"github.com/Microsoft/go-winio/pkg/guid"
	"golang.org/x/sys/windows"
)

const (
	// MaxBufferSize is the largest per-buffer size, in kilobytes, a session
	// is created with. Bigger values are clamped.
	MaxBufferSize = 16384

	// MaxSessionNameLength and MaxLogFilePathLength are the capacities, in
	// UTF-16 code units and without the terminating NUL, of the trailing
	// regions of the session properties buffer.
	MaxSessionNameLength = 256
	MaxLogFilePathLength = 1024
)

// Ref: https://learn.microsoft.com/en-us/windows/win32/etw/logging-mode-constants
//
//nolint:golint,stylecheck
const (
	WNODE_FLAG_TRACED_GUID = 0x00020000

	EVENT_TRACE_FILE_MODE_SEQUENTIAL = 0x00000001
	EVENT_TRACE_PRIVATE_LOGGER_MODE  = 0x00000800
	EVENT_TRACE_PRIVATE_IN_PROC      = 0x00020000

	EVENT_TRACE_CONTROL_QUERY = 0
	EVENT_TRACE_CONTROL_STOP  = 1
)

// Append-only file, only our own process may log into it, and no
// administrator rights are needed to create it.
const sessionLogFileMode = EVENT_TRACE_FILE_MODE_SEQUENTIAL |
	EVENT_TRACE_PRIVATE_LOGGER_MODE |
	EVENT_TRACE_PRIVATE_IN_PROC

// Go-analog of WNODE_HEADER.
// https://learn.microsoft.com/en-us/windows/win32/etw/wnode-header
type wnodeHeader struct {
	BufferSize        uint32
	ProviderID        uint32
	HistoricalContext uint64
	TimeStamp         int64
	Guid              windows.GUID
	ClientContext     uint32
	Flags             uint32
}

// Go-analog of EVENT_TRACE_PROPERTIES.
// https://learn.microsoft.com/en-us/windows/win32/api/evntrace/ns-evntrace-event_trace_properties
type eventTraceProperties struct {
	Wnode               wnodeHeader
	BufferSize          uint32
	MinimumBuffers      uint32
	MaximumBuffers      uint32
	MaximumFileSize     uint32
	LogFileMode         uint32
	FlushTimer          uint32
	EnableFlags         uint32
	AgeLimit            int32
	NumberOfBuffers     uint32
	FreeBuffers         uint32
	EventsLost          uint32
	BuffersWritten      uint32
	LogBuffersLost      uint32
	RealTimeBuffersLost uint32
	LoggerThreadID      windows.Handle
	LogFileNameOffset   uint32
	LoggerNameOffset    uint32
}

// sessionProperties is the whole block handed to StartTraceW/ControlTraceW.
//
// EVENT_TRACE_PROPERTIES does not hold the session name and the log file path
// itself: it stores offsets, relative to its own address, of character arrays
// that must follow it in the same allocation. The subsystem copies the block
// by value, so those are plain integers and never pointers.
type sessionProperties struct {
	header      eventTraceProperties
	sessionName [MaxSessionNameLength + 1]uint16
	logFilePath [MaxLogFilePathLength + 1]uint16
}

const (
	sessionPropertiesSize = uint32(unsafe.Sizeof(sessionProperties{}))
	sessionNameOffset     = uint32(unsafe.Offsetof(sessionProperties{}.sessionName))
	logFilePathOffset     = uint32(unsafe.Offsetof(sessionProperties{}.logFilePath))
)

// newSessionProperties builds a zeroed properties block for a private,
// in-process, sequential file session.
//
// The session is keyed by the provider identity @id: a private session with a
// Wnode.Guid that differs from the provider id never receives the provider's
// events unless the session is flushed explicitly.
func newSessionProperties(id guid.GUID, name, logFilePath string, bufferSize uint) (*sessionProperties, error) {
	p := new(sessionProperties)
	if err := copyRegion(p.sessionName[:], name, "session name"); err != nil {
		return nil, err
	}
	if err := copyRegion(p.logFilePath[:], logFilePath, "log file path"); err != nil {
		return nil, err
	}

	p.header.Wnode.BufferSize = sessionPropertiesSize
	p.header.Wnode.Guid = windows.GUID(id)
	p.header.Wnode.ClientContext = 1 // QPC for event Timestamp
	p.header.Wnode.Flags = WNODE_FLAG_TRACED_GUID

	p.header.LogFileMode = sessionLogFileMode
	p.header.BufferSize = clampBufferSize(bufferSize)
	p.header.LoggerNameOffset = sessionNameOffset
	p.header.LogFileNameOffset = logFilePathOffset

	return p, nil
}

// newControlProperties builds the minimal block ControlTraceW needs to
// query or stop a session we hold no handle for: sizes and offsets only.
// Regions are left empty for the subsystem to fill in.
func newControlProperties() *sessionProperties {
	p := new(sessionProperties)
	p.header.Wnode.BufferSize = sessionPropertiesSize
	p.header.LoggerNameOffset = sessionNameOffset
	p.header.LogFileNameOffset = logFilePathOffset
	return p
}

func (p *sessionProperties) properties() *eventTraceProperties {
	return &p.header
}

func (p *sessionProperties) loggerName() string {
	return windows.UTF16ToString(p.sessionName[:])
}

func (p *sessionProperties) logFileName() string {
	return windows.UTF16ToString(p.logFilePath[:])
}

func clampBufferSize(size uint) uint32 {
	if size > MaxBufferSize {
		return MaxBufferSize
	}
	return uint32(size)
}

// copyRegion stores @s NUL-terminated into @dst. An oversized value is a
// contract violation and is never truncated.
func copyRegion(dst []uint16, s string, what string) error {
	u, err := windows.UTF16FromString(s)
	if err != nil {
		return fmt.Errorf("%w: %s contains a NUL character", ErrContractViolation, what)
	}
	if len(u) > len(dst) {
		return fmt.Errorf("%w: %s is %d UTF-16 code units long, at most %d fit",
			ErrContractViolation, what, len(u)-1, len(dst)-1)
	}

	copy(dst, u)
	return nil
}
