//go:build windows
// +build windows

package consumer

import (
	"golang.org/x/sys/windows"
)

type traceHandle uint64

//nolint:golint,stylecheck // We keep original names to underline that it's an external constants.
const (
	invalidProcessTraceHandle = traceHandle(^uint64(0))

	PROCESS_TRACE_MODE_EVENT_RECORD = 0x10000000
)

// Go-analog of EVENT_TRACE_HEADER.
// https://learn.microsoft.com/en-us/windows/win32/api/evntrace/ns-evntrace-event_trace_header
type eventTraceHeader struct {
	Size          uint16
	FieldTypeFlag uint16
	Version       uint32
	ThreadID      uint32
	ProcessID     uint32
	TimeStamp     int64
	Guid          windows.GUID
	ProcessorTime uint64
}

// Go-analog of EVENT_TRACE.
// https://learn.microsoft.com/en-us/windows/win32/api/evntrace/ns-evntrace-event_trace
type eventTrace struct {
	Header           eventTraceHeader
	InstanceID       uint32
	ParentInstanceID uint32
	ParentGuid       windows.GUID
	MofData          uintptr
	MofLength        uint32
	ClientContext    uint32
}

// Go-analog of SYSTEMTIME.
type systemTime struct {
	Year, Month, DayOfWeek, Day, Hour, Minute, Second, Milliseconds uint16
}

// Go-analog of TIME_ZONE_INFORMATION.
type timeZoneInformation struct {
	Bias         int32
	StandardName [32]uint16
	StandardDate systemTime
	StandardBias int32
	DaylightName [32]uint16
	DaylightDate systemTime
	DaylightBias int32
}

// Go-analog of TRACE_LOGFILE_HEADER.
// https://learn.microsoft.com/en-us/windows/win32/api/evntrace/ns-evntrace-trace_logfile_header
type traceLogfileHeader struct {
	BufferSize         uint32
	Version            uint32
	ProviderVersion    uint32
	NumberOfProcessors uint32
	EndTime            int64
	TimerResolution    uint32
	MaximumFileSize    uint32
	LogFileMode        uint32
	BuffersWritten     uint32
	LogInstanceGuid    windows.GUID
	LoggerName         *uint16
	LogFileName        *uint16
	TimeZone           timeZoneInformation
	_                  [timeZonePadding]byte
	BootTime           int64
	PerfFreq           int64
	StartTime          int64
	ReservedFlags      uint32
	BuffersLost        uint32
}

// Go-analog of EVENT_TRACE_LOGFILEW.
// https://learn.microsoft.com/en-us/windows/win32/api/evntrace/ns-evntrace-event_trace_logfilew
type eventTraceLogfile struct {
	LogFileName         *uint16
	LoggerName          *uint16
	CurrentTime         int64
	BuffersRead         uint32
	ProcessTraceMode    uint32
	CurrentEvent        eventTrace
	_                   [eventTracePadding]byte // EVENT_TRACE tail padding.
	LogfileHeader       traceLogfileHeader
	BufferCallback      uintptr
	BufferSize          uint32
	Filled              uint32
	EventsLost          uint32
	EventRecordCallback uintptr
	IsKernelTrace       uint32
	Context             uintptr
}

// Go-analog of EVENT_DESCRIPTOR.
type eventDescriptorC struct {
	ID      uint16
	Version uint8
	Channel uint8
	Level   uint8
	Opcode  uint8
	Task    uint16
	Keyword uint64
}

// Go-analog of EVENT_HEADER.
// https://learn.microsoft.com/en-us/windows/win32/api/evntcons/ns-evntcons-event_header
type eventHeaderC struct {
	Size            uint16
	HeaderType      uint16
	Flags           uint16
	EventProperty   uint16
	ThreadID        uint32
	ProcessID       uint32
	TimeStamp       int64
	ProviderID      windows.GUID
	EventDescriptor eventDescriptorC
	ProcessorTime   uint64
	ActivityID      windows.GUID
}

// Go-analog of EVENT_RECORD.
// https://learn.microsoft.com/en-us/windows/win32/api/evntcons/ns-evntcons-event_record
type eventRecordC struct {
	EventHeader       eventHeaderC
	BufferContext     uint32
	ExtendedDataCount uint16
	UserDataLength    uint16
	ExtendedData      uintptr
	UserData          *byte
	UserContext       uintptr
}
