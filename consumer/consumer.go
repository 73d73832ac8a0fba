//go:build windows
// +build windows

// Package consumer reads the records of a trace (.etl) file written by
// etwlog.Log.
//
// Besides the events written through a Log, the file holds records the
// subsystem injects itself (the trace header and friends, under
// EventTraceGUID). Filter by the Log's ProviderID to keep only what was
// written:
//
//	payloads, err := consumer.ReadPayloads(l.LogFilePath(), l.ProviderID())
package consumer

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"
	"unsafe"

	"github.com/Microsoft/go-winio/pkg/guid"
	"golang.org/x/sys/windows"
)

// EventTraceGUID identifies the metadata records the subsystem writes into
// every trace file.
//
// 68fdd900-4a3e-11d1-84f4-0000f80464e3
var EventTraceGUID = guid.GUID{
	Data1: 0x68fdd900,
	Data2: 0x4a3e,
	Data3: 0x11d1,
	Data4: [8]byte{0x84, 0xf4, 0x00, 0x00, 0xf8, 0x04, 0x64, 0xe3},
}

// EventDescriptor is the Go-analog of EVENT_DESCRIPTOR.
// https://docs.microsoft.com/ru-ru/windows/win32/api/evntprov/ns-evntprov-event_descriptor
type EventDescriptor struct {
	ID      uint16
	Version uint8
	Channel uint8
	Level   uint8
	OpCode  uint8
	Task    uint16
	Keyword uint64
}

// EventHeader consists common event information.
type EventHeader struct {
	EventDescriptor

	ThreadID   uint32
	ProcessID  uint32
	TimeStamp  time.Time
	ProviderID guid.GUID
	ActivityID guid.GUID
	Flags      uint16
}

// Record is one event read back from a trace file. Data is a copy owned by
// the caller.
type Record struct {
	Header EventHeader
	Data   []byte
}

// Filter decides whether a record is kept, looking at its header only.
type Filter func(h *EventHeader) bool

// ProviderFilter keeps the records written under @id only.
func ProviderFilter(id guid.GUID) Filter {
	return func(h *EventHeader) bool {
		return h.ProviderID == id
	}
}

// SkipMetadata keeps everything but the subsystem's own metadata records.
// Prefer ProviderFilter when the provider identity is known.
func SkipMetadata(h *EventHeader) bool {
	return h.ProviderID != EventTraceGUID
}

// ReadFile returns, in file order, the records of the trace file at @path
// that pass @filter. A nil @filter keeps everything.
//
// The file must not be written to anymore: the session that produced it has
// to be stopped first.
func ReadFile(path string, filter Filter) ([]Record, error) {
	utf16Path, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return nil, fmt.Errorf("incorrect trace file path; %w", err)
	}

	r := &reader{filter: filter}
	key := newCallbackKey(r)
	defer freeCallbackKey(key)

	logfile := eventTraceLogfile{
		LogFileName:         utf16Path,
		ProcessTraceMode:    PROCESS_TRACE_MODE_EVENT_RECORD,
		EventRecordCallback: eventRecordCallback(),
		Context:             key,
	}

	// Ref: https://docs.microsoft.com/en-us/windows/win32/api/evntrace/nf-evntrace-opentracew
	handle, err := openTrace(&logfile)
	if handle == invalidProcessTraceHandle {
		return nil, fmt.Errorf("OpenTraceW failed; %w", err)
	}
	defer closeTrace(handle)

	// For a file ProcessTrace returns once every buffer was delivered.
	switch status := processTrace(&handle, 1); status {
	case windows.ERROR_SUCCESS, windows.ERROR_CANCELLED:
	default:
		return nil, fmt.Errorf("ProcessTrace failed; %w", status)
	}

	return r.records, nil
}

// ReadPayloads returns the data of every record @id wrote into the trace
// file at @path.
func ReadPayloads(path string, id guid.GUID) ([][]byte, error) {
	records, err := ReadFile(path, ProviderFilter(id))
	if err != nil {
		return nil, err
	}

	payloads := make([][]byte, 0, len(records))
	for _, rec := range records {
		payloads = append(payloads, rec.Data)
	}
	return payloads, nil
}

// reader accumulates the records of one ReadFile call. ProcessTrace calls
// back on the thread it runs on, so no locking is needed.
type reader struct {
	filter  Filter
	records []Record
}

func (r *reader) handle(record *eventRecordC) {
	header := eventHeaderToGo(record.EventHeader)
	if r.filter != nil && !r.filter(&header) {
		return
	}

	data := make([]byte, record.UserDataLength)
	if record.UserDataLength > 0 {
		copy(data, unsafe.Slice(record.UserData, record.UserDataLength))
	}

	r.records = append(r.records, Record{Header: header, Data: data})
}

// We can't pass Go-land pointers to the system as the callback context so we
// use a classical trick storing real pointers inside global map and passing
// "fake pointers" which are actually map keys.
//
//nolint:gochecknoglobals
var (
	readers        sync.Map
	readersCounter uintptr

	// windows.NewCallback allocates from a small fixed pool, so every
	// ReadFile shares the one callback.
	recordCallback     uintptr
	recordCallbackOnce sync.Once
)

// newCallbackKey stores @r inside a global storage returning its' key.
// After use the key should be freed using `freeCallbackKey`.
func newCallbackKey(r *reader) uintptr {
	key := atomic.AddUintptr(&readersCounter, 1)
	readers.Store(key, r)

	return key
}

func freeCallbackKey(key uintptr) {
	readers.Delete(key)
}

func eventRecordCallback() uintptr {
	recordCallbackOnce.Do(func() {
		recordCallback = windows.NewCallback(handleEvent)
	})
	return recordCallback
}

// handleEvent is the EVENT_RECORD_CALLBACK of every ReadFile.
func handleEvent(record *eventRecordC) uintptr {
	r, ok := readers.Load(record.UserContext)
	if !ok {
		return 0
	}

	r.(*reader).handle(record)
	return 0
}

func eventHeaderToGo(header eventHeaderC) EventHeader {
	return EventHeader{
		EventDescriptor: eventDescriptorToGo(header.EventDescriptor),
		ThreadID:        header.ThreadID,
		ProcessID:       header.ProcessID,
		TimeStamp:       stampToTime(header.TimeStamp),
		ProviderID:      guid.GUID(header.ProviderID),
		ActivityID:      guid.GUID(header.ActivityID),
		Flags:           header.Flags,
	}
}

func eventDescriptorToGo(descriptor eventDescriptorC) EventDescriptor {
	return EventDescriptor{
		ID:      descriptor.ID,
		Version: descriptor.Version,
		Channel: descriptor.Channel,
		Level:   descriptor.Level,
		OpCode:  descriptor.Opcode,
		Task:    descriptor.Task,
		Keyword: descriptor.Keyword,
	}
}

// Without PROCESS_TRACE_MODE_RAW_TIMESTAMP the subsystem converts event
// timestamps to FILETIME.
func stampToTime(stamp int64) time.Time {
	ft := windows.Filetime{
		LowDateTime:  uint32(stamp),
		HighDateTime: uint32(stamp >> 32),
	}
	return time.Unix(0, ft.Nanoseconds())
}
