//go:build windows
// +build windows

package etwlog

import (
	"math"
	"unsafe"

	"github.com/Microsoft/go-winio/pkg/guid"
	"github.com/phuslu/log"
	"golang.org/x/sys/windows"
)

// TraceLevel represents provider-defined value that specifies the level of
// detail included in the event. Higher levels imply that you get lower
// levels as well.
type TraceLevel uint8

//nolint:golint,stylecheck // We keep original names to underline that it's an external constants.
const (
	TRACE_LEVEL_CRITICAL    = TraceLevel(1)
	TRACE_LEVEL_ERROR       = TraceLevel(2)
	TRACE_LEVEL_WARNING     = TraceLevel(3)
	TRACE_LEVEL_INFORMATION = TraceLevel(4)
	TRACE_LEVEL_VERBOSE     = TraceLevel(5)
)

// REGHANDLE returned by EventRegister.
type providerHandle uint64

// Go-analog of EVENT_DESCRIPTOR.
// https://learn.microsoft.com/en-us/windows/win32/api/evntprov/ns-evntprov-event_descriptor
type eventDescriptor struct {
	ID      uint16
	Version uint8
	Channel uint8
	Level   uint8
	Opcode  uint8
	Task    uint16
	Keyword uint64
}

// Go-analog of EVENT_DATA_DESCRIPTOR.
// https://learn.microsoft.com/en-us/windows/win32/api/evntprov/ns-evntprov-event_data_descriptor
type eventDataDescriptor struct {
	ptr      uint64
	size     uint32
	reserved uint32
}

// Every payload is written as this one event; nothing else about it is
// classified.
var payloadDescriptor = eventDescriptor{
	ID:      1,
	Version: 1,
}

// provider is a registered event source. Its handle is what EventWrite needs.
type provider struct {
	id     guid.GUID
	handle providerHandle

	logger  *log.Logger
	metrics *Metrics
}

func registerProvider(id guid.GUID, logger *log.Logger, metrics *Metrics) (*provider, error) {
	p := &provider{
		id:      id,
		logger:  logger,
		metrics: metrics,
	}

	providerID := windows.GUID(id)
	if err := verify(ErrRegistration, eventRegister(&providerID, &p.handle), "EventRegister"); err != nil {
		metrics.failed(stageRegister)
		return nil, err
	}

	metrics.providerRegistered()
	logger.Debug().Str("provider", id.String()).Msg("provider registered")
	return p, nil
}

// unregister never fails: there is nothing the caller could do about it.
func (p *provider) unregister() {
	if status := eventUnregister(p.handle); status != windows.ERROR_SUCCESS {
		p.logger.Warn().Str("provider", p.id.String()).Err(status).Msg("EventUnregister failed")
	}

	p.handle = 0
	p.metrics.providerUnregistered()
	p.logger.Debug().Str("provider", p.id.String()).Msg("provider unregistered")
}

// write submits @payload as a single event.
func (p *provider) write(payload []byte) error {
	if len(payload) == 0 {
		return p.written(eventWrite(p.handle, &payloadDescriptor, 0, nil), 0)
	}
	if uint64(len(payload)) > math.MaxUint32 {
		return p.written(windows.ERROR_ARITHMETIC_OVERFLOW, 0)
	}

	status := writeBuffer(p.handle, uintptr(unsafe.Pointer(&payload[0])), uint32(len(payload)))
	return p.written(status, len(payload))
}

// writeBuffer writes the @size bytes at @buffer as the single data item of an
// event. The descriptor hides @buffer from the runtime, so it must neither
// move nor be freed before EventWrite returns: uintptrescapes moves it to the
// heap and keeps it alive for the duration of the call.
//
//go:uintptrescapes
func writeBuffer(handle providerHandle, buffer uintptr, size uint32) windows.Errno {
	data := eventDataDescriptor{
		ptr:  uint64(buffer),
		size: size,
	}
	return eventWrite(handle, &payloadDescriptor, 1, &data)
}

func (p *provider) written(status windows.Errno, size int) error {
	if err := verify(ErrWrite, status, "EventWrite"); err != nil {
		p.metrics.failed(stageWrite)
		return err
	}

	p.metrics.eventWritten(size)
	return nil
}
