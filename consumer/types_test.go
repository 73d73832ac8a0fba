//go:build windows
// +build windows

package consumer

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
)

// TestLayout pins the offsets OpenTraceW and the record callback read to the
// native ones. Sizes are only checked where MSVC and Go agree on tail
// padding.
func TestLayout(t *testing.T) {
	var (
		logfile eventTraceLogfile
		record  eventRecordC
	)

	assert.Equal(t, uintptr(48), unsafe.Sizeof(eventTraceHeader{}), "EVENT_TRACE_HEADER size")
	assert.Equal(t, uintptr(80), unsafe.Sizeof(eventHeaderC{}), "EVENT_HEADER size")
	assert.Equal(t, uintptr(80), unsafe.Offsetof(record.BufferContext))

	if unsafe.Sizeof(uintptr(0)) == 8 {
		assert.Equal(t, uintptr(88), unsafe.Sizeof(eventTrace{}), "EVENT_TRACE size")
		assert.Equal(t, uintptr(280), unsafe.Sizeof(traceLogfileHeader{}), "TRACE_LOGFILE_HEADER size")
		assert.Equal(t, uintptr(448), unsafe.Sizeof(eventTraceLogfile{}), "EVENT_TRACE_LOGFILEW size")
		assert.Equal(t, uintptr(112), unsafe.Sizeof(eventRecordC{}), "EVENT_RECORD size")

		assert.Equal(t, uintptr(32), unsafe.Offsetof(logfile.CurrentEvent))
		assert.Equal(t, uintptr(120), unsafe.Offsetof(logfile.LogfileHeader))
		assert.Equal(t, uintptr(400), unsafe.Offsetof(logfile.BufferCallback))
		assert.Equal(t, uintptr(424), unsafe.Offsetof(logfile.EventRecordCallback))
		assert.Equal(t, uintptr(440), unsafe.Offsetof(logfile.Context))
		assert.Equal(t, uintptr(96), unsafe.Offsetof(record.UserData))
		assert.Equal(t, uintptr(104), unsafe.Offsetof(record.UserContext))
		return
	}

	assert.Equal(t, uintptr(272), unsafe.Sizeof(traceLogfileHeader{}), "TRACE_LOGFILE_HEADER size")
	assert.Equal(t, uintptr(240), unsafe.Offsetof(logfile.LogfileHeader.BootTime))
	assert.Equal(t, uintptr(24), unsafe.Offsetof(logfile.CurrentEvent))
	assert.Equal(t, uintptr(112), unsafe.Offsetof(logfile.LogfileHeader))
	assert.Equal(t, uintptr(384), unsafe.Offsetof(logfile.BufferCallback))
	assert.Equal(t, uintptr(400), unsafe.Offsetof(logfile.EventRecordCallback))
	assert.Equal(t, uintptr(408), unsafe.Offsetof(logfile.Context))
	assert.Equal(t, uintptr(92), unsafe.Offsetof(record.UserData))
	assert.Equal(t, uintptr(96), unsafe.Offsetof(record.UserContext))
}
