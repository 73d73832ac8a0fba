//go:build windows
// +build windows

package etwlog

import (
	"github.com/phuslu/log"
	"golang.org/x/sys/windows"
)

// TRACEHANDLE returned by StartTraceW.
type traceHandle uint64

// session is a trace session this process controls.
type session struct {
	name       []uint16
	handle     traceHandle
	properties *sessionProperties

	logger  *log.Logger
	metrics *Metrics
}

// startSession starts a session named @name described by @props.
//
// Session names are machine-wide and sessions are a scarce resource, so a
// session left behind under our name (by a crashed run, for example) is
// stopped and the start retried exactly once rather than picking another
// name.
func startSession(props *sessionProperties, name string, logger *log.Logger, metrics *Metrics) (*session, error) {
	utf16Name, err := windows.UTF16FromString(name)
	if err != nil {
		return nil, err // newSessionProperties already rejects such names.
	}

	s := &session{
		name:       utf16Name,
		properties: props,
		logger:     logger,
		metrics:    metrics,
	}

	// StartTraceW may write back into the block; the retry starts from the
	// values we built.
	pristine := *props

	ret := startTrace(&s.handle, &s.name[0], props.properties())
	if ret == windows.ERROR_ALREADY_EXISTS {
		logger.Info().Str("session", name).Msg("trace session already exists, stopping it")

		s.stopByName()
		*props = pristine
		s.handle = 0

		ret = startTrace(&s.handle, &s.name[0], props.properties())
		if ret == windows.ERROR_SUCCESS {
			metrics.sessionRestarted()
		}
	}

	if err := verify(ErrSessionStart, ret, "StartTraceW"); err != nil {
		metrics.failed(stageStart)
		return nil, err
	}

	metrics.sessionStarted()
	logger.Debug().Str("session", name).Str("file", props.logFileName()).Msg("trace session started")
	return s, nil
}

// stopByName stops the session named like ours without owning its handle.
// We don't know how that session was set up, so the properties block is a
// scratch one: ControlTraceW fills its regions with the session's own name
// and log file.
func (s *session) stopByName() {
	ret := controlTrace(0, &s.name[0], newControlProperties().properties(), EVENT_TRACE_CONTROL_STOP)

	// If you receive ERROR_MORE_DATA when stopping the session, ETW will have
	// already stopped the session before generating this error.
	// https://docs.microsoft.com/en-us/windows/win32/api/evntrace/nf-evntrace-controltracew
	switch ret {
	case windows.ERROR_MORE_DATA, windows.ERROR_SUCCESS:
	default:
		s.logger.Warn().Str("session", windows.UTF16ToString(s.name)).Err(ret).Msg("ControlTraceW failed to stop existing session")
	}
}

// stop flushes and closes the session. Failures are logged only.
func (s *session) stop() {
	ret := controlTrace(s.handle, nil, s.properties.properties(), EVENT_TRACE_CONTROL_STOP)
	switch ret {
	case windows.ERROR_MORE_DATA, windows.ERROR_SUCCESS:
	default:
		s.logger.Warn().Str("session", windows.UTF16ToString(s.name)).Err(ret).Msg("ControlTraceW failed to stop session")
	}

	s.handle = 0
	s.metrics.sessionStopped()
	s.logger.Debug().Str("session", windows.UTF16ToString(s.name)).Msg("trace session stopped")
}
