//go:build windows
// +build windows

package etwlog

import (
	"github.com/Microsoft/go-winio/pkg/guid"
	"golang.org/x/sys/windows"
)

//nolint:golint,stylecheck // We keep original names to underline that it's an external constants.
const (
	EVENT_CONTROL_CODE_DISABLE_PROVIDER = 0
	EVENT_CONTROL_CODE_ENABLE_PROVIDER  = 1
)

// enabledProvider is a provider id collected by a session.
//
// session is a back-reference, not ownership: it stays valid only because
// Log.Close disables the provider before it stops the session.
type enabledProvider struct {
	session *session
	id      windows.GUID
}

// enableProvider asks the session to collect informational events of the
// provider @id, with no keyword filtering.
func (s *session) enableProvider(id guid.GUID) (*enabledProvider, error) {
	e := &enabledProvider{
		session: s,
		id:      windows.GUID(id),
	}

	// Ref: https://docs.microsoft.com/en-us/windows/win32/api/evntrace/nf-evntrace-enabletraceex2
	ret := enableTraceEx2(
		s.handle,
		&e.id,
		EVENT_CONTROL_CODE_ENABLE_PROVIDER,
		TRACE_LEVEL_INFORMATION,
		0, // MatchAnyKeyword: everything.
		0,
		0, // Timeout set to zero to enable the trace asynchronously
	)
	if err := verify(ErrEnable, ret, "EnableTraceEx2"); err != nil {
		s.metrics.failed(stageEnable)
		return nil, err
	}

	s.metrics.providerEnabled()
	s.logger.Debug().Str("provider", id.String()).Msg("provider enabled")
	return e, nil
}

// disable stops collecting the provider. ERROR_NOT_FOUND means it was not
// enabled anymore, which is what we want anyway.
func (e *enabledProvider) disable() {
	s := e.session

	ret := enableTraceEx2(
		s.handle,
		&e.id,
		EVENT_CONTROL_CODE_DISABLE_PROVIDER,
		TRACE_LEVEL_INFORMATION,
		0,
		0,
		0,
	)
	if ret != windows.ERROR_SUCCESS && ret != windows.ERROR_NOT_FOUND {
		s.logger.Warn().Err(ret).Msg("EnableTraceEx2 failed to disable provider")
	}

	s.metrics.providerDisabled()
}
