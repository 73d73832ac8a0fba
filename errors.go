//go:build windows
// +build windows

package etwlog

import (
	"errors"
	"strings"

	"golang.org/x/sys/windows"
)

// Each failure returned by this package matches exactly one of these with
// errors.Is.
var (
	ErrIdentityGeneration = errors.New("provider identity generation failed")
	ErrRegistration       = errors.New("provider registration failed")
	ErrSessionStart       = errors.New("trace session start failed")
	ErrEnable             = errors.New("provider enable failed")
	ErrWrite              = errors.New("event write failed")

	// ErrContractViolation reports a programming error on the caller side,
	// e.g. a session name that does not fit into the properties buffer.
	ErrContractViolation = errors.New("contract violation")
)

// Error is returned when a tracing subsystem call reports an unexpected
// status.
//
// errors.Is matches both Kind (one of the Err* sentinels of this package) and
// the raw windows.Errno, so callers can test for either:
//
//	errors.Is(err, etwlog.ErrSessionStart)
//	errors.Is(err, windows.ERROR_NO_SYSTEM_RESOURCES)
type Error struct {
	Kind    error
	Code    windows.Errno
	Context string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Code
}

func (e *Error) Is(target error) bool {
	return target == e.Kind
}

// verify compares @code against @expected (ERROR_SUCCESS when omitted) and
// returns an *Error of @kind on mismatch.
func verify(kind error, code windows.Errno, context string, expected ...windows.Errno) error {
	want := windows.ERROR_SUCCESS
	if len(expected) > 0 {
		want = expected[0]
	}
	if code == want {
		return nil
	}

	msg := context
	if text := formatStatus(code); text != "" {
		msg = text + "; " + context
	}

	return &Error{
		Kind:    kind,
		Code:    code,
		Context: context,
		Message: msg,
	}
}

// formatStatus returns the system's own text for @code, or an empty string if
// the system has none.
func formatStatus(code windows.Errno) string {
	var buf [512]uint16

	flags := uint32(windows.FORMAT_MESSAGE_FROM_SYSTEM | windows.FORMAT_MESSAGE_IGNORE_INSERTS)
	n, err := windows.FormatMessage(flags, 0, uint32(code), 0, buf[:], nil)
	if err != nil || n == 0 {
		return ""
	}

	return strings.TrimRight(windows.UTF16ToString(buf[:n]), "\r\n. ")
}
