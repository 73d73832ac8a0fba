//go:build windows
// +build windows

// Package etwlog writes opaque byte payloads as ETW events into a private,
// file-backed trace session owned by the calling process.
//
// A Log registers a provider under a fresh identity, starts a private
// in-process session keyed by that same identity and enables the provider in
// it. Everything written through the Log ends up in one .etl file that can be
// read back, filtered by Log.ProviderID, with package consumer:
//
//	l, err := etwlog.New("my-app", dir, 64)
//	if err != nil {
//		return err
//	}
//	defer l.Close()
//
//	err = l.Write([]byte("Hello World!"))
package etwlog

import (
	"fmt"
	"path/filepath"

	"github.com/Microsoft/go-winio/pkg/guid"
	"github.com/phuslu/log"
	"golang.org/x/sys/windows"
)

// Log is a private trace session with a single provider enabled in it.
//
// Write may be called concurrently. New and Close must not race with each
// other or with Write.
type Log struct {
	id          guid.GUID
	sessionName string
	logFilePath string

	// Acquired in this order by New and released in reverse by Close.
	provider *provider
	session  *session
	enabled  *enabledProvider

	logger  *log.Logger
	metrics *Metrics
}

// New creates the trace file @outputFolder\log.etl through a session named
// @sessionName with buffers of @bufferSize kilobytes (clamped to
// MaxBufferSize). The folder must exist.
//
// Errors match one of ErrIdentityGeneration, ErrContractViolation,
// ErrRegistration, ErrSessionStart or ErrEnable. Whatever was acquired
// before the failing step is released.
func New(sessionName, outputFolder string, bufferSize uint, opts ...Option) (_ *Log, err error) {
	cfg := defaultLogOptions()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.Logger == nil {
		l := DefaultLogger()
		cfg.Logger = &l
	}

	l := &Log{
		sessionName: sessionName,
		logger:      cfg.Logger,
		metrics:     cfg.Metrics,
	}

	if l.id, err = guid.NewV4(); err != nil {
		l.metrics.failed(stageIdentity)
		return nil, fmt.Errorf("%w; %w", ErrIdentityGeneration, err)
	}

	if l.logFilePath, err = filepath.Abs(filepath.Join(outputFolder, cfg.LogFileName)); err != nil {
		l.metrics.failed(stageProperties)
		return nil, fmt.Errorf("%w: output folder %q; %w", ErrContractViolation, outputFolder, err)
	}

	props, err := newSessionProperties(l.id, sessionName, l.logFilePath, bufferSize)
	if err != nil {
		l.metrics.failed(stageProperties)
		return nil, err
	}

	defer func() {
		if err != nil {
			l.Close()
		}
	}()

	// The provider must be registered before the private session keyed by
	// its id is started, or the session won't see its events.
	if l.provider, err = registerProvider(l.id, l.logger, l.metrics); err != nil {
		return nil, err
	}
	if l.session, err = startSession(props, sessionName, l.logger, l.metrics); err != nil {
		return nil, err
	}
	if l.enabled, err = l.session.enableProvider(l.id); err != nil {
		return nil, err
	}

	l.logger.Debug().
		Str("session", sessionName).
		Str("provider", l.id.String()).
		Str("file", l.logFilePath).
		Msg("log opened")
	return l, nil
}

// NewFromConfig validates @cfg and calls New with it. @opts are applied after
// the options derived from @cfg.
func NewFromConfig(cfg Config, opts ...Option) (*Log, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: invalid config; %w", ErrContractViolation, err)
	}

	opts = append([]Option{WithLogFileName(cfg.LogFileName)}, opts...)
	return New(cfg.SessionName, cfg.OutputFolder, cfg.BufferSize, opts...)
}

// Write submits @payload as one event. The payload has no structure for this
// package, and must fit into a single event (64KB minus headers) and into one
// session buffer.
func (l *Log) Write(payload []byte) error {
	if l.provider == nil {
		return verify(ErrWrite, windows.ERROR_INVALID_HANDLE, "EventWrite on a closed log")
	}
	return l.provider.write(payload)
}

// ProviderID returns the identity every event of the Log is written under.
// Readers use it to tell the Log's records from the ones the subsystem adds.
func (l *Log) ProviderID() guid.GUID {
	return l.id
}

// SessionName returns the name of the trace session.
func (l *Log) SessionName() string {
	return l.sessionName
}

// LogFilePath returns the absolute path of the trace file.
func (l *Log) LogFilePath() string {
	return l.logFilePath
}

// Close disables the provider, stops the session (which flushes the file) and
// unregisters the provider, in that order. Every step is attempted whatever
// the outcome of the previous one; failures are logged, never returned.
// Close is idempotent and always returns nil.
func (l *Log) Close() error {
	if l.enabled != nil {
		l.enabled.disable()
		l.enabled = nil
	}
	if l.session != nil {
		l.session.stop()
		l.session = nil
	}
	if l.provider != nil {
		l.provider.unregister()
		l.provider = nil
	}

	return nil
}
