package etwlog

import "github.com/phuslu/log"

// DefaultLogFileName is the base name of the trace file created inside the
// output folder.
const DefaultLogFileName = "log.etl"

// LogOptions describes optional Log settings.
type LogOptions struct {
	// LogFileName is the base name of the trace file inside the output
	// folder. Defaults to DefaultLogFileName.
	LogFileName string

	// Logger receives lifecycle messages of the Log. Defaults to the package
	// logger, see SetLogger, and so does nil.
	Logger *log.Logger

	// Metrics, if set, records the Log's resources and traffic.
	Metrics *Metrics
}

// Option is any function that modifies LogOptions. Options will be called
// on default config in New. Subsequent options that modifies same fields
// will override each other.
type Option func(cfg *LogOptions)

// WithLogFileName overrides the base name of the trace file.
func WithLogFileName(name string) Option {
	return func(cfg *LogOptions) {
		cfg.LogFileName = name
	}
}

// WithLogger makes the Log report through @l instead of the package logger.
func WithLogger(l log.Logger) Option {
	return func(cfg *LogOptions) {
		cfg.Logger = &l
	}
}

// WithMetrics records the Log's resources and traffic into @m. The same
// Metrics may be shared by many Logs.
func WithMetrics(m *Metrics) Option {
	return func(cfg *LogOptions) {
		cfg.Metrics = m
	}
}

func defaultLogOptions() LogOptions {
	l := DefaultLogger()
	return LogOptions{
		LogFileName: DefaultLogFileName,
		Logger:      &l,
	}
}
