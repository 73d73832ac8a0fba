package etwlog

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// DefaultBufferSize is the per-buffer size, in kilobytes, used when a
// configuration does not set one.
const DefaultBufferSize = 64

// Config holds the construction inputs of a Log, as loaded from a TOML file:
//
//	session_name  = "my-app"
//	output_folder = 'C:\ProgramData\my-app\trace'
//	buffer_size   = 64
//	log_file_name = "log.etl"
type Config struct {
	// Name of the trace session. Session names are machine-wide.
	SessionName string `toml:"session_name"`

	// Existing folder the trace file is written into.
	OutputFolder string `toml:"output_folder"`

	// Kilobytes per session buffer, clamped to MaxBufferSize.
	BufferSize uint `toml:"buffer_size"`

	// Base name of the trace file (default: "log.etl").
	LogFileName string `toml:"log_file_name"`
}

// DefaultConfig returns a Config with every optional field set. SessionName
// and OutputFolder have no sensible default and are left empty.
func DefaultConfig() Config {
	return Config{
		BufferSize:  DefaultBufferSize,
		LogFileName: DefaultLogFileName,
	}
}

// ParseConfig decodes TOML @data over DefaultConfig and validates the result.
// Unknown keys are rejected.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()

	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("failed to parse config; %w", err)
	}

	return cfg, checkDecoded(md, cfg)
}

// LoadConfig reads and decodes the TOML file at @path, see ParseConfig.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("failed to load config %s; %w", path, err)
	}

	return cfg, checkDecoded(md, cfg)
}

func checkDecoded(md toml.MetaData, cfg Config) error {
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return fmt.Errorf("unknown config keys: %s", strings.Join(keys, ", "))
	}

	return cfg.Validate()
}

// Validate reports missing or malformed fields. Lengths are checked later by
// New, against the capacities of the session properties buffer.
func (c Config) Validate() error {
	var errs []error

	if c.SessionName == "" {
		errs = append(errs, errors.New("session_name must not be empty"))
	}
	if c.OutputFolder == "" {
		errs = append(errs, errors.New("output_folder must not be empty"))
	}
	switch {
	case c.LogFileName == "":
		errs = append(errs, errors.New("log_file_name must not be empty"))
	case filepath.Base(c.LogFileName) != c.LogFileName:
		errs = append(errs, fmt.Errorf("log_file_name %q must be a base name", c.LogFileName))
	}

	return errors.Join(errs...)
}
