package etwlog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseConfig(t *testing.T) {
	tests := []struct {
		name       string
		configTOML string
		expectErr  string
		validate   func(*testing.T, Config)
	}{
		{
			name: "defaults fill optional fields",
			configTOML: `
session_name  = "etwlog-test"
output_folder = "trace"
`,
			validate: func(t *testing.T, c Config) {
				require.Equal(t, "etwlog-test", c.SessionName)
				require.Equal(t, "trace", c.OutputFolder)
				require.Equal(t, uint(DefaultBufferSize), c.BufferSize)
				require.Equal(t, DefaultLogFileName, c.LogFileName)
			},
		},
		{
			name: "every field overridden",
			configTOML: `
session_name  = "etwlog-test"
output_folder = 'C:\trace'
buffer_size   = 4
log_file_name = "app.etl"
`,
			validate: func(t *testing.T, c Config) {
				require.Equal(t, `C:\trace`, c.OutputFolder)
				require.Equal(t, uint(4), c.BufferSize)
				require.Equal(t, "app.etl", c.LogFileName)
			},
		},
		{
			name: "buffer size above the maximum is kept for clamping",
			configTOML: `
session_name  = "etwlog-test"
output_folder = "trace"
buffer_size   = 100000
`,
			validate: func(t *testing.T, c Config) {
				require.Equal(t, uint(100000), c.BufferSize)
			},
		},
		{
			name: "unknown key",
			configTOML: `
session_name  = "etwlog-test"
output_folder = "trace"
buffer_sise   = 4
`,
			expectErr: "unknown config keys: buffer_sise",
		},
		{
			name:       "missing session name",
			configTOML: `output_folder = "trace"`,
			expectErr:  "session_name must not be empty",
		},
		{
			name:       "missing output folder",
			configTOML: `session_name = "etwlog-test"`,
			expectErr:  "output_folder must not be empty",
		},
		{
			name: "log file name with a folder",
			configTOML: `
session_name  = "etwlog-test"
output_folder = "trace"
log_file_name = "sub/log.etl"
`,
			expectErr: "must be a base name",
		},
		{
			name:       "malformed TOML",
			configTOML: `session_name = `,
			expectErr:  "failed to parse config",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := ParseConfig([]byte(tt.configTOML))
			if tt.expectErr != "" {
				require.Error(t, err)
				require.Contains(t, err.Error(), tt.expectErr)
				return
			}

			require.NoError(t, err)
			tt.validate(t, cfg)
		})
	}
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "etwlog.toml")
	data := []byte("session_name = \"from-file\"\noutput_folder = \"trace\"\nbuffer_size = 8\n")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.Equal(t, Config{
		SessionName:  "from-file",
		OutputFolder: "trace",
		BufferSize:   8,
		LogFileName:  DefaultLogFileName,
	}, cfg)

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "failed to load config")
}

func TestValidateReportsEveryProblem(t *testing.T) {
	err := Config{}.Validate()
	require.Error(t, err)
	require.Contains(t, err.Error(), "session_name")
	require.Contains(t, err.Error(), "output_folder")
	require.Contains(t, err.Error(), "log_file_name")
}
