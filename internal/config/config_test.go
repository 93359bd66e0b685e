package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"

	"github.com/svanichkin/steg"
	"github.com/svanichkin/steg/internal/carrier"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name     string
		cfg      Config
		expected Config
		wantErr  error
	}{
		{
			name:     "defaults are valid",
			cfg:      DefaultConfig(),
			expected: Config{Granularity: 1, Compression: "none", LogLevel: "info"},
		},
		{
			name:     "normalises names",
			cfg:      Config{Granularity: 3, Compression: "GZ", Format: "TIF", LogLevel: "DEBUG"},
			expected: Config{Granularity: 3, Compression: "gzip", Format: "tiff", LogLevel: "debug"},
		},
		{
			name:     "empty log level falls back to info",
			cfg:      Config{Granularity: 4, Compression: "zstd", Format: "qoi"},
			expected: Config{Granularity: 4, Compression: "zstd", Format: "qoi", LogLevel: "info"},
		},
		{
			name:    "granularity out of range",
			cfg:     Config{Granularity: 5, Compression: "none"},
			wantErr: steg.ErrInvalidGranularity,
		},
		{
			name:    "unknown compression",
			cfg:     Config{Granularity: 1, Compression: "lzma"},
			wantErr: steg.ErrInvalidCompression,
		},
		{
			name:    "lossy output format",
			cfg:     Config{Granularity: 1, Format: "jpg"},
			wantErr: carrier.ErrLossyFormat,
		},
		{
			name:    "unknown output format",
			cfg:     Config{Granularity: 1, Format: "webp"},
			wantErr: carrier.ErrUnknownFormat,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.cfg
			err := cfg.Validate()
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Validate: %v", err)
			}
			if cfg != tt.expected {
				t.Errorf("got %+v, want %+v", cfg, tt.expected)
			}
		})
	}
}

func TestConfigValidate_BadLogLevel(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LogLevel = "loud"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for unknown log level")
	}
}

func TestConfigEngine(t *testing.T) {
	cfg := Config{Granularity: 2, Compression: "zstd"}
	got, err := cfg.Engine()
	if err != nil {
		t.Fatalf("Engine: %v", err)
	}
	want := steg.Config{Granularity: steg.TwoBits, Compression: steg.CompressionZstd}
	if got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}
	if _, err := (Config{Granularity: 0}).Engine(); !errors.Is(err, steg.ErrInvalidGranularity) {
		t.Fatalf("expected ErrInvalidGranularity, got %v", err)
	}
}

func TestConfigLevel(t *testing.T) {
	if got := (Config{LogLevel: "trace"}).Level(); got != zerolog.TraceLevel {
		t.Errorf("trace: got %v", got)
	}
	if got := (Config{}).Level(); got != zerolog.InfoLevel {
		t.Errorf("empty: got %v", got)
	}
}

func TestApplyFileConfig(t *testing.T) {
	tests := []struct {
		name       string
		fileConfig FileConfig
		changed    map[string]bool
		initial    Config
		expected   Config
	}{
		{
			name:       "applies all values",
			fileConfig: FileConfig{Granularity: 3, Compression: "gzip", Format: "bmp", LogLevel: "warn"},
			changed:    map[string]bool{},
			initial:    DefaultConfig(),
			expected:   Config{Granularity: 3, Compression: "gzip", Format: "bmp", LogLevel: "warn"},
		},
		{
			name:       "respects changed flags",
			fileConfig: FileConfig{Granularity: 3, Compression: "gzip"},
			changed:    map[string]bool{"granularity": true},
			initial:    Config{Granularity: 2, Compression: "none"},
			expected:   Config{Granularity: 2, Compression: "gzip"},
		},
		{
			name:       "empty values keep current",
			fileConfig: FileConfig{},
			changed:    map[string]bool{},
			initial:    Config{Granularity: 4, Compression: "zstd", LogLevel: "debug"},
			expected:   Config{Granularity: 4, Compression: "zstd", LogLevel: "debug"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.initial
			ApplyFileConfig(&cfg, tt.fileConfig, tt.changed)
			if cfg != tt.expected {
				t.Errorf("got %+v, want %+v", cfg, tt.expected)
			}
		})
	}
}

func TestLoadFileConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `granularity = 2
compression = "zstd"
format = "qoi"
log_level = "debug"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	fc, err := LoadFileConfig(path)
	if err != nil {
		t.Fatalf("LoadFileConfig: %v", err)
	}
	want := FileConfig{Granularity: 2, Compression: "zstd", Format: "qoi", LogLevel: "debug"}
	if fc != want {
		t.Fatalf("got %+v, want %+v", fc, want)
	}
	if !FileExists(path) {
		t.Fatal("FileExists returned false for written file")
	}
	if FileExists(filepath.Join(dir, "missing.toml")) {
		t.Fatal("FileExists returned true for missing file")
	}
}

func TestLoadFileConfig_Errors(t *testing.T) {
	dir := t.TempDir()
	if _, err := LoadFileConfig(filepath.Join(dir, "missing.toml")); err == nil {
		t.Fatal("expected error for missing file")
	}
	bad := filepath.Join(dir, "bad.toml")
	if err := os.WriteFile(bad, []byte("granularity = \"two\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := LoadFileConfig(bad); err == nil {
		t.Fatal("expected error for mistyped value")
	}
}

func TestDefaultConfigPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	if got, want := DefaultConfigPath(), filepath.Join(home, ".steg", "config.toml"); got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestApplyEnvConfig(t *testing.T) {
	tests := []struct {
		name     string
		env      map[string]string
		changed  map[string]bool
		expected Config
		wantErr  bool
	}{
		{
			name: "applies all variables",
			env: map[string]string{
				"STEG_GRANULARITY": "4",
				"STEG_COMPRESSION": "gzip",
				"STEG_FORMAT":      "tiff",
				"STEG_LOG_LEVEL":   "trace",
			},
			changed:  map[string]bool{},
			expected: Config{Granularity: 4, Compression: "gzip", Format: "tiff", LogLevel: "trace"},
		},
		{
			name:     "flags win over environment",
			env:      map[string]string{"STEG_GRANULARITY": "4", "STEG_COMPRESSION": "gzip"},
			changed:  map[string]bool{"granularity": true, "compression": true},
			expected: DefaultConfig(),
		},
		{
			name:    "non-numeric granularity",
			env:     map[string]string{"STEG_GRANULARITY": "two"},
			changed: map[string]bool{},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, k := range []string{"STEG_GRANULARITY", "STEG_COMPRESSION", "STEG_FORMAT", "STEG_LOG_LEVEL"} {
				t.Setenv(k, tt.env[k])
			}
			cfg := DefaultConfig()
			err := ApplyEnvConfig(&cfg, tt.changed)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("ApplyEnvConfig: %v", err)
			}
			if cfg != tt.expected {
				t.Errorf("got %+v, want %+v", cfg, tt.expected)
			}
		})
	}
}

func TestPrecedence(t *testing.T) {
	// default < file < env < flag
	cfg := DefaultConfig()
	cfg.Compression = "zstd" // set by flag
	changed := map[string]bool{"compression": true}

	ApplyFileConfig(&cfg, FileConfig{Granularity: 2, Compression: "gzip", Format: "bmp"}, changed)
	t.Setenv("STEG_GRANULARITY", "3")
	t.Setenv("STEG_COMPRESSION", "none")
	t.Setenv("STEG_FORMAT", "")
	t.Setenv("STEG_LOG_LEVEL", "")
	if err := ApplyEnvConfig(&cfg, changed); err != nil {
		t.Fatalf("ApplyEnvConfig: %v", err)
	}

	want := Config{Granularity: 3, Compression: "zstd", Format: "bmp", LogLevel: "info"}
	if cfg != want {
		t.Fatalf("got %+v, want %+v", cfg, want)
	}
}
