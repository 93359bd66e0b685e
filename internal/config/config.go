// Package config resolves CLI settings from defaults, a TOML file, STEG_*
// environment variables and flags, in increasing order of precedence.
package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/svanichkin/steg"
	"github.com/svanichkin/steg/internal/carrier"
)

// Config holds the settings shared by every steg subcommand. Values are kept
// in their flag form and parsed by Validate.
type Config struct {
	Granularity int
	Compression string
	Format      string // output format; empty means use the output extension
	LogLevel    string
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		Granularity: int(steg.OneBit),
		Compression: steg.CompressionNone.String(),
		LogLevel:    zerolog.InfoLevel.String(),
	}
}

// Validate checks every field and normalises Compression, Format and LogLevel
// to lower case.
func (c *Config) Validate() error {
	if _, err := steg.ParseGranularity(strconv.Itoa(c.Granularity)); err != nil {
		return err
	}
	mode, err := steg.ParseCompression(c.Compression)
	if err != nil {
		return err
	}
	c.Compression = mode.String()

	c.Format = strings.ToLower(c.Format)
	if c.Format == "jpg" {
		c.Format = string(carrier.JPEG)
	} else if c.Format == "tif" {
		c.Format = string(carrier.TIFF)
	}
	if c.Format != "" && !carrier.Format(c.Format).Lossless() {
		switch carrier.Format(c.Format) {
		case carrier.JPEG, carrier.GIF:
			return fmt.Errorf("format %q: %w", c.Format, carrier.ErrLossyFormat)
		}
		return fmt.Errorf("format %q: %w", c.Format, carrier.ErrUnknownFormat)
	}

	if c.LogLevel == "" {
		c.LogLevel = zerolog.InfoLevel.String()
	}
	lvl, err := zerolog.ParseLevel(strings.ToLower(c.LogLevel))
	if err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	c.LogLevel = lvl.String()
	return nil
}

// Engine returns the embedding settings. Call Validate first.
func (c Config) Engine() (steg.Config, error) {
	g, err := steg.ParseGranularity(strconv.Itoa(c.Granularity))
	if err != nil {
		return steg.Config{}, err
	}
	mode, err := steg.ParseCompression(c.Compression)
	if err != nil {
		return steg.Config{}, err
	}
	return steg.Config{Granularity: g, Compression: mode}, nil
}

// Level returns the parsed log level, falling back to info.
func (c Config) Level() zerolog.Level {
	lvl, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil || c.LogLevel == "" {
		return zerolog.InfoLevel
	}
	return lvl
}

// configSetter applies values only for flags that were not set explicitly.
type configSetter struct {
	changed map[string]bool
}

func newConfigSetter(changed map[string]bool) *configSetter {
	return &configSetter{changed: changed}
}

// setString sets a string value if not empty and flag not changed.
func (s *configSetter) setString(flag, value string, dst *string) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value
}

// setInt sets an int value if positive and flag not changed.
func (s *configSetter) setInt(flag string, value int, dst *int) {
	if value <= 0 || s.changed[flag] {
		return
	}
	*dst = value
}

func (s *configSetter) setIntFromString(flag, value string, dst *int) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	v, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	*dst = v
	return nil
}
