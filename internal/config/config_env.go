package config

import "os"

// ApplyEnvConfig applies STEG_* environment variables, skipping flags in
// changed. It fails if STEG_GRANULARITY is not a number.
func ApplyEnvConfig(cfg *Config, changed map[string]bool) error {
	s := newConfigSetter(changed)

	if err := s.setIntFromString("granularity", os.Getenv("STEG_GRANULARITY"), &cfg.Granularity); err != nil {
		return err
	}
	s.setString("compression", os.Getenv("STEG_COMPRESSION"), &cfg.Compression)
	s.setString("format", os.Getenv("STEG_FORMAT"), &cfg.Format)
	s.setString("log-level", os.Getenv("STEG_LOG_LEVEL"), &cfg.LogLevel)
	return nil
}
