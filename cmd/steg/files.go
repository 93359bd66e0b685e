package main

import (
	"fmt"
	"os"

	"github.com/svanichkin/steg/internal/carrier"
)

func loadCover(path string) (*carrier.Cover, error) {
	in, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer in.Close()

	c, err := carrier.Load(in)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return c, nil
}

// outputFormat picks the configured format, or the one implied by path.
func outputFormat(path string) (carrier.Format, error) {
	if cfg.Format != "" {
		return carrier.Format(cfg.Format), nil
	}
	return carrier.FormatFromPath(path)
}

// saveCover writes c to path. A partially written file is removed.
func saveCover(c *carrier.Cover, path string, f carrier.Format) error {
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := c.Encode(out, f); err != nil {
		out.Close()
		os.Remove(path)
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return out.Close()
}
