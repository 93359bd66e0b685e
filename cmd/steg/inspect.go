package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/svanichkin/steg"
)

func newInspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect [stego-image]",
		Short: "Show the embedded header without extracting the payload",
		Args:  cobra.ExactArgs(1),
		RunE:  runInspect,
	}
}

func runInspect(cmd *cobra.Command, args []string) error {
	path := args[0]
	c, err := loadCover(path)
	if err != nil {
		return err
	}
	grid := c.Grid()
	h, err := steg.Inspect(grid)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	used := steg.ChannelsUsed(steg.HeaderLen, int(h.Length), h.Granularity)
	total := grid.PixelCount() * grid.Channels
	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "File:        %s (%s)\n", path, c.Format)
	fmt.Fprintf(w, "Dimensions:  %d x %d\n", grid.Width, grid.Height)
	fmt.Fprintf(w, "Version:     %d\n", h.Version)
	fmt.Fprintf(w, "Granularity: %d bit(s) per channel\n", h.Granularity)
	fmt.Fprintf(w, "Compression: %s\n", h.Compression)
	fmt.Fprintf(w, "Length:      %d bytes\n", h.Length)
	fmt.Fprintf(w, "Checksum:    %08x\n", h.Checksum)
	fmt.Fprintf(w, "Channels:    %d of %d (%.1f%%)\n", used, total, float64(used)/float64(total)*100)
	return nil
}
