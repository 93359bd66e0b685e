package main

import (
	"fmt"
	"math"

	"github.com/spf13/cobra"

	"github.com/svanichkin/steg/internal/analysis"
)

func newDiffCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "diff [cover] [stego]",
		Short: "Measure the distortion between a cover and its stego image",
		Args:  cobra.ExactArgs(2),
		RunE:  runDiff,
	}
}

func runDiff(cmd *cobra.Command, args []string) error {
	cover, err := loadCover(args[0])
	if err != nil {
		return err
	}
	stego, err := loadCover(args[1])
	if err != nil {
		return err
	}
	r, err := analysis.Distortion(cover.Image(), stego.Image())
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "Pixels:      %d\n", r.Pixels)
	fmt.Fprintf(w, "Changed:     %d channels (%.2f%%)\n", r.ChangedChannels, float64(r.ChangedChannels)/float64(r.Pixels*3)*100)
	fmt.Fprintf(w, "Max delta:   %d\n", r.MaxDelta)
	fmt.Fprintf(w, "Mean delta:  %.4f\n", r.MeanDelta)
	if math.IsInf(r.PSNR, 1) {
		fmt.Fprintln(w, "PSNR:        identical")
	} else {
		fmt.Fprintf(w, "PSNR:        %.2f dB\n", r.PSNR)
	}
	fmt.Fprintf(w, "Mean ΔE:     %.4f\n", r.MeanDeltaE)
	return nil
}
