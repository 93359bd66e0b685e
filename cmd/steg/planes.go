package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/svanichkin/steg/internal/analysis"
	"github.com/svanichkin/steg/internal/carrier"
)

func newPlanesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "planes",
		Short: "Render the low bit planes of an image",
		Args:  cobra.NoArgs,
		RunE:  runPlanes,
	}
	cmd.Flags().StringP("input", "i", "", "image to analyse")
	cmd.Flags().StringP("output", "o", "", "image to write the planes to")
	cmd.Flags().Int("bits", 1, "number of low bits to show (1-4)")
	cmd.MarkFlagRequired("input")
	cmd.MarkFlagRequired("output")
	return cmd
}

func runPlanes(cmd *cobra.Command, args []string) error {
	inputPath, _ := cmd.Flags().GetString("input")
	outputPath, _ := cmd.Flags().GetString("output")
	bits, _ := cmd.Flags().GetInt("bits")

	format, err := outputFormat(outputPath)
	if err != nil {
		return err
	}
	c, err := loadCover(inputPath)
	if err != nil {
		return err
	}
	plane, err := analysis.LSBPlane(c.Image(), bits)
	if err != nil {
		return err
	}
	if err := saveCover(carrier.FromImage(plane, format), outputPath, format); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d-bit plane of %s to %s\n", bits, inputPath, outputPath)
	return nil
}
