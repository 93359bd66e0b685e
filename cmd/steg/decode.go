package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/svanichkin/steg"
)

func newDecodeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "decode [stego-image]",
		Short: "Extract the payload from a stego image",
		Args:  cobra.ExactArgs(1),
		RunE:  runDecode,
	}
	cmd.Flags().StringP("output", "o", "", "file to write the payload to (default: stdout)")
	return cmd
}

func runDecode(cmd *cobra.Command, args []string) error {
	outputPath, _ := cmd.Flags().GetString("output")

	c, err := loadCover(args[0])
	if err != nil {
		return err
	}
	dec := steg.NewDecoder()
	dec.Log = log
	payload, err := dec.Decode(c.Grid())
	if err != nil {
		return fmt.Errorf("%s: %w", args[0], err)
	}

	if outputPath == "" {
		_, err := cmd.OutOrStdout().Write(payload)
		return err
	}
	if err := os.WriteFile(outputPath, payload, 0o644); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	log.Info().Int("bytes", len(payload)).Str("output", outputPath).Msg("payload extracted")
	return nil
}
