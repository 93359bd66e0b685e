package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/svanichkin/steg"
)

func newEncodeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "encode",
		Short: "Embed a payload into a cover image",
		Args:  cobra.NoArgs,
		RunE:  runEncode,
	}
	cmd.Flags().StringP("input", "i", "", "cover image")
	cmd.Flags().StringP("output", "o", "", "stego image to write")
	cmd.Flags().StringP("message", "m", "", "payload given as text")
	cmd.Flags().StringP("payload", "p", "", "payload file ('-' for stdin)")
	cmd.MarkFlagRequired("input")
	cmd.MarkFlagRequired("output")
	return cmd
}

func runEncode(cmd *cobra.Command, args []string) error {
	inputPath, _ := cmd.Flags().GetString("input")
	outputPath, _ := cmd.Flags().GetString("output")
	message, _ := cmd.Flags().GetString("message")
	payloadPath, _ := cmd.Flags().GetString("payload")

	payload, err := readPayload(cmd, message, payloadPath)
	if err != nil {
		return err
	}

	format, err := outputFormat(outputPath)
	if err != nil {
		return err
	}
	if !format.Lossless() {
		return fmt.Errorf("output %s: %s would destroy the payload", outputPath, format)
	}

	cover, err := loadCover(inputPath)
	if err != nil {
		return err
	}
	if !cover.Format.Lossless() {
		log.Warn().Str("format", string(cover.Format)).Msg("cover was stored lossily; it is only used as pixel source")
	}

	ecfg, err := cfg.Engine()
	if err != nil {
		return err
	}
	enc := steg.NewEncoder(ecfg)
	enc.Log = log

	stego, err := enc.Encode(cover.Grid(), payload)
	var capErr *steg.CapacityError
	if errors.As(err, &capErr) {
		b := cover.Bounds()
		return fmt.Errorf("%w (cover %dx%d holds at most %d bytes at granularity %d)",
			err, b.Dx(), b.Dy(), steg.MaxPayloadLen(b.Dx()*b.Dy(), 3, ecfg.Granularity), ecfg.Granularity)
	}
	if err != nil {
		return err
	}
	if err := cover.Apply(stego); err != nil {
		return err
	}
	if err := saveCover(cover, outputPath, format); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Encoded %d bytes into %s (granularity=%d, compression=%s), wrote %s\n",
		len(payload), inputPath, ecfg.Granularity, ecfg.Compression, outputPath)
	return nil
}

func readPayload(cmd *cobra.Command, message, path string) ([]byte, error) {
	switch {
	case message != "" && path != "":
		return nil, errors.New("use either --message or --payload, not both")
	case message != "":
		return []byte(message), nil
	case path == "-":
		return io.ReadAll(cmd.InOrStdin())
	case path != "":
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading payload: %w", err)
		}
		return b, nil
	}
	return nil, errors.New("no payload: pass --message or --payload")
}
