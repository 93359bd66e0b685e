package main

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/svanichkin/steg"
)

func newCapacityCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "capacity [image...]",
		Short: "Report how many payload bytes each image can carry",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runCapacity,
	}
	return cmd
}

type capacityRow struct {
	path          string
	width, height int
	max           [steg.FourBits + 1]int
}

func runCapacity(cmd *cobra.Command, args []string) error {
	rows, err := scanCapacity(cmd.Context(), args)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "image\tsize\tg=1\tg=2\tg=3\tg=4")
	for _, r := range rows {
		fmt.Fprintf(tw, "%s\t%dx%d", r.path, r.width, r.height)
		for g := steg.OneBit; g <= steg.FourBits; g++ {
			fmt.Fprintf(tw, "\t%d", r.max[g])
		}
		fmt.Fprintln(tw)
	}
	return tw.Flush()
}

// scanCapacity loads every image concurrently. Rows keep the order of paths.
func scanCapacity(ctx context.Context, paths []string) ([]capacityRow, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	rows := make([]capacityRow, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			c, err := loadCover(path)
			if err != nil {
				return err
			}
			b := c.Bounds()
			row := capacityRow{path: path, width: b.Dx(), height: b.Dy()}
			for gr := steg.OneBit; gr <= steg.FourBits; gr++ {
				row.max[gr] = steg.MaxPayloadLen(b.Dx()*b.Dy(), 3, gr)
			}
			rows[i] = row
			log.Debug().Str("image", path).Int("pixels", b.Dx()*b.Dy()).Msg("scanned")
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return rows, nil
}
