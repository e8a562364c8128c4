// Package average provides the average command, which blends several
// cataloged impulse responses into one.
package average

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/amafra/tonecapture/internal/audiofile"
	"github.com/amafra/tonecapture/internal/logger"
	"github.com/amafra/tonecapture/internal/runtime"
)

// Command creates and returns the average command
func Command(rc *runtime.Context) *cobra.Command {
	var (
		output   string
		rate     float64
		bitDepth int
	)

	cmd := &cobra.Command{
		Use:   "average IR_ID [IR_ID...]",
		Short: "Average cataloged impulse responses into one",
		Long:  `Average loads the given IR files, resamples them to a common rate, averages them sample by sample and writes the normalized result as a mono WAV.`,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids := make([]uint, len(args))
			for i, arg := range args {
				id, err := strconv.ParseUint(arg, 10, 0)
				if err != nil || id == 0 {
					return fmt.Errorf("invalid id %q", arg)
				}
				ids[i] = uint(id)
			}
			if bitDepth == 0 {
				bitDepth = rc.Settings.Audio.OutputBitDepth
			}

			p, err := rc.Processor()
			if err != nil {
				return err
			}

			ctx := rc.WithRunID(cmd.Context())
			out, err := p.AverageToneFiles(ctx, ids, rate)
			if err != nil {
				return err
			}
			if err := audiofile.Encode(output, out, bitDepth); err != nil {
				return err
			}

			rc.Logger("average").WithContext(ctx).Info("average written",
				logger.String("output", output),
				logger.Int("inputs", len(ids)))
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%s)\n", output, out)
			return err
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "average.wav", "Output WAV path")
	cmd.Flags().Float64Var(&rate, "rate", 48000, "Sample rate of the averaged impulse response")
	cmd.Flags().IntVar(&bitDepth, "bits", 0, "Output bit depth, 16 or 24 (default from config)")

	return cmd
}
