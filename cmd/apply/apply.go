// Package apply provides the apply command, which runs a dry recording
// through an impulse response.
package apply

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/amafra/tonecapture/internal/audiofile"
	"github.com/amafra/tonecapture/internal/dsp"
	"github.com/amafra/tonecapture/internal/logger"
	"github.com/amafra/tonecapture/internal/runtime"
)

// Test tone used when no dry input is given.
const (
	defaultToneFrequency = 440.0
	defaultToneRate      = 48000.0
)

type options struct {
	toneFileID uint
	irPath     string
	output     string
	bitDepth   int
	frequency  float64
	duration   time.Duration
}

// Command creates and returns the apply command
func Command(rc *runtime.Context) *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "apply [dry.wav|dry.flac]",
		Short: "Apply an impulse response to a dry recording",
		Long: `Apply convolves a dry WAV or FLAC recording with an impulse response and writes the
normalized result as a mono WAV. The impulse response is a cataloged IR file (--ir-id) or any
audio file (--ir). Without a dry input a sine test tone is used.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if (opts.toneFileID == 0) == (opts.irPath == "") {
				return fmt.Errorf("exactly one of --ir-id or --ir is required")
			}
			if opts.bitDepth == 0 {
				opts.bitDepth = rc.Settings.Audio.OutputBitDepth
			}

			var dryPath string
			if len(args) == 1 {
				dryPath = args[0]
			}
			return run(cmd, rc, opts, dryPath)
		},
	}

	cmd.Flags().UintVar(&opts.toneFileID, "ir-id", 0, "Catalog id of the IR file to apply")
	cmd.Flags().StringVar(&opts.irPath, "ir", "", "Path of an impulse response file to apply")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "wet.wav", "Output WAV path")
	cmd.Flags().IntVar(&opts.bitDepth, "bits", 0, "Output bit depth, 16 or 24 (default from config)")
	cmd.Flags().Float64Var(&opts.frequency, "tone", defaultToneFrequency, "Test tone frequency in Hz when no dry input is given")
	cmd.Flags().DurationVar(&opts.duration, "duration", 2*time.Second, "Test tone duration when no dry input is given")

	return cmd
}

func run(cmd *cobra.Command, rc *runtime.Context, opts *options, dryPath string) error {
	ctx := rc.WithRunID(cmd.Context())
	log := rc.Logger("apply").WithContext(ctx)

	dry, err := loadDry(dryPath, opts)
	if err != nil {
		return err
	}

	p, err := rc.Processor()
	if err != nil {
		return err
	}

	var wet dsp.Buffer
	if opts.toneFileID != 0 {
		wet, err = p.ApplyToneFile(ctx, dry, opts.toneFileID)
	} else {
		wet, err = p.ApplyFile(ctx, dry, opts.irPath)
	}
	if err != nil {
		return err
	}

	if err := audiofile.Encode(opts.output, wet, opts.bitDepth); err != nil {
		return err
	}

	log.Info("wet signal written",
		logger.String("output", opts.output),
		logger.Int("samples", wet.Len()),
		logger.Duration("length", wet.Duration()))
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%s)\n", opts.output, wet)
	return err
}

func loadDry(path string, opts *options) (dsp.Buffer, error) {
	if path == "" {
		return dsp.SineWave(opts.frequency, opts.duration, defaultToneRate, dsp.DefaultToneAmplitude)
	}
	return audiofile.Decode(path)
}
