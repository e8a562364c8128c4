// Package verify provides the verify command, which prints the catalog
// contents as text or YAML.
package verify

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/amafra/tonecapture/internal/audiofile"
	"github.com/amafra/tonecapture/internal/catalog"
	"github.com/amafra/tonecapture/internal/observability"
	"github.com/amafra/tonecapture/internal/runtime"
)

// Output formats
const (
	FormatText = "text"
	FormatYAML = "yaml"
)

// Report is the catalog contents in display form.
type Report struct {
	Manufacturers []ManufacturerEntry    `yaml:"manufacturers"`
	Devices       []DeviceEntry          `yaml:"devices"`
	ToneFiles     []ToneFileEntry        `yaml:"tone_files"`
	Metrics       []observability.Sample `yaml:"metrics,omitempty"`
}

// ManufacturerEntry is one manufacturer of a Report.
type ManufacturerEntry struct {
	ID   uint   `yaml:"id"`
	Name string `yaml:"name"`
}

// DeviceEntry is one device of a Report.
type DeviceEntry struct {
	ID           uint   `yaml:"id"`
	Kind         string `yaml:"kind"`
	Name         string `yaml:"name"`
	Manufacturer string `yaml:"manufacturer,omitempty"`
	display      string
}

// ToneFileEntry is one tone file of a Report.
type ToneFileEntry struct {
	ID           uint         `yaml:"id"`
	Kind         string       `yaml:"kind"`
	Path         string       `yaml:"path"`
	Filename     string       `yaml:"filename"`
	Notes        string       `yaml:"notes,omitempty"`
	HasEmbedding bool         `yaml:"has_embedding"`
	Audio        *AudioEntry  `yaml:"audio,omitempty"`
	AudioError   string       `yaml:"audio_error,omitempty"`
	Chain        []ChainEntry `yaml:"chain,omitempty"`
	display      string
}

// AudioEntry is the header of the file a tone file points at.
type AudioEntry struct {
	SampleRate int  `yaml:"sample_rate"`
	Samples    int  `yaml:"samples"`
	Channels   int  `yaml:"channels"`
	BitDepth   int  `yaml:"bit_depth"`
	Float      bool `yaml:"float,omitempty"`
}

func (a AudioEntry) String() string {
	format := "PCM"
	if a.Float {
		format = "float"
	}
	return fmt.Sprintf("%d Hz, %d-bit %s, %d ch, %d samples", a.SampleRate, a.BitDepth, format, a.Channels, a.Samples)
}

// ChainEntry is one chain position of a ToneFileEntry.
type ChainEntry struct {
	Order  int    `yaml:"order"`
	Role   string `yaml:"role,omitempty"`
	Device string `yaml:"device"`
}

// Command creates and returns the verify command
func Command(rc *runtime.Context) *cobra.Command {
	var format string
	var withMetrics bool

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Print the catalog contents",
		Long:  `Verify lists manufacturers, devices by kind and tone files with their device chains.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := rc.Catalog()
			if err != nil {
				return err
			}

			report, err := BuildReport(rc.WithRunID(cmd.Context()), cat)
			if err != nil {
				return err
			}
			if withMetrics {
				if report.Metrics, err = rc.Metrics.Snapshot(); err != nil {
					return err
				}
			}

			return Write(cmd.OutOrStdout(), report, format)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", FormatText, "Output format: text, yaml")
	cmd.Flags().BoolVar(&withMetrics, "metrics", false, "Append the metrics recorded during this run")

	return cmd
}

// BuildReport reads the whole catalog. Tone file headers are read from disk;
// files that cannot be read are reported, not treated as errors.
func BuildReport(ctx context.Context, cat *catalog.Catalog) (*Report, error) {
	report := &Report{}

	manufacturers, err := cat.ListManufacturers(ctx)
	if err != nil {
		return nil, err
	}
	for _, m := range manufacturers {
		report.Manufacturers = append(report.Manufacturers, ManufacturerEntry{ID: m.ID, Name: m.Name})
	}

	devices, err := cat.ListDevices(ctx, "")
	if err != nil {
		return nil, err
	}
	for _, d := range devices {
		entry := DeviceEntry{ID: d.Base().ID, Kind: string(d.Kind()), Name: d.Base().Name, display: d.String()}
		if m := d.Base().Manufacturer; m != nil {
			entry.Manufacturer = m.Name
		}
		report.Devices = append(report.Devices, entry)
	}

	toneFiles, err := cat.ListToneFiles(ctx, "")
	if err != nil {
		return nil, err
	}
	for _, tf := range toneFiles {
		base := tf.Base()
		entry := ToneFileEntry{
			ID:           base.ID,
			Kind:         string(tf.Kind()),
			Path:         base.Path,
			Filename:     base.Filename,
			Notes:        base.Notes,
			HasEmbedding: base.Embedding != nil,
			display:      tf.String(),
		}
		if info, err := audiofile.Info(base.Path); err != nil {
			entry.AudioError = err.Error()
		} else {
			entry.Audio = &AudioEntry{
				SampleRate: info.SampleRate,
				Samples:    info.TotalSamples,
				Channels:   info.NumChannels,
				BitDepth:   info.BitDepth,
				Float:      info.Float,
			}
		}
		for _, link := range base.Chain {
			entry.Chain = append(entry.Chain, ChainEntry{Order: link.Order, Role: link.Role, Device: link.Device.String()})
		}
		report.ToneFiles = append(report.ToneFiles, entry)
	}

	return report, nil
}

// Write renders report in format.
func Write(w io.Writer, report *Report, format string) error {
	switch strings.ToLower(format) {
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(report); err != nil {
			return fmt.Errorf("error encoding report: %w", err)
		}
		return enc.Close()
	case FormatText, "":
		return writeText(w, report)
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

// deviceSections lists the device kinds in print order.
var deviceSections = []struct {
	kind  catalog.DeviceKind
	title string
}{
	{catalog.KindSpeaker, "Speakers"},
	{catalog.KindMicrophone, "Microphones"},
	{catalog.KindAmplifier, "Amplifiers"},
	{catalog.KindPedal, "Pedals"},
}

func writeText(w io.Writer, report *Report) error {
	var b strings.Builder

	b.WriteString("--- Manufacturers ---\n")
	for _, m := range report.Manufacturers {
		fmt.Fprintf(&b, "Manufacturer(%s)\n", m.Name)
	}

	for _, section := range deviceSections {
		fmt.Fprintf(&b, "\n--- %s ---\n", section.title)
		for _, d := range report.Devices {
			if d.Kind == string(section.kind) {
				b.WriteString(d.String())
				b.WriteByte('\n')
			}
		}
	}

	for _, kind := range []catalog.ToneFileKind{catalog.KindIR, catalog.KindNAM} {
		fmt.Fprintf(&b, "\n--- %s Files ---\n", strings.ToUpper(string(kind)))
		for _, tf := range report.ToneFiles {
			if tf.Kind != string(kind) {
				continue
			}
			b.WriteString(tf.String())
			b.WriteByte('\n')
			fmt.Fprintf(&b, "  Path: %s\n", tf.Path)
			fmt.Fprintf(&b, "  Notes: %s\n", tf.Notes)
			if tf.Audio != nil {
				fmt.Fprintf(&b, "  Audio: %s\n", tf.Audio)
			} else if tf.AudioError != "" {
				fmt.Fprintf(&b, "  Audio: unavailable (%s)\n", tf.AudioError)
			}
			b.WriteString("  Devices:\n")
			for _, link := range tf.Chain {
				fmt.Fprintf(&b, "    - %s\n", link.Device)
			}
		}
	}

	if len(report.Metrics) > 0 {
		b.WriteString("\n--- Metrics ---\n")
		for _, s := range report.Metrics {
			b.WriteString(s.String())
			b.WriteByte('\n')
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// String returns the device display form, falling back to its fields.
func (d DeviceEntry) String() string {
	if d.display != "" {
		return d.display
	}
	return fmt.Sprintf("%s(%s)", d.Kind, strings.TrimSpace(d.Manufacturer+" "+d.Name))
}

// String returns the tone file display form, falling back to its fields.
func (tf ToneFileEntry) String() string {
	if tf.display != "" {
		return tf.display
	}
	return fmt.Sprintf("%s(%s)", tf.Kind, tf.Filename)
}
