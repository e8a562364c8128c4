package audiofile

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/amafra/tonecapture/internal/dsp"
	"github.com/amafra/tonecapture/internal/errors"
)

// AudioInfo describes an audio file without decoding its samples.
type AudioInfo struct {
	SampleRate   int
	TotalSamples int // per channel
	NumChannels  int
	BitDepth     int
	Float        bool // IEEE float samples
}

// Format identifies a supported container.
type Format string

const (
	FormatWAV  Format = "wav"
	FormatFLAC Format = "flac"
)

// DetectFormat maps a file extension to a Format.
func DetectFormat(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".wav", ".wave":
		return FormatWAV, nil
	case ".flac":
		return FormatFLAC, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// Decode reads the file at path into a mono buffer. Multi-channel audio is
// averaged across channels.
func Decode(path string) (dsp.Buffer, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return dsp.Buffer{}, err
	}

	file, err := os.Open(path) //nolint:gosec // paths come from the catalog or CLI
	if err != nil {
		return dsp.Buffer{}, errors.New(fmt.Errorf("open audio file: %w", err)).
			Component("audiofile").
			Category(errors.CategoryFileIO).
			FileContext(path, 0).
			Build()
	}
	defer func() { _ = file.Close() }()

	var buf dsp.Buffer
	switch format {
	case FormatWAV:
		buf, err = decodeWAV(file)
	case FormatFLAC:
		buf, err = decodeFLAC(file)
	}
	if err != nil {
		return dsp.Buffer{}, fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	return buf, nil
}

// Info reads the header of the file at path.
func Info(path string) (AudioInfo, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return AudioInfo{}, err
	}

	file, err := os.Open(path) //nolint:gosec // paths come from the catalog or CLI
	if err != nil {
		return AudioInfo{}, errors.FileError(fmt.Errorf("open audio file: %w", err), path, 0)
	}
	defer func() { _ = file.Close() }()

	if format == FormatFLAC {
		return readFLACInfo(file)
	}
	return readWAVInfo(file)
}

// Decoder loads tone file audio. FileDecoder is the production
// implementation; tests substitute their own.
type Decoder interface {
	Decode(ctx context.Context, path string) (dsp.Buffer, error)
}

// FileDecoder decodes files from the local filesystem.
type FileDecoder struct{}

// Decode implements Decoder. Cancellation is checked before any I/O.
func (FileDecoder) Decode(ctx context.Context, path string) (dsp.Buffer, error) {
	if err := ctx.Err(); err != nil {
		return dsp.Buffer{}, err
	}
	return Decode(path)
}

// pcmDivisor returns the full-scale value for signed PCM at bitDepth.
func pcmDivisor(bitDepth int) (float64, error) {
	switch bitDepth {
	case 8, 16, 24, 32:
		return float64(int64(1) << (bitDepth - 1)), nil
	default:
		return 0, fmt.Errorf("%w: %d", ErrUnsupportedBitDepth, bitDepth)
	}
}

// mixDownFloat averages interleaved float frames into mono samples.
func mixDownFloat(data []float64, channels int) []float64 {
	if channels <= 1 {
		return data
	}
	frames := len(data) / channels
	out := make([]float64, frames)
	for i := range frames {
		var sum float64
		for c := range channels {
			sum += data[i*channels+c]
		}
		out[i] = sum / float64(channels)
	}
	return out
}

// mixDown averages interleaved integer frames into mono float samples.
func mixDown(data []int, channels int, divisor float64) []float64 {
	if channels < 1 {
		channels = 1
	}
	frames := len(data) / channels
	out := make([]float64, frames)
	for i := range frames {
		var sum int
		for c := range channels {
			sum += data[i*channels+c]
		}
		out[i] = float64(sum) / float64(channels) / divisor
	}
	return out
}
