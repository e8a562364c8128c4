package audiofile

import (
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/amafra/tonecapture/internal/dsp"
	"github.com/amafra/tonecapture/internal/errors"
)

// WAV format tags
const (
	wavFormatPCM        = 1
	wavFormatFloat      = 3
	wavFormatExtensible = 0xFFFE
)

// wavSampleFormat reports whether the decoder's data is IEEE float. The
// extensible sub-format is not parsed, so 32-bit extensible files are
// ambiguous and rejected.
func wavSampleFormat(decoder *wav.Decoder) (isFloat bool, err error) {
	switch decoder.WavAudioFormat {
	case wavFormatPCM:
		return false, nil
	case wavFormatFloat:
		if decoder.BitDepth != 32 {
			return false, fmt.Errorf("%w: %d-bit float", ErrUnsupportedBitDepth, decoder.BitDepth)
		}
		return true, nil
	case wavFormatExtensible:
		if decoder.BitDepth == 32 {
			return false, fmt.Errorf("%w: 32-bit extensible WAV", ErrUnsupportedFormat)
		}
		return false, nil
	default:
		return false, fmt.Errorf("%w: WAV format tag %d", ErrUnsupportedFormat, decoder.WavAudioFormat)
	}
}

func readWAVInfo(file *os.File) (AudioInfo, error) {
	decoder := wav.NewDecoder(file)
	decoder.ReadInfo()

	if !decoder.IsValidFile() {
		return AudioInfo{}, fmt.Errorf("%w: not a WAV file", ErrInvalidFile)
	}
	isFloat, err := wavSampleFormat(decoder)
	if err != nil {
		return AudioInfo{}, err
	}

	duration, err := decoder.Duration()
	if err != nil {
		return AudioInfo{}, fmt.Errorf("%w: %w", ErrInvalidFile, err)
	}

	return AudioInfo{
		SampleRate:   int(decoder.SampleRate),
		TotalSamples: int(math.Round(duration.Seconds() * float64(decoder.SampleRate))),
		NumChannels:  int(decoder.NumChans),
		BitDepth:     int(decoder.BitDepth),
		Float:        isFloat,
	}, nil
}

func decodeWAV(r io.ReadSeeker) (dsp.Buffer, error) {
	decoder := wav.NewDecoder(r)
	decoder.ReadInfo()
	if !decoder.IsValidFile() {
		return dsp.Buffer{}, fmt.Errorf("%w: not a WAV file", ErrInvalidFile)
	}

	if decoder.BitDepth != 16 && decoder.BitDepth != 24 && decoder.BitDepth != 32 {
		return dsp.Buffer{}, fmt.Errorf("%w: %d", ErrUnsupportedBitDepth, decoder.BitDepth)
	}
	isFloat, err := wavSampleFormat(decoder)
	if err != nil {
		return dsp.Buffer{}, err
	}

	pcm, err := decoder.FullPCMBuffer()
	if err != nil {
		return dsp.Buffer{}, fmt.Errorf("%w: %w", ErrInvalidFile, err)
	}

	channels := int(decoder.NumChans)
	buf := dsp.Buffer{SampleRate: float64(decoder.SampleRate)}
	if isFloat {
		// 32-bit samples arrive as their raw bit patterns.
		samples := make([]float64, len(pcm.Data))
		for i, v := range pcm.Data {
			samples[i] = float64(math.Float32frombits(uint32(int32(v))))
		}
		buf.Samples = mixDownFloat(samples, channels)
		return buf, nil
	}

	divisor, err := pcmDivisor(int(decoder.BitDepth))
	if err != nil {
		return dsp.Buffer{}, err
	}
	buf.Samples = mixDown(pcm.Data, channels, divisor)
	return buf, nil
}

// Encode writes buf as a mono PCM WAV file at bitDepth (16 or 24),
// creating parent directories. Samples are clamped to [-1, 1].
func Encode(path string, buf dsp.Buffer, bitDepth int) error {
	if bitDepth != 16 && bitDepth != 24 {
		return fmt.Errorf("%w: %d", ErrUnsupportedBitDepth, bitDepth)
	}
	if buf.SampleRate <= 0 || buf.SampleRate != math.Trunc(buf.SampleRate) {
		return fmt.Errorf("%w: sample rate %g is not a positive integer", dsp.ErrInvalidSampleRate, buf.SampleRate)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.New(fmt.Errorf("failed to create directories: %w", err)).
			Component("audiofile").
			Category(errors.CategoryFileIO).
			FileContext(path, 0).
			Build()
	}

	outFile, err := os.Create(path) //nolint:gosec // output path chosen by the user
	if err != nil {
		return errors.FileError(fmt.Errorf("failed to create file: %w", err), path, 0)
	}
	defer func() { _ = outFile.Close() }()

	rate := int(buf.SampleRate)
	enc := wav.NewEncoder(outFile, rate, bitDepth, 1, 1)

	fullScale := float64(int64(1)<<(bitDepth-1)) - 1
	data := make([]int, len(buf.Samples))
	for i, v := range buf.Samples {
		data[i] = int(math.Round(clamp(v) * fullScale))
	}

	if err := enc.Write(&audio.IntBuffer{
		Data:           data,
		Format:         &audio.Format{SampleRate: rate, NumChannels: 1},
		SourceBitDepth: bitDepth,
	}); err != nil {
		return fmt.Errorf("failed to write to WAV encoder: %w", err)
	}

	if err := enc.Close(); err != nil {
		return fmt.Errorf("failed to finalize WAV file: %w", err)
	}
	return outFile.Close()
}

func clamp(v float64) float64 {
	switch {
	case math.IsNaN(v):
		return 0
	case v > 1:
		return 1
	case v < -1:
		return -1
	}
	return v
}
