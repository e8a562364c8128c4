package audiofile

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/tphakala/flac"

	"github.com/amafra/tonecapture/internal/dsp"
	"github.com/amafra/tonecapture/internal/errors"
)

func readFLACInfo(file *os.File) (AudioInfo, error) {
	decoder, err := flac.NewDecoder(file)
	if err != nil {
		return AudioInfo{}, fmt.Errorf("%w: %w", ErrInvalidFile, err)
	}

	return AudioInfo{
		SampleRate:   decoder.SampleRate,
		TotalSamples: int(decoder.TotalSamples),
		NumChannels:  decoder.NChannels,
		BitDepth:     decoder.BitsPerSample,
	}, nil
}

func decodeFLAC(r io.Reader) (dsp.Buffer, error) {
	decoder, err := flac.NewDecoder(r)
	if err != nil {
		return dsp.Buffer{}, fmt.Errorf("%w: %w", ErrInvalidFile, err)
	}

	divisor, err := pcmDivisor(decoder.BitsPerSample)
	if err != nil {
		return dsp.Buffer{}, err
	}

	bytesPerSample := decoder.BitsPerSample / 8
	channels := max(decoder.NChannels, 1)
	data := make([]int, 0, int(decoder.TotalSamples)*channels)

	for {
		frame, err := decoder.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return dsp.Buffer{}, fmt.Errorf("%w: %w", ErrInvalidFile, err)
		}

		for i := 0; i+bytesPerSample <= len(frame); i += bytesPerSample {
			data = append(data, pcmSample(frame[i:i+bytesPerSample]))
		}
	}

	return dsp.Buffer{
		Samples:    mixDown(data, channels, divisor),
		SampleRate: float64(decoder.SampleRate),
	}, nil
}

// pcmSample decodes one little-endian signed sample of len(b) bytes.
func pcmSample(b []byte) int {
	switch len(b) {
	case 1:
		return int(int8(b[0]))
	case 2:
		return int(int16(binary.LittleEndian.Uint16(b)))
	case 3:
		// shift into the top of an int32 to sign-extend
		return int(int32(uint32(b[0])<<8|uint32(b[1])<<16|uint32(b[2])<<24) >> 8)
	default:
		return int(int32(binary.LittleEndian.Uint32(b)))
	}
}
