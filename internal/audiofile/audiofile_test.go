package audiofile

import (
	"context"
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amafra/tonecapture/internal/dsp"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	t.Parallel()

	tone, err := dsp.SineWave(440, 20*time.Millisecond, 48000, dsp.DefaultToneAmplitude)
	require.NoError(t, err)

	for _, depth := range []int{16, 24} {
		path := filepath.Join(t.TempDir(), "nested", "tone.wav")
		require.NoError(t, Encode(path, tone, depth))

		decoded, err := Decode(path)
		require.NoError(t, err)

		assert.InDelta(t, 48000.0, decoded.SampleRate, 0)
		require.Equal(t, tone.Len(), decoded.Len())
		assert.InDeltaSlice(t, tone.Samples, decoded.Samples, 1e-4, "bit depth %d", depth)

		info, err := Info(path)
		require.NoError(t, err)
		assert.Equal(t, AudioInfo{SampleRate: 48000, TotalSamples: tone.Len(), NumChannels: 1, BitDepth: depth}, info)
	}
}

func TestEncodeClampsSamples(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "clip.wav")
	require.NoError(t, Encode(path, dsp.NewBuffer([]float64{2, -3, 0.5}, 44100), 16))

	decoded, err := Decode(path)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{1, -1, 0.5}, decoded.Samples, 1e-4)
}

func TestEncodeRejectsBadInput(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	err := Encode(filepath.Join(dir, "a.wav"), dsp.NewBuffer([]float64{0}, 44100), 32)
	require.ErrorIs(t, err, ErrUnsupportedBitDepth)

	err = Encode(filepath.Join(dir, "b.wav"), dsp.NewBuffer([]float64{0}, 44100.5), 16)
	require.ErrorIs(t, err, dsp.ErrInvalidSampleRate)
}

func TestDecodeMixesStereoToMono(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "stereo.wav")
	f, err := os.Create(path)
	require.NoError(t, err)

	enc := wav.NewEncoder(f, 44100, 16, 2, 1)
	require.NoError(t, enc.Write(&audio.IntBuffer{
		Data:           []int{16384, 0, -16384, -16384, 8192, 24576},
		Format:         &audio.Format{SampleRate: 44100, NumChannels: 2},
		SourceBitDepth: 16,
	}))
	require.NoError(t, enc.Close())
	require.NoError(t, f.Close())

	decoded, err := Decode(path)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{0.25, -0.5, 0.5}, decoded.Samples, 1e-9)
}

// writeTaggedWAV writes raw interleaved frames under the given WAV format tag.
func writeTaggedWAV(t *testing.T, path string, bitDepth, channels, formatTag int, data []int) {
	t.Helper()

	f, err := os.Create(path) //nolint:gosec // test path from t.TempDir()
	require.NoError(t, err)

	enc := wav.NewEncoder(f, 48000, bitDepth, channels, formatTag)
	require.NoError(t, enc.Write(&audio.IntBuffer{
		Data:           data,
		Format:         &audio.Format{SampleRate: 48000, NumChannels: channels},
		SourceBitDepth: bitDepth,
	}))
	require.NoError(t, enc.Close())
	require.NoError(t, f.Close())
}

// floatBits returns samples as the integers the WAV codec stores for 32-bit floats.
func floatBits(samples ...float32) []int {
	out := make([]int, len(samples))
	for i, v := range samples {
		out[i] = int(int32(math.Float32bits(v)))
	}
	return out
}

func TestDecodeFloatWAV(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	mono := filepath.Join(dir, "float.wav")
	writeTaggedWAV(t, mono, 32, 1, wavFormatFloat, floatBits(0.001, -0.001, 0.25, -0.5))

	decoded, err := Decode(mono)
	require.NoError(t, err)
	assert.InDelta(t, 48000, decoded.SampleRate, 0)
	assert.InDeltaSlice(t, []float64{0.001, -0.001, 0.25, -0.5}, decoded.Samples, 1e-7)

	info, err := Info(mono)
	require.NoError(t, err)
	assert.True(t, info.Float)
	assert.Equal(t, 32, info.BitDepth)
	assert.Equal(t, 4, info.TotalSamples)

	stereo := filepath.Join(dir, "float_stereo.wav")
	writeTaggedWAV(t, stereo, 32, 2, wavFormatFloat, floatBits(0.5, 0.25, -1, 0))

	decoded, err = Decode(stereo)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{0.375, -0.5}, decoded.Samples, 1e-7)
}

func TestDecode32BitPCM(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "int32.wav")
	writeTaggedWAV(t, path, 32, 1, wavFormatPCM, []int{1 << 30, -(1 << 30)})

	decoded, err := Decode(path)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{0.5, -0.5}, decoded.Samples, 1e-9)

	info, err := Info(path)
	require.NoError(t, err)
	assert.False(t, info.Float)
}

func TestDecodeRejectsUnknownWAVFormats(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	ambiguous := filepath.Join(dir, "extensible32.wav")
	writeTaggedWAV(t, ambiguous, 32, 1, wavFormatExtensible, []int{0, 1})
	_, err := Decode(ambiguous)
	require.ErrorIs(t, err, ErrUnsupportedFormat)

	extensible24 := filepath.Join(dir, "extensible24.wav")
	writeTaggedWAV(t, extensible24, 24, 1, wavFormatExtensible, []int{1 << 22})
	decoded, err := Decode(extensible24)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{0.5}, decoded.Samples, 1e-9)

	aLaw := filepath.Join(dir, "alaw.wav")
	writeTaggedWAV(t, aLaw, 16, 1, 6, []int{0, 1})
	_, err = Decode(aLaw)
	require.ErrorIs(t, err, ErrUnsupportedFormat)
	_, err = Info(aLaw)
	require.ErrorIs(t, err, ErrUnsupportedFormat)
}

// headerOnlyFLAC is a FLAC stream with a STREAMINFO block and no frames.
func headerOnlyFLAC(rate, channels, bitDepth int) []byte {
	out := []byte("fLaC")
	out = append(out, 0x80, 0x00, 0x00, 34) // last block, STREAMINFO, 34 bytes
	out = binary.BigEndian.AppendUint16(out, 4096)
	out = binary.BigEndian.AppendUint16(out, 4096)
	out = append(out, 0, 0, 0, 0, 0, 0)
	packed := uint64(rate)<<44 | uint64(channels-1)<<41 | uint64(bitDepth-1)<<36
	out = binary.BigEndian.AppendUint64(out, packed)
	return append(out, make([]byte, 16)...)
}

func TestDecodeFLACEndsAtEOF(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "empty.flac")
	require.NoError(t, os.WriteFile(path, headerOnlyFLAC(48000, 2, 16), 0o600))

	buf, err := Decode(path)
	require.NoError(t, err)
	assert.InDelta(t, 48000.0, buf.SampleRate, 0)
	assert.Empty(t, buf.Samples)

	info, err := Info(path)
	require.NoError(t, err)
	assert.Equal(t, AudioInfo{SampleRate: 48000, NumChannels: 2, BitDepth: 16}, info)
}

func TestDecodeErrors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	_, err := Decode(filepath.Join(dir, "tone.mp3"))
	require.ErrorIs(t, err, ErrUnsupportedFormat)

	_, err = Decode(filepath.Join(dir, "missing.wav"))
	require.Error(t, err)

	garbage := filepath.Join(dir, "garbage.wav")
	require.NoError(t, os.WriteFile(garbage, []byte("definitely not RIFF data"), 0o600))
	_, err = Decode(garbage)
	require.ErrorIs(t, err, ErrInvalidFile)

	garbageFLAC := filepath.Join(dir, "garbage.flac")
	require.NoError(t, os.WriteFile(garbageFLAC, []byte("not a flac stream"), 0o600))
	_, err = Decode(garbageFLAC)
	require.ErrorIs(t, err, ErrInvalidFile)
}

func TestFileDecoderHonorsCancellation(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := FileDecoder{}.Decode(ctx, "/does/not/matter.wav")
	require.ErrorIs(t, err, context.Canceled)
}

func TestPCMSampleSignExtension(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   []byte
		want int
	}{
		{"int8 negative", []byte{0xff}, -1},
		{"int16 min", []byte{0x00, 0x80}, -32768},
		{"int24 negative", []byte{0xff, 0xff, 0xff}, -1},
		{"int24 min", []byte{0x00, 0x00, 0x80}, -8388608},
		{"int24 positive", []byte{0x01, 0x00, 0x00}, 1},
		{"int32 negative", []byte{0xfe, 0xff, 0xff, 0xff}, -2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, pcmSample(tt.in))
		})
	}
}

func TestDetectFormat(t *testing.T) {
	t.Parallel()

	f, err := DetectFormat("/data/irs/V30.WAV")
	require.NoError(t, err)
	assert.Equal(t, FormatWAV, f)

	f, err = DetectFormat("capture.flac")
	require.NoError(t, err)
	assert.Equal(t, FormatFLAC, f)

	_, err = DetectFormat("model.nam")
	require.ErrorIs(t, err, ErrUnsupportedFormat)
}
