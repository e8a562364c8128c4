// Package audiofile reads and writes the audio files referenced by the
// catalog. WAV is handled with go-audio/wav and FLAC with tphakala/flac.
// Decoded audio is mixed down to a mono dsp.Buffer.
package audiofile
