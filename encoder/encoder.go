// Package encoder writes segment audio artifacts: a raw PCM WAV container
// at the capture rate, with an optional FLAC re-encode.
package encoder

const (
	SampleRate    = 16000
	Channels      = 1
	BitsPerSample = 16
	BlockSize     = 4096
)
