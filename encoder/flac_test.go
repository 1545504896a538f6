package encoder

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"
)

func synthPCM(samples int) []byte {
	pcm := make([]byte, samples*2)
	for i := 0; i < samples; i++ {
		binary.LittleEndian.PutUint16(pcm[i*2:], uint16(i%1000))
	}
	return pcm
}

func TestFlacEncoder(t *testing.T) {
	pcm := synthPCM(BlockSize + BlockSize/2)
	samples := make([]int16, len(pcm)/2)
	for i := range samples {
		samples[i] = int16(binary.LittleEndian.Uint16(pcm[i*2:]))
	}

	enc, err := NewFlac()
	if err != nil {
		t.Fatalf("NewFlac: %v", err)
	}

	var totalFed uint64
	for i := 0; i < len(samples); i += BlockSize {
		end := min(i+BlockSize, len(samples))
		if err := enc.EncodeBlock(samples[i:end]); err != nil {
			t.Fatalf("EncodeBlock at offset %d: %v", i, err)
		}
		totalFed += uint64(end - i)
	}

	if err := enc.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if enc.TotalFrames() != totalFed {
		t.Errorf("TotalFrames = %d, want %d", enc.TotalFrames(), totalFed)
	}

	flacData := enc.Bytes()
	if len(flacData) < 4 || string(flacData[:4]) != "fLaC" {
		t.Fatal("output does not start with FLAC magic")
	}
}

func TestFlacEncoderEmpty(t *testing.T) {
	enc, err := NewFlac()
	if err != nil {
		t.Fatalf("NewFlac: %v", err)
	}
	if err := enc.Close(); err != nil {
		t.Fatalf("Close on empty encoder: %v", err)
	}
	if enc.TotalFrames() != 0 {
		t.Errorf("TotalFrames = %d, want 0", enc.TotalFrames())
	}
	if len(enc.Bytes()) == 0 {
		t.Error("expected non-empty FLAC output (at least header)")
	}
}

func TestReencodeFLAC(t *testing.T) {
	dir := t.TempDir()
	wavPath := filepath.Join(dir, "seg.wav")
	if err := WriteWAV(wavPath, synthPCM(BlockSize)); err != nil {
		t.Fatalf("WriteWAV: %v", err)
	}

	flacPath, err := ReencodeFLAC(wavPath)
	if err != nil {
		t.Fatalf("ReencodeFLAC: %v", err)
	}
	if filepath.Ext(flacPath) != ".flac" {
		t.Errorf("unexpected output path %q", flacPath)
	}
	if _, err := os.Stat(wavPath); !os.IsNotExist(err) {
		t.Error("wav should be removed after successful re-encode")
	}

	data, err := os.ReadFile(flacPath)
	if err != nil {
		t.Fatal(err)
	}
	if string(data[:4]) != "fLaC" {
		t.Error("flac output missing magic")
	}
}

func TestReencodeFLACMissingInput(t *testing.T) {
	if _, err := ReencodeFLAC(filepath.Join(t.TempDir(), "nope.wav")); err == nil {
		t.Error("expected error for missing wav")
	}
}
