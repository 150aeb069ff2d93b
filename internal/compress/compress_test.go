package compress

import (
	"bytes"
	"testing"
)

func TestCompressRoundTrip(t *testing.T) {
	c, err := NewCompressor()
	if err != nil {
		t.Fatalf("NewCompressor failed: %v", err)
	}
	defer c.Close()

	d, err := NewDecompressor(0)
	if err != nil {
		t.Fatalf("NewDecompressor failed: %v", err)
	}
	defer d.Close()

	payload := bytes.Repeat([]byte{0, 100, 0, 0, 0, 2, 1, 'c'}, 512)
	compressed := c.Compress(payload)
	if len(compressed) >= len(payload) {
		t.Errorf("expected compression, got %d >= %d bytes", len(compressed), len(payload))
	}

	out, err := d.Decompress(compressed)
	if err != nil {
		t.Fatalf("Decompress failed: %v", err)
	}
	if !bytes.Equal(out, payload) {
		t.Error("round trip mismatch")
	}
}

func TestCompressEmpty(t *testing.T) {
	c, err := NewCompressor()
	if err != nil {
		t.Fatalf("NewCompressor failed: %v", err)
	}
	defer c.Close()

	if out := c.Compress(nil); len(out) != 0 {
		t.Errorf("expected empty output, got %d bytes", len(out))
	}
}

func TestDecompressLimit(t *testing.T) {
	c, _ := NewCompressor()
	defer c.Close()
	d, err := NewDecompressor(1024)
	if err != nil {
		t.Fatalf("NewDecompressor failed: %v", err)
	}
	defer d.Close()

	if _, err := d.Decompress(c.Compress(make([]byte, 4096))); err == nil {
		t.Error("expected error for payload above limit")
	}
}

func TestDecompressGarbage(t *testing.T) {
	d, _ := NewDecompressor(0)
	defer d.Close()
	if _, err := d.Decompress([]byte("not zstd")); err == nil {
		t.Error("expected error for invalid frame")
	}
}
