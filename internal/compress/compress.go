// Package compress provides ZStandard compression for predicate payloads
// carried by the evaluator service.
package compress

import (
	"fmt"

	"github.com/klauspost/compress/zstd"
)

// Compressor compresses encoded predicate programs.
// Create once and reuse; safe for concurrent use.
type Compressor struct {
	encoder *zstd.Encoder
}

// NewCompressor creates a reusable ZStandard compressor at SpeedDefault.
// Caller must call Close() when done to release resources.
func NewCompressor() (*Compressor, error) {
	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd encoder: %w", err)
	}
	return &Compressor{encoder: encoder}, nil
}

// Compress returns the ZStandard frame for data. Empty input stays empty.
func (c *Compressor) Compress(data []byte) []byte {
	if len(data) == 0 {
		return []byte{}
	}
	return c.encoder.EncodeAll(data, make([]byte, 0, len(data)/2))
}

// Close releases compressor resources.
func (c *Compressor) Close() error {
	if c.encoder != nil {
		return c.encoder.Close()
	}
	return nil
}

// Decompressor restores payloads produced by Compressor.
type Decompressor struct {
	decoder *zstd.Decoder
	limit   uint64
}

// NewDecompressor creates a reusable ZStandard decompressor. maxSize bounds
// the decompressed size of a single payload; 0 keeps the library default.
// Caller must call Close() when done to release resources.
func NewDecompressor(maxSize uint64) (*Decompressor, error) {
	var opts []zstd.DOption
	if maxSize > 0 {
		opts = append(opts, zstd.WithDecoderMaxMemory(maxSize))
	}
	decoder, err := zstd.NewReader(nil, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd decoder: %w", err)
	}
	return &Decompressor{decoder: decoder, limit: maxSize}, nil
}

// Decompress restores a ZStandard frame. Safe for concurrent use.
func (d *Decompressor) Decompress(compressed []byte) ([]byte, error) {
	if len(compressed) == 0 {
		return []byte{}, nil
	}
	out, err := d.decoder.DecodeAll(compressed, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to decompress: %w", err)
	}
	if d.limit > 0 && uint64(len(out)) > d.limit {
		return nil, fmt.Errorf("decompressed payload of %d bytes exceeds %d", len(out), d.limit)
	}
	return out, nil
}

// Close releases decompressor resources.
func (d *Decompressor) Close() {
	if d.decoder != nil {
		d.decoder.Close()
	}
}
