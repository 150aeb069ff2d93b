// Package msgpack provides MessagePack encoding for collection bin particles
// and the wire codec of the evaluator service.
package msgpack

import (
	"bytes"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
)

// Name is the content subtype registered by Codec.
const Name = "msgpack"

// Encode serializes a Go value into MessagePack format.
//
// Example:
//
//	particle, err := msgpack.Encode([]any{"red", "blue"})
func Encode(v any) ([]byte, error) {
	data, err := msgpack.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode MessagePack: %w", err)
	}
	return data, nil
}

// Decode deserializes MessagePack data into the value pointed to by v.
func Decode(data []byte, v any) error {
	if len(data) == 0 {
		return fmt.Errorf("empty MessagePack data")
	}
	if err := msgpack.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to decode MessagePack: %w", err)
	}
	return nil
}

// DecodeParticle deserializes a list or map particle into plain Go values.
// Maps decode as map[any]any so that integer keys survive, lists as []any.
func DecodeParticle(data []byte) (any, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("empty MessagePack data")
	}

	dec := msgpack.NewDecoder(bytes.NewReader(data))
	dec.SetMapDecoder(func(d *msgpack.Decoder) (any, error) {
		return d.DecodeUntypedMap()
	})

	v, err := dec.DecodeInterface()
	if err != nil {
		return nil, fmt.Errorf("failed to decode MessagePack particle: %w", err)
	}
	return v, nil
}

// Codec marshals gRPC messages as MessagePack. Messages are plain structs
// with msgpack tags.
type Codec struct{}

// Marshal implements encoding.Codec.
func (Codec) Marshal(v any) ([]byte, error) {
	return Encode(v)
}

// Unmarshal implements encoding.Codec.
func (Codec) Unmarshal(data []byte, v any) error {
	if err := msgpack.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to decode MessagePack: %w", err)
	}
	return nil
}

// Name implements encoding.Codec.
func (Codec) Name() string { return Name }
