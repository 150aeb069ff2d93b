package evalsvc

import (
	"context"
	"fmt"
	"log/slog"

	"google.golang.org/grpc"

	predexp "github.com/hugr-lab/predexp-go"
	"github.com/hugr-lab/predexp-go/eval"
	"github.com/hugr-lab/predexp-go/internal/compress"
	"github.com/hugr-lab/predexp-go/internal/msgpack"
)

// Client sends predicates and records to an evaluator service.
// Safe for concurrent use.
type Client struct {
	conn       grpc.ClientConnInterface
	logger     *slog.Logger
	threshold  int
	compressor *compress.Compressor
}

// DialOptions returns the gRPC dial options the evaluator service expects.
func DialOptions() []grpc.DialOption {
	return []grpc.DialOption{
		grpc.WithDefaultCallOptions(grpc.ForceCodec(msgpack.Codec{})),
	}
}

// NewClient creates a client on an established connection. The connection
// must use DialOptions, or every call must force the MessagePack codec.
// Caller must call Close() when done to release resources.
func NewClient(conn grpc.ClientConnInterface, config Config) (*Client, error) {
	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	config = config.withDefaults()

	compressor, err := compress.NewCompressor()
	if err != nil {
		return nil, err
	}
	return &Client{
		conn:       conn,
		logger:     config.Logger,
		threshold:  config.CompressThreshold,
		compressor: compressor,
	}, nil
}

// Filter evaluates the predicate held by list against records and returns
// one match flag per record. A predicate the server refuses returns a
// status error with codes.InvalidArgument.
func (c *Client) Filter(ctx context.Context, list *predexp.List, records []eval.Record) ([]bool, error) {
	predicate, err := list.MarshalBinary()
	if err != nil {
		return nil, err
	}

	req := &FilterRequest{
		Predicate: predicate,
		Records:   make([]WireRecord, len(records)),
	}
	if c.threshold > 0 && len(predicate) > c.threshold {
		req.Predicate = c.compressor.Compress(predicate)
		req.Compressed = true
	}
	for i := range records {
		req.Records[i], err = newWireRecord(&records[i])
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
	}

	c.logger.Debug("Sending filter",
		"predicate_bytes", len(predicate),
		"sent_bytes", len(req.Predicate),
		"records", len(records),
	)

	resp := new(FilterResponse)
	if err := c.conn.Invoke(ctx, FilterMethod, req, resp, grpc.ForceCodec(msgpack.Codec{})); err != nil {
		return nil, err
	}
	if len(resp.Matches) != len(records) {
		return nil, fmt.Errorf("evaluator returned %d matches for %d records", len(resp.Matches), len(records))
	}
	return resp.Matches, nil
}

// Close releases client resources. It does not close the connection.
func (c *Client) Close() error {
	return c.compressor.Close()
}
