package evalsvc

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
)

// Config contains configuration for the evaluator service and its client.
type Config struct {
	// Logger for internal logging.
	// OPTIONAL: If nil, a text logger on stderr is created with LogLevel.
	Logger *slog.Logger

	// LogLevel sets the logging level.
	// OPTIONAL: If nil, uses Info level.
	// If Logger is also provided, LogLevel is ignored (use pre-configured logger).
	LogLevel *slog.Level

	// MaxMessageSize sets maximum gRPC message size in bytes.
	// OPTIONAL: If 0, uses gRPC default (4MB).
	MaxMessageSize int

	// CompressThreshold is the encoded predicate size in bytes above which
	// the client compresses the predicate with ZStandard.
	// OPTIONAL: If 0, uses DefaultCompressThreshold. Negative disables compression.
	CompressThreshold int

	// MaxPredicateSize bounds the decompressed size of a predicate.
	// OPTIONAL: If 0, uses DefaultMaxPredicateSize.
	MaxPredicateSize uint64
}

const (
	// DefaultCompressThreshold is the predicate size above which predicates are compressed.
	DefaultCompressThreshold = 4 << 10

	// DefaultMaxPredicateSize is the largest predicate the server decompresses.
	DefaultMaxPredicateSize = 1 << 20
)

// ErrInvalidConfig indicates Config validation failed.
var ErrInvalidConfig = errors.New("invalid evaluator config")

// validateConfig checks that Config fields are valid.
func validateConfig(config Config) error {
	if config.MaxMessageSize < 0 {
		return fmt.Errorf("max message size must not be negative, got %d", config.MaxMessageSize)
	}
	return nil
}

// withDefaults fills optional fields.
func (c Config) withDefaults() Config {
	if c.Logger == nil {
		// Create logger with specified level or default to Info
		level := slog.LevelInfo
		if c.LogLevel != nil {
			level = *c.LogLevel
		}
		handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: level,
		})
		c.Logger = slog.New(handler)
	}
	if c.CompressThreshold == 0 {
		c.CompressThreshold = DefaultCompressThreshold
	}
	if c.MaxPredicateSize == 0 {
		c.MaxPredicateSize = DefaultMaxPredicateSize
	}
	return c
}
