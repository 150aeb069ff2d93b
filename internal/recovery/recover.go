// Package recovery converts panics raised while evaluating a request into
// gRPC errors so that a malformed program cannot crash the evaluator service.
package recovery

import (
	"context"
	"log/slog"
	"runtime/debug"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// RecoverToError runs fn and converts a panic into a codes.Internal error.
//
// Example:
//
//	err := recovery.RecoverToError(logger, "Filter", func() error {
//	    matches = prog.MatchAll(records)
//	    return nil
//	})
func RecoverToError(logger *slog.Logger, operation string, fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Panic recovered",
				"operation", operation,
				"panic", r,
				"stack", string(debug.Stack()),
			)
			err = status.Errorf(codes.Internal, "%s panicked: %v", operation, r)
		}
	}()

	return fn()
}

// UnaryServerInterceptor recovers panics escaping unary handlers.
func UnaryServerInterceptor(logger *slog.Logger) grpc.UnaryServerInterceptor {
	return func(
		ctx context.Context,
		req any,
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (resp any, err error) {
		err = RecoverToError(logger, info.FullMethod, func() error {
			var herr error
			resp, herr = handler(ctx, req)
			return herr
		})
		return resp, err
	}
}
