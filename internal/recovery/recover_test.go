package recovery

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRecoverToError(t *testing.T) {
	err := RecoverToError(discardLogger(), "Filter", func() error {
		panic("stack underflow")
	})
	if status.Code(err) != codes.Internal {
		t.Fatalf("expected codes.Internal, got %v", err)
	}

	want := errors.New("plain")
	if err := RecoverToError(discardLogger(), "Filter", func() error { return want }); err != want {
		t.Errorf("expected error to pass through, got %v", err)
	}
}

func TestUnaryServerInterceptor(t *testing.T) {
	interceptor := UnaryServerInterceptor(discardLogger())
	info := &grpc.UnaryServerInfo{FullMethod: "/predexp.Evaluator/Filter"}

	resp, err := interceptor(context.Background(), nil, info, func(ctx context.Context, req any) (any, error) {
		return "ok", nil
	})
	if err != nil || resp != "ok" {
		t.Errorf("expected pass-through, got %v, %v", resp, err)
	}

	_, err = interceptor(context.Background(), nil, info, func(ctx context.Context, req any) (any, error) {
		var m map[string]int
		m["x"] = 1
		return nil, nil
	})
	if status.Code(err) != codes.Internal {
		t.Errorf("expected codes.Internal, got %v", err)
	}
}
