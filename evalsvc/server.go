package evalsvc

import (
	"context"
	"fmt"
	"log/slog"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/hugr-lab/predexp-go/eval"
	"github.com/hugr-lab/predexp-go/internal/compress"
	"github.com/hugr-lab/predexp-go/internal/msgpack"
	"github.com/hugr-lab/predexp-go/internal/recovery"
)

// FilterMethod is the full gRPC method name of Filter.
const FilterMethod = "/predexp.Evaluator/Filter"

// EvaluatorServer is the server API of the evaluator service.
type EvaluatorServer interface {
	Filter(ctx context.Context, req *FilterRequest) (*FilterResponse, error)
}

var serviceDesc = grpc.ServiceDesc{
	ServiceName: "predexp.Evaluator",
	HandlerType: (*EvaluatorServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Filter", Handler: filterHandler},
	},
	Metadata: "predexp/evaluator",
}

func filterHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(FilterRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(EvaluatorServer).Filter(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: FilterMethod,
	}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(EvaluatorServer).Filter(ctx, req.(*FilterRequest))
	}
	return interceptor(ctx, in, info, handler)
}

// Server evaluates predexp programs the way a remote store would:
// the program is built once per request, then matched against each record.
type Server struct {
	logger       *slog.Logger
	decompressor *compress.Decompressor
}

// NewServer registers the evaluator service on the provided gRPC server.
// The gRPC server must be created with ServerOptions so that requests are
// decoded as MessagePack.
//
// Does NOT start the gRPC server - user controls lifecycle via grpcServer.Serve().
//
// Example:
//
//	config := evalsvc.Config{MaxMessageSize: 16 << 20}
//	grpcServer := grpc.NewServer(evalsvc.ServerOptions(config)...)
//	srv, err := evalsvc.NewServer(grpcServer, config)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer srv.Close()
//	lis, _ := net.Listen("tcp", ":50051")
//	grpcServer.Serve(lis)
func NewServer(grpcServer *grpc.Server, config Config) (*Server, error) {
	// Validate configuration
	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	config = config.withDefaults()

	decompressor, err := compress.NewDecompressor(config.MaxPredicateSize)
	if err != nil {
		return nil, err
	}

	s := &Server{
		logger:       config.Logger,
		decompressor: decompressor,
	}
	grpcServer.RegisterService(&serviceDesc, s)

	// Log successful registration
	config.Logger.Info("Predexp evaluator registered",
		"max_message_size", config.MaxMessageSize,
		"max_predicate_size", config.MaxPredicateSize,
	)

	return s, nil
}

// ServerOptions returns gRPC server options for the evaluator service:
// the MessagePack codec, panic recovery and message size limits.
//
// Example:
//
//	opts := evalsvc.ServerOptions(config)
//	grpcServer := grpc.NewServer(opts...)
//	evalsvc.NewServer(grpcServer, config)
func ServerOptions(config Config) []grpc.ServerOption {
	config = config.withDefaults()

	opts := []grpc.ServerOption{
		grpc.ForceServerCodec(msgpack.Codec{}),
		grpc.UnaryInterceptor(recovery.UnaryServerInterceptor(config.Logger)),
	}

	// Add max message size if specified
	if config.MaxMessageSize > 0 {
		opts = append(opts,
			grpc.MaxRecvMsgSize(config.MaxMessageSize),
			grpc.MaxSendMsgSize(config.MaxMessageSize),
		)
	}

	return opts
}

// Filter builds the request predicate and matches every record.
// A predicate the evaluator refuses fails the whole request with
// codes.InvalidArgument; records never fail individually.
func (s *Server) Filter(ctx context.Context, req *FilterRequest) (*FilterResponse, error) {
	predicate := req.Predicate
	if req.Compressed {
		var err error
		predicate, err = s.decompressor.Decompress(req.Predicate)
		if err != nil {
			return nil, status.Errorf(codes.InvalidArgument, "invalid predicate: %v", err)
		}
	}

	prog, err := eval.Compile(predicate)
	if err != nil {
		s.logger.Debug("Predicate rejected", "error", err)
		return nil, status.Errorf(codes.InvalidArgument, "%v", err)
	}

	matches := make([]bool, len(req.Records))
	matched := 0
	for i := range req.Records {
		if i%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, status.FromContextError(err).Err()
			}
		}
		rec, err := req.Records[i].record()
		if err != nil {
			return nil, status.Errorf(codes.InvalidArgument, "record %d: %v", i, err)
		}
		matches[i] = prog.Match(&rec)
		if matches[i] {
			matched++
		}
	}

	s.logger.Debug("Filter evaluated",
		"predicate_nodes", prog.Len(),
		"predicate_bytes", len(predicate),
		"compressed", req.Compressed,
		"records", len(req.Records),
		"matched", matched,
	)

	return &FilterResponse{Matches: matches}, nil
}

// Close releases server resources. Call after the gRPC server has stopped.
func (s *Server) Close() {
	s.decompressor.Close()
}
