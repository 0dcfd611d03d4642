package rpc

import (
	"context"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/danielpatrickdp/agit/internal/engine"
)

// #region server

// Server serves a scoring context over gRPC.
type Server struct {
	scoring *engine.Context
	logger  *zap.Logger
}

// NewServer wraps a scoring context. logger may be nil.
func NewServer(scoring *engine.Context, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{scoring: scoring, logger: logger}
}

// GRPCServer builds a grpc.Server with the scoring service and a logging
// interceptor registered.
func (s *Server) GRPCServer(opts ...grpc.ServerOption) *grpc.Server {
	opts = append(opts, grpc.ChainUnaryInterceptor(loggingInterceptor(s.logger)))
	gs := grpc.NewServer(opts...)
	Register(gs, s)
	return gs
}

// #endregion server

// #region handlers

// Analyze runs the multi-factor analyzer.
func (s *Server) Analyze(_ context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req TextRequest
	if err := fromStruct(in, &req); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	return reply(analyzeResponse(s.scoring.Analyze(req.Text)))
}

// Braid runs the expert fusion engine.
func (s *Server) Braid(_ context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req TextRequest
	if err := fromStruct(in, &req); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	return reply(braidResponse(s.scoring.Braid(req.Text)))
}

// Evaluate scores a change set and returns the gate verdict.
func (s *Server) Evaluate(_ context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req TextRequest
	if err := fromStruct(in, &req); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	return reply(s.scoring.Evaluate(req.Text).Verdict())
}

// Record appends a committed verdict to the history.
func (s *Server) Record(_ context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req RecordRequest
	if err := fromStruct(in, &req); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	if err := s.scoring.RecordVerdict(req.Verdict, req.Message); err != nil {
		return nil, status.Errorf(codes.Internal, "record: %v", err)
	}
	return reply(RecordResponse{HistoryLen: len(s.scoring.History())})
}

// UpdateWeights applies expert feedback.
func (s *Server) UpdateWeights(_ context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req UpdateWeightsRequest
	if err := fromStruct(in, &req); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	res, err := s.scoring.UpdateWeights(req.Feedback)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "update weights: %v", err)
	}
	return reply(updateWeightsResponse(res))
}

func reply(v any) (*structpb.Struct, error) {
	out, err := toStruct(v)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return out, nil
}

// #endregion handlers

// #region interceptor

func loggingInterceptor(logger *zap.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		fields := []zap.Field{
			zap.String("method", info.FullMethod),
			zap.Duration("elapsed", time.Since(start)),
		}
		if err != nil {
			logger.Warn("rpc failed", append(fields, zap.Error(err))...)
		} else {
			logger.Debug("rpc served", fields...)
		}
		return resp, err
	}
}

// #endregion interceptor
