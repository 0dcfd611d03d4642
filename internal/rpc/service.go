package rpc

import (
	"context"
	"encoding/json"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// #region service-desc

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "agit.v1.Scoring"

// Method names.
const (
	MethodAnalyze       = "Analyze"
	MethodBraid         = "Braid"
	MethodEvaluate      = "Evaluate"
	MethodRecord        = "Record"
	MethodUpdateWeights = "UpdateWeights"
)

// ScoringServer is the server side of the scoring service. Every method
// takes and returns a structpb.Struct carrying one of the message types in
// messages.go.
type ScoringServer interface {
	Analyze(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Braid(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Evaluate(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Record(context.Context, *structpb.Struct) (*structpb.Struct, error)
	UpdateWeights(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

type unaryCall func(ScoringServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

// ServiceDesc describes the scoring service to grpc.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*ScoringServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: MethodAnalyze, Handler: unaryHandler(MethodAnalyze, ScoringServer.Analyze)},
		{MethodName: MethodBraid, Handler: unaryHandler(MethodBraid, ScoringServer.Braid)},
		{MethodName: MethodEvaluate, Handler: unaryHandler(MethodEvaluate, ScoringServer.Evaluate)},
		{MethodName: MethodRecord, Handler: unaryHandler(MethodRecord, ScoringServer.Record)},
		{MethodName: MethodUpdateWeights, Handler: unaryHandler(MethodUpdateWeights, ScoringServer.UpdateWeights)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "agit/v1/scoring.proto",
}

// Register attaches srv to a grpc server.
func Register(s grpc.ServiceRegistrar, srv ScoringServer) {
	s.RegisterService(&ServiceDesc, srv)
}

func unaryHandler(method string, call unaryCall) grpc.MethodHandler {
	full := fullMethod(method)
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(ScoringServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: full}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(ScoringServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

func fullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}

// #endregion service-desc

// #region struct-codec

// toStruct encodes a JSON-tagged message as a structpb.Struct.
func toStruct(v any) (*structpb.Struct, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode message: %w", err)
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("encode message: %w", err)
	}
	s, err := structpb.NewStruct(m)
	if err != nil {
		return nil, fmt.Errorf("encode message: %w", err)
	}
	return s, nil
}

// fromStruct decodes a structpb.Struct into a JSON-tagged message.
func fromStruct(s *structpb.Struct, v any) error {
	data, err := json.Marshal(s.AsMap())
	if err != nil {
		return fmt.Errorf("decode message: %w", err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode message: %w", err)
	}
	return nil
}

// #endregion struct-codec
