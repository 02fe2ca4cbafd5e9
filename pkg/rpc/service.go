package rpc

import (
	"context"

	"github.com/dukex/iterable-cog/pkg/models"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	ServiceName = "automaton.cog.CogService"

	GetManifestMethod = "/" + ServiceName + "/GetManifest"
	RunStepMethod     = "/" + ServiceName + "/RunStep"
	RunStepsMethod    = "/" + ServiceName + "/RunSteps"
)

type ManifestRequest struct{}

// CogServer is the server side of the cog service.
type CogServer interface {
	GetManifest(ctx context.Context, req *ManifestRequest) (*models.CogManifest, error)
	RunStep(ctx context.Context, req *models.RunStepRequest) (*models.RunStepResponse, error)
	RunSteps(stream grpc.ServerStream) error
}

var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*CogServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "GetManifest", Handler: getManifestHandler},
		{MethodName: "RunStep", Handler: runStepHandler},
	},
	Streams: []grpc.StreamDesc{
		{
			StreamName:    "RunSteps",
			Handler:       runStepsHandler,
			ServerStreams: true,
			ClientStreams: true,
		},
	},
	Metadata: "cog.proto",
}

func getManifestHandler(
	srv any,
	ctx context.Context,
	dec func(any) error,
	interceptor grpc.UnaryServerInterceptor,
) (any, error) {
	in := new(ManifestRequest)
	if err := dec(in); err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid manifest request: %v", err)
	}

	if interceptor == nil {
		return srv.(CogServer).GetManifest(ctx, in)
	}

	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: GetManifestMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(CogServer).GetManifest(ctx, req.(*ManifestRequest))
	}

	return interceptor(ctx, in, info, handler)
}

func runStepHandler(
	srv any,
	ctx context.Context,
	dec func(any) error,
	interceptor grpc.UnaryServerInterceptor,
) (any, error) {
	in := new(models.RunStepRequest)
	if err := dec(in); err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid step request: %v", err)
	}

	if interceptor == nil {
		return srv.(CogServer).RunStep(ctx, in)
	}

	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: RunStepMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(CogServer).RunStep(ctx, req.(*models.RunStepRequest))
	}

	return interceptor(ctx, in, info, handler)
}

func runStepsHandler(srv any, stream grpc.ServerStream) error {
	return srv.(CogServer).RunSteps(stream)
}
