package rpc

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/dukex/iterable-cog/pkg/cog"
	"github.com/dukex/iterable-cog/pkg/models"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

type Server struct {
	cog    *cog.Cog
	logger *slog.Logger
}

func NewServer(c *cog.Cog, logger *slog.Logger) *Server {
	return &Server{cog: c, logger: logger.With("module", "grpc")}
}

// NewGRPCServer builds a gRPC server with the cog service registered.
func NewGRPCServer(srv *Server, opts ...grpc.ServerOption) *grpc.Server {
	opts = append([]grpc.ServerOption{
		grpc.ForceServerCodec(Codec{}),
		grpc.ChainUnaryInterceptor(srv.unaryLogger),
		grpc.ChainStreamInterceptor(srv.streamLogger),
	}, opts...)

	server := grpc.NewServer(opts...)
	server.RegisterService(&ServiceDesc, srv)

	return server
}

func (s *Server) GetManifest(_ context.Context, _ *ManifestRequest) (*models.CogManifest, error) {
	manifest := s.cog.GetManifest()

	return &manifest, nil
}

func (s *Server) RunStep(ctx context.Context, req *models.RunStepRequest) (*models.RunStepResponse, error) {
	return s.cog.RunStep(ctx, req, AuthFromContext(ctx)), nil
}

func (s *Server) RunSteps(stream grpc.ServerStream) error {
	ctx := stream.Context()

	err := s.cog.RunSteps(ctx, &serverStepStream{stream: stream}, AuthFromContext(ctx))
	if err != nil {
		if _, ok := status.FromError(err); ok {
			return err
		}

		return status.Error(codes.Unavailable, err.Error())
	}

	return nil
}

// AuthFromContext reads the request credentials from incoming gRPC metadata.
// Keys arrive lowercased; AuthMetadata lookups are case-insensitive.
func AuthFromContext(ctx context.Context) models.AuthMetadata {
	auth := models.AuthMetadata{}

	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return auth
	}

	for key, values := range md {
		if len(values) > 0 {
			auth[key] = values[0]
		}
	}

	return auth
}

type serverStepStream struct {
	stream grpc.ServerStream
}

// Recv decodes frames itself so a bad frame does not end the stream.
func (s *serverStepStream) Recv() (*models.RunStepRequest, error) {
	var frame rawFrame
	if err := s.stream.RecvMsg(&frame); err != nil {
		return nil, err
	}

	req := new(models.RunStepRequest)
	if err := (Codec{}).Unmarshal(frame, req); err != nil {
		return nil, fmt.Errorf("%w: %w", cog.ErrMalformedRequest, err)
	}

	return req, nil
}

func (s *serverStepStream) Send(resp *models.RunStepResponse) error {
	return s.stream.SendMsg(resp)
}

func (s *Server) unaryLogger(
	ctx context.Context,
	req any,
	info *grpc.UnaryServerInfo,
	handler grpc.UnaryHandler,
) (any, error) {
	start := time.Now()

	resp, err := handler(ctx, req)

	s.logger.InfoContext(ctx, "gRPC call",
		"method", info.FullMethod,
		"code", status.Code(err).String(),
		"duration", time.Since(start),
	)

	return resp, err
}

func (s *Server) streamLogger(
	srv any,
	stream grpc.ServerStream,
	info *grpc.StreamServerInfo,
	handler grpc.StreamHandler,
) error {
	start := time.Now()

	err := handler(srv, stream)

	s.logger.InfoContext(stream.Context(), "gRPC stream",
		"method", info.FullMethod,
		"code", status.Code(err).String(),
		"duration", time.Since(start),
	)

	return err
}
