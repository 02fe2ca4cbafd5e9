package rpc

import (
	"context"

	"github.com/dukex/iterable-cog/pkg/models"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
)

// Client calls a running cog.
type Client struct {
	conn grpc.ClientConnInterface
}

func NewClient(conn grpc.ClientConnInterface) *Client {
	return &Client{conn: conn}
}

// WithAuth attaches auth fields to the outgoing request metadata.
func WithAuth(ctx context.Context, auth models.AuthMetadata) context.Context {
	for key, value := range auth {
		ctx = metadata.AppendToOutgoingContext(ctx, key, value)
	}

	return ctx
}

func (c *Client) GetManifest(ctx context.Context, opts ...grpc.CallOption) (*models.CogManifest, error) {
	out := new(models.CogManifest)

	err := c.conn.Invoke(ctx, GetManifestMethod, &ManifestRequest{}, out, withCodec(opts)...)
	if err != nil {
		return nil, err
	}

	return out, nil
}

func (c *Client) RunStep(
	ctx context.Context,
	req *models.RunStepRequest,
	opts ...grpc.CallOption,
) (*models.RunStepResponse, error) {
	out := new(models.RunStepResponse)

	err := c.conn.Invoke(ctx, RunStepMethod, req, out, withCodec(opts)...)
	if err != nil {
		return nil, err
	}

	return out, nil
}

func (c *Client) RunSteps(ctx context.Context, opts ...grpc.CallOption) (*StepsClient, error) {
	stream, err := c.conn.NewStream(ctx, &ServiceDesc.Streams[0], RunStepsMethod, withCodec(opts)...)
	if err != nil {
		return nil, err
	}

	return &StepsClient{stream: stream}, nil
}

// StepsClient is the client side of a RunSteps stream.
type StepsClient struct {
	stream grpc.ClientStream
}

func (s *StepsClient) Send(req *models.RunStepRequest) error {
	return s.stream.SendMsg(req)
}

func (s *StepsClient) Recv() (*models.RunStepResponse, error) {
	resp := new(models.RunStepResponse)
	if err := s.stream.RecvMsg(resp); err != nil {
		return nil, err
	}

	return resp, nil
}

func (s *StepsClient) CloseSend() error {
	return s.stream.CloseSend()
}

func withCodec(opts []grpc.CallOption) []grpc.CallOption {
	return append([]grpc.CallOption{grpc.ForceCodec(Codec{})}, opts...)
}
