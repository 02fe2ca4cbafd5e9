package rpc

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"testing"
	"time"

	"github.com/dukex/iterable-cog/pkg/cog"
	"github.com/dukex/iterable-cog/pkg/mocks"
	"github.com/dukex/iterable-cog/pkg/models"
	"github.com/dukex/iterable-cog/pkg/protocol"
	"github.com/dukex/iterable-cog/pkg/registry"
	"github.com/dukex/iterable-cog/pkg/steps/deletecontact"
	"github.com/dukex/iterable-cog/pkg/steps/discovercontact"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
)

const email = "anything@example.com"

type harness struct {
	client  *Client
	conn    *grpc.ClientConn
	apiKeys chan string
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	reg := registry.NewRegistry(logger)
	require.NoError(t, reg.Register(discovercontact.New))
	require.NoError(t, reg.Register(deletecontact.New))

	repo := &mocks.MockContactRepository{}
	repo.On("GetContactByEmail", mock.Anything, email).Return(&models.UserResponse{User: &models.Contact{
		Email:      email,
		DataFields: models.Fields{{Key: "email", Value: email}},
	}}, nil)

	apiKeys := make(chan string, 16)

	c, err := cog.New(reg, func(auth models.AuthMetadata) protocol.ContactRepository {
		apiKeys <- auth.Get(models.AuthFieldAPIKey)

		return repo
	}, logger)
	require.NoError(t, err)

	listener := bufconn.Listen(1024 * 1024)
	server := NewGRPCServer(NewServer(c, logger))

	go func() {
		_ = server.Serve(listener)
	}()

	t.Cleanup(server.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return listener.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)

	t.Cleanup(func() { _ = conn.Close() })

	return &harness{client: NewClient(conn), conn: conn, apiKeys: apiKeys}
}

func discover() *models.RunStepRequest {
	return &models.RunStepRequest{
		Step:      models.Step{StepID: discovercontact.ID, Data: map[string]any{"email": email}},
		RequestID: "req-1",
	}
}

func TestGetManifest(t *testing.T) {
	h := newHarness(t)

	manifest, err := h.client.GetManifest(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "stackmoxie/iterable", manifest.Name)
	require.Len(t, manifest.StepDefinitions, 2)
	assert.Equal(t, discovercontact.ID, manifest.StepDefinitions[0].StepID)
}

func TestRunStep(t *testing.T) {
	h := newHarness(t)

	ctx := WithAuth(context.Background(), models.AuthMetadata{models.AuthFieldAPIKey: "secret"})

	resp, err := h.client.RunStep(ctx, discover())

	require.NoError(t, err)
	assert.Equal(t, models.OutcomePassed, resp.Outcome)
	require.Len(t, resp.Records, 1)
	assert.Equal(t, []string{"email"}, resp.Records[0].KeyValue.Keys())
	assert.Equal(t, "secret", <-h.apiKeys)
}

func TestRunStep_UnknownStepIsNotATransportError(t *testing.T) {
	h := newHarness(t)

	resp, err := h.client.RunStep(context.Background(), &models.RunStepRequest{Step: models.Step{StepID: "Nope"}})

	require.NoError(t, err)
	assert.Equal(t, models.OutcomeError, resp.Outcome)
	assert.Equal(t, "Unknown step Nope", resp.Message())
}

func TestRunStep_InvalidPayload(t *testing.T) {
	h := newHarness(t)

	out := new(models.RunStepResponse)
	err := h.conn.Invoke(context.Background(), RunStepMethod, []string{"not", "a", "request"}, out, grpc.ForceCodec(Codec{}))

	require.Error(t, err)
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestRunSteps(t *testing.T) {
	h := newHarness(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	stream, err := h.client.RunSteps(metadata.AppendToOutgoingContext(ctx, "apikey", "secret"))
	require.NoError(t, err)

	require.NoError(t, stream.Send(discover()))
	require.NoError(t, stream.Send(&models.RunStepRequest{Step: models.Step{StepID: "Nope"}}))
	require.NoError(t, stream.CloseSend())

	outcomes := map[models.Outcome]int{}

	for {
		resp, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			break
		}

		require.NoError(t, err)
		outcomes[resp.Outcome]++
	}

	assert.Equal(t, map[models.Outcome]int{models.OutcomePassed: 1, models.OutcomeError: 1}, outcomes)
	assert.Equal(t, "secret", <-h.apiKeys)
}

func TestRunSteps_MalformedFrameKeepsStreamOpen(t *testing.T) {
	h := newHarness(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	stream, err := h.conn.NewStream(ctx, &ServiceDesc.Streams[0], RunStepsMethod, grpc.ForceCodec(Codec{}))
	require.NoError(t, err)

	bad := rawFrame(`{"step": not json`)
	require.NoError(t, stream.SendMsg(&bad))
	require.NoError(t, stream.SendMsg(discover()))
	require.NoError(t, stream.CloseSend())

	outcomes := map[models.Outcome]int{}

	for {
		resp := new(models.RunStepResponse)

		err := stream.RecvMsg(resp)
		if errors.Is(err, io.EOF) {
			break
		}

		require.NoError(t, err)
		outcomes[resp.Outcome]++
	}

	assert.Equal(t, map[models.Outcome]int{models.OutcomePassed: 1, models.OutcomeError: 1}, outcomes)
}

func TestAuthFromContext(t *testing.T) {
	ctx := metadata.NewIncomingContext(context.Background(), metadata.Pairs("apikey", "k1", "other", "v"))

	auth := AuthFromContext(ctx)

	assert.Equal(t, "k1", auth.Get(models.AuthFieldAPIKey))
	assert.Equal(t, "v", auth.Get("other"))
	assert.Empty(t, AuthFromContext(context.Background()))
}

func TestCodec(t *testing.T) {
	var codec Codec

	assert.Equal(t, "json", codec.Name())

	var req models.RunStepRequest
	require.NoError(t, codec.Unmarshal(nil, &req))

	payload, err := codec.Marshal(&models.RunStepRequest{RequestID: "r"})
	require.NoError(t, err)
	require.NoError(t, codec.Unmarshal(payload, &req))
	assert.Equal(t, "r", req.RequestID)

	var frame rawFrame
	require.NoError(t, codec.Unmarshal([]byte("not json"), &frame))
	assert.Equal(t, "not json", string(frame))

	out, err := codec.Marshal(&frame)
	require.NoError(t, err)
	assert.Equal(t, "not json", string(out))
}
