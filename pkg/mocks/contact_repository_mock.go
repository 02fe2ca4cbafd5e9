package mocks

import (
	"context"
	"net/http"
	"strconv"

	"github.com/dukex/iterable-cog/pkg/models"
	"github.com/stretchr/testify/mock"
)

// MockContactRepository is a mock implementation of protocol.ContactRepository.
type MockContactRepository struct {
	mock.Mock
}

func (m *MockContactRepository) CreateOrUpdateContact(ctx context.Context, contact models.Contact) (*models.APIResponse, error) {
	args := m.Called(ctx, contact)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.APIResponse), args.Error(1)
}

func (m *MockContactRepository) GetContactByEmail(ctx context.Context, email string) (*models.UserResponse, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.UserResponse), args.Error(1)
}

func (m *MockContactRepository) DeleteContactByEmail(ctx context.Context, email string) (*models.APIResponse, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.APIResponse), args.Error(1)
}

// HTTPStatusError is a test error exposing an HTTP status like the upstream client errors do.
type HTTPStatusError struct {
	Status int
}

func (e *HTTPStatusError) Error() string {
	return "request failed with status " + strconv.Itoa(e.Status) + " " + http.StatusText(e.Status)
}

func (e *HTTPStatusError) StatusCode() int {
	return e.Status
}
