package protocol

import (
	"context"

	"github.com/dukex/iterable-cog/pkg/models"
)

// ContactRepository is the set of contact operations the steps rely on.
// Implementations return an error exposing StatusCode() int for HTTP failures.
type ContactRepository interface {
	CreateOrUpdateContact(ctx context.Context, contact models.Contact) (*models.APIResponse, error)
	GetContactByEmail(ctx context.Context, email string) (*models.UserResponse, error)
	DeleteContactByEmail(ctx context.Context, email string) (*models.APIResponse, error)
}

// ClientFactory builds a ContactRepository from request-scoped credentials.
type ClientFactory func(auth models.AuthMetadata) ContactRepository
