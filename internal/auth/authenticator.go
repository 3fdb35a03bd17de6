// Package auth is the identity collaborator. The period engine never
// authenticates anyone; it only receives an authenticated user ID and
// authorizes through membership lookups. This package supplies that user
// ID: credential verification plus session tokens.
package auth

import (
	"context"

	"github.com/kittyfund/kittyfund/internal/models"
)

// Authenticator abstracts credential handling so the HTTP layer stays
// independent of the auth method (password today, OAuth or passkeys
// tomorrow).
type Authenticator interface {
	// Register creates a new user account with the given credential.
	Register(ctx context.Context, email, displayName, credential string) (*models.User, error)

	// Authenticate verifies the credentials and returns the user on success.
	Authenticate(ctx context.Context, email, credential string) (*models.User, error)

	// ValidateCredential checks the credential against the method's
	// minimum requirements.
	ValidateCredential(credential string) error
}
