package auth

import (
	"context"
	"errors"
)

// ErrEmailExists is returned by CreateAccount when the email is already
// registered with the identity provider. Callers recover by looking the
// existing account up instead of failing.
var ErrEmailExists = errors.New("email already registered")

// Account is the slim view of an identity-provider account.
type Account struct {
	ID    string
	Email string
}

// Provider abstracts the hosted identity service used for resident
// passwordless access.
type Provider interface {
	CreateAccount(ctx context.Context, email string, metadata map[string]interface{}) (*Account, error)
	FindAccountByEmail(ctx context.Context, email string) (*Account, error)
	// GenerateSignInLink issues a one-time magic link whose post-login
	// redirect points at redirectTo.
	GenerateSignInLink(ctx context.Context, email, redirectTo string) (string, error)
}
