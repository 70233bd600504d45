package auth

import (
	"context"

	"github.com/Yash-Soni1/vectra-backend/model"
)

// Session is a signed-in user plus their access token.
type Session struct {
	AccessToken string      `json:"access_token"`
	TokenType   string      `json:"token_type"`
	ExpiresAt   int64       `json:"expires_at"`
	User        *model.User `json:"user"`
}

// Provider authenticates users. Handlers only see this interface so the
// credential backend can be swapped in tests.
type Provider interface {
	SignUp(ctx context.Context, email, password string) (*model.User, error)
	SignIn(ctx context.Context, email, password string) (*Session, error)
	Verify(ctx context.Context, token string) error
	GetUser(ctx context.Context, token string) (*model.User, error)
}

// UserStore persists user accounts.
type UserStore interface {
	Create(ctx context.Context, user *model.User) error
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByID(ctx context.Context, id uint64) (*model.User, error)
	Activate(ctx context.Context, id uint64) error
}
