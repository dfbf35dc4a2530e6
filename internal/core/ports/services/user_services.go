package services

import (
	"context"
	"time"

	"github.com/hisab-books/ledger_backend/internal/core/domain"
	"github.com/hisab-books/ledger_backend/internal/dto"
)

// UserSvcFacade defines operations on application users.
type UserSvcFacade interface {
	// RegisterUser creates a user with a bcrypt-hashed password.
	RegisterUser(ctx context.Context, req dto.RegisterUserRequest) (*domain.User, error)

	// AuthenticateUser verifies credentials and returns the user.
	AuthenticateUser(ctx context.Context, username string, password string) (*domain.User, error)

	// GetUserByID retrieves a user.
	GetUserByID(ctx context.Context, userID string) (*domain.User, error)
}

// TokenSvcFacade issues access tokens for authenticated users.
type TokenSvcFacade interface {
	// GenerateToken creates a signed JWT for the user, returning the token and
	// its expiry.
	GenerateToken(user *domain.User) (string, time.Time, error)
}
