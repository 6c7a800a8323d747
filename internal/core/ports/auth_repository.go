package ports

import (
	"context"

	"github.com/bankdemo/banking-api/internal/core/domain"
)

// UserRepository persists identity records.
type UserRepository interface {
	// Create inserts the user. A duplicate email yields domain.ErrEmailTaken.
	Create(ctx context.Context, user *domain.User) error
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
}
