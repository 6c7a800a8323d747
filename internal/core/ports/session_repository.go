package ports

import (
	"context"

	"github.com/bankdemo/banking-api/internal/core/domain"
)

// SessionRepository stores session rows.
type SessionRepository interface {
	Insert(ctx context.Context, s *domain.Session) error
	// FindByToken returns domain.ErrSessionNotFound when no row matches.
	FindByToken(ctx context.Context, token string) (*domain.Session, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Session, error)
	DeleteByToken(ctx context.Context, token string) error
	DeleteByTokens(ctx context.Context, tokens []string) error
}

// SessionLocker serializes the session-cap sequence for one user.
type SessionLocker interface {
	Lock(ctx context.Context, userID string) (unlock func(), err error)
}
