package ports

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/bankdemo/banking-api/internal/core/domain"
)

// AccountRepository persists accounts.
type AccountRepository interface {
	Create(ctx context.Context, a *domain.Account) error
	// FindByID returns domain.ErrAccountNotFound when absent.
	FindByID(ctx context.Context, id string) (*domain.Account, error)
	ListByUser(ctx context.Context, userID string) ([]*domain.Account, error)
	// UpdateBalance sets the balance only if it still equals expected.
	// A lost race yields domain.ErrStaleBalance.
	UpdateBalance(ctx context.Context, id string, expected, balance decimal.Decimal) error
}

// TransactionRepository persists ledger postings.
type TransactionRepository interface {
	Insert(ctx context.Context, tx *domain.Transaction) error
	// FindByID returns nil, nil when no row exists.
	FindByID(ctx context.Context, id string) (*domain.Transaction, error)
	// ListWithAccounts returns the user's transactions joined with account
	// fields, newest first. An empty accountID selects every account.
	ListWithAccounts(ctx context.Context, userID, accountID string) ([]domain.TransactionView, error)
}
