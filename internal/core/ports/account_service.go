package ports

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/bankdemo/banking-api/internal/core/domain"
)

// FundInput describes a deposit into an account.
type FundInput struct {
	UserID        string
	AccountID     string
	Amount        decimal.Decimal
	SourceType    string
	CardNumber    string
	RoutingNumber string
	Description   string
}

// WithdrawInput describes a withdrawal from an account.
type WithdrawInput struct {
	UserID      string
	AccountID   string
	Amount      decimal.Decimal
	Description string
}

// PostingResult is the outcome of a balance-changing operation.
type PostingResult struct {
	Account     *domain.Account
	Transaction *domain.Transaction
}

// AccountService defines use-case operations for accounts and the ledger.
type AccountService interface {
	Open(ctx context.Context, userID, accountType string) (*domain.Account, error)
	List(ctx context.Context, userID string) ([]*domain.Account, error)
	Get(ctx context.Context, userID, accountID string) (*domain.Account, error)
	Fund(ctx context.Context, in FundInput) (*PostingResult, error)
	Withdraw(ctx context.Context, in WithdrawInput) (*PostingResult, error)
	Transactions(ctx context.Context, userID, accountID string) ([]domain.TransactionView, error)
}
