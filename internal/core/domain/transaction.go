package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionKind tells credits from debits.
type TransactionKind string

const (
	KindDeposit    TransactionKind = "deposit"
	KindWithdrawal TransactionKind = "withdrawal"
)

// FundingSource is where deposited money comes from.
type FundingSource string

const (
	SourceCard FundingSource = "card"
	SourceBank FundingSource = "bank"
)

// Transaction is an immutable ledger posting. Description is plain text and
// must never be rendered as markup.
type Transaction struct {
	ID          string
	AccountID   string
	Kind        TransactionKind
	Amount      decimal.Decimal // signed
	Source      FundingSource
	CardBrand   string
	CardLast4   string
	Description string
	CreatedAt   time.Time
	ProcessedAt time.Time
}

// TransactionView is a transaction joined with the owning account's fields.
type TransactionView struct {
	Transaction
	AccountNumber string
	AccountType   AccountType
}
