package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountType is the product kind of an account.
type AccountType string

const (
	AccountChecking AccountType = "checking"
	AccountSavings  AccountType = "savings"
)

// Valid reports whether t is a supported account type.
func (t AccountType) Valid() bool {
	return t == AccountChecking || t == AccountSavings
}

// AccountStatus is the lifecycle state of an account.
type AccountStatus string

const (
	AccountActive AccountStatus = "active"
	AccountClosed AccountStatus = "closed"
)

// Account belongs to exactly one user. Balance only changes through ApplyAmount.
type Account struct {
	ID            string          `json:"id"`
	UserID        string          `json:"user_id"`
	AccountNumber string          `json:"account_number"`
	Type          AccountType     `json:"account_type"`
	Balance       decimal.Decimal `json:"balance"`
	Status        AccountStatus   `json:"status"`
	CreatedAt     time.Time       `json:"created_at"`
}

// ApplyAmount returns balance+signed rounded to cents. The sum is computed in
// decimal, so 100.10 + 0.20 is exactly 100.30.
func ApplyAmount(balance, signed decimal.Decimal) decimal.Decimal {
	return balance.Add(signed).Round(2)
}
