package service

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/bankdemo/banking-api/internal/core/domain"
	"github.com/bankdemo/banking-api/internal/core/ports"
	"github.com/bankdemo/banking-api/internal/core/validation"
	"github.com/bankdemo/banking-api/internal/pkg/metrics"
)

// AccountService opens accounts and posts ledger entries against them.
type AccountService struct {
	accounts ports.AccountRepository
	txs      ports.TransactionRepository
	random   io.Reader
	log      zerolog.Logger
	now      func() time.Time
}

// NewAccountService wires the service. random must be a cryptographically
// secure source (crypto/rand.Reader in production).
func NewAccountService(accounts ports.AccountRepository, txs ports.TransactionRepository, random io.Reader, log zerolog.Logger) *AccountService {
	return &AccountService{accounts: accounts, txs: txs, random: random, log: log, now: time.Now}
}

// Open creates an empty account for userID and returns the stored row.
func (s *AccountService) Open(ctx context.Context, userID, accountType string) (*domain.Account, error) {
	t := domain.AccountType(strings.ToLower(strings.TrimSpace(accountType)))
	if !t.Valid() {
		return nil, domain.NewFieldError(validation.FieldAccountType, "must be checking or savings")
	}

	number, err := generateAccountNumber(s.random)
	if err != nil {
		return nil, fmt.Errorf("open account: %w", err)
	}

	account := &domain.Account{
		ID:            uuid.NewString(),
		UserID:        userID,
		AccountNumber: number,
		Type:          t,
		Balance:       decimal.Zero,
		Status:        domain.AccountActive,
		CreatedAt:     s.now().UTC(),
	}
	if err := s.accounts.Create(ctx, account); err != nil {
		return nil, fmt.Errorf("open account: insert: %w", err)
	}

	stored, err := s.accounts.FindByID(ctx, account.ID)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return nil, fmt.Errorf("open account: re-read %s: %w", account.ID, domain.ErrRecordMissing)
		}
		return nil, fmt.Errorf("open account: re-read: %w", err)
	}

	metrics.AccountsOpenedTotal.WithLabelValues(string(t)).Inc()
	s.log.Info().Str("user_id", userID).Str("account_id", stored.ID).Msg("account opened")
	return stored, nil
}

// generateAccountNumber formats 4 random bytes as a zero-padded 10-digit number.
func generateAccountNumber(r io.Reader) (string, error) {
	b := make([]byte, 4)
	if _, err := io.ReadFull(r, b); err != nil {
		return "", fmt.Errorf("account number: read random: %w", err)
	}
	return fmt.Sprintf("%010d", binary.BigEndian.Uint32(b)), nil
}

// List returns every account owned by userID.
func (s *AccountService) List(ctx context.Context, userID string) ([]*domain.Account, error) {
	return s.accounts.ListByUser(ctx, userID)
}

// Get returns the account when it exists and belongs to userID.
func (s *AccountService) Get(ctx context.Context, userID, accountID string) (*domain.Account, error) {
	account, err := s.accounts.FindByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if account.UserID != userID {
		return nil, domain.ErrAccountNotFound
	}
	return account, nil
}

// Fund deposits money from a card or a bank account.
func (s *AccountService) Fund(ctx context.Context, in ports.FundInput) (*ports.PostingResult, error) {
	source, sourceErr := validation.SourceType(in.SourceType)
	desc, descErr := validation.Description(in.Description)

	var card string
	var cardErr error
	if source == domain.SourceCard {
		card, cardErr = validation.CardNumber(in.CardNumber)
	}

	if err := validation.Collect(
		validation.Amount(in.Amount), sourceErr, cardErr,
		validation.RoutingNumber(source, in.RoutingNumber), descErr,
	); err != nil {
		return nil, err
	}

	tx := &domain.Transaction{
		Kind:        domain.KindDeposit,
		Amount:      in.Amount,
		Source:      source,
		Description: desc,
	}
	if card != "" {
		tx.CardBrand = string(validation.ClassifyCard(card))
		tx.CardLast4 = card[len(card)-4:]
	}

	return s.post(ctx, in.UserID, in.AccountID, tx)
}

// Withdraw removes money from an account. The balance may not go negative.
func (s *AccountService) Withdraw(ctx context.Context, in ports.WithdrawInput) (*ports.PostingResult, error) {
	desc, descErr := validation.Description(in.Description)
	if err := validation.Collect(validation.Amount(in.Amount), descErr); err != nil {
		return nil, err
	}

	tx := &domain.Transaction{
		Kind:        domain.KindWithdrawal,
		Amount:      in.Amount.Neg(),
		Description: desc,
	}
	return s.post(ctx, in.UserID, in.AccountID, tx)
}

// post applies tx to the account, records it and reads it back by its own id.
func (s *AccountService) post(ctx context.Context, userID, accountID string, tx *domain.Transaction) (*ports.PostingResult, error) {
	account, err := s.Get(ctx, userID, accountID)
	if err != nil {
		return nil, err
	}
	if account.Status != domain.AccountActive {
		return nil, domain.NewFieldError("account", "is not active")
	}

	balance := domain.ApplyAmount(account.Balance, tx.Amount)
	if balance.IsNegative() {
		return nil, domain.ErrInsufficientFunds
	}

	now := s.now().UTC()
	tx.ID = uuid.NewString()
	tx.AccountID = account.ID
	tx.CreatedAt = now
	tx.ProcessedAt = now

	if err := s.accounts.UpdateBalance(ctx, account.ID, account.Balance, balance); err != nil {
		return nil, fmt.Errorf("post %s: update balance: %w", tx.Kind, err)
	}

	if err := s.txs.Insert(ctx, tx); err != nil {
		if rbErr := s.accounts.UpdateBalance(ctx, account.ID, balance, account.Balance); rbErr != nil {
			s.log.Error().Err(rbErr).Str("account_id", account.ID).Str("transaction_id", tx.ID).
				Msg("could not restore balance after failed transaction insert")
		}
		return nil, fmt.Errorf("post %s: insert transaction: %w", tx.Kind, err)
	}

	stored, err := s.txs.FindByID(ctx, tx.ID)
	if err != nil {
		return nil, fmt.Errorf("post %s: re-read transaction: %w", tx.Kind, err)
	}
	if stored == nil {
		return nil, fmt.Errorf("post %s: re-read transaction %s: %w", tx.Kind, tx.ID, domain.ErrRecordMissing)
	}

	account.Balance = balance
	metrics.LedgerPostingsTotal.WithLabelValues(string(tx.Kind), string(tx.Source)).Inc()
	s.log.Info().
		Str("account_id", account.ID).
		Str("transaction_id", stored.ID).
		Str("kind", string(stored.Kind)).
		Str("amount", stored.Amount.StringFixed(2)).
		Msg("ledger posting committed")

	return &ports.PostingResult{Account: account, Transaction: stored}, nil
}

// Transactions lists the user's transactions newest first, optionally for a
// single account.
func (s *AccountService) Transactions(ctx context.Context, userID, accountID string) ([]domain.TransactionView, error) {
	if accountID != "" {
		if _, err := s.Get(ctx, userID, accountID); err != nil {
			return nil, err
		}
	}
	return s.txs.ListWithAccounts(ctx, userID, accountID)
}
