package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/bankdemo/banking-api/internal/core/domain"
)

var discardLogger = zerolog.Nop()

// ---------------------------------------------------------------------------
// Users
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	mu        sync.Mutex
	byID      map[string]*domain.User
	loseWrite bool // Create succeeds but nothing is stored
	findErr   error
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{byID: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.byID {
		if u.Email == user.Email {
			return domain.ErrEmailTaken
		}
	}
	if r.loseWrite {
		return nil
	}
	r.byID[user.ID] = cloneUser(user)
	return nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.findErr != nil {
		return nil, r.findErr
	}
	for _, u := range r.byID {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

// ---------------------------------------------------------------------------
// Sessions
// ---------------------------------------------------------------------------

type stubSessionRepo struct {
	mu           sync.Mutex
	byToken      map[string]domain.Session
	ignoreDelete bool // DeleteByToken reports success but keeps the row
}

func newStubSessionRepo() *stubSessionRepo {
	return &stubSessionRepo{byToken: make(map[string]domain.Session)}
}

func (r *stubSessionRepo) Insert(_ context.Context, s *domain.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byToken[s.Token] = *s
	return nil
}

func (r *stubSessionRepo) FindByToken(_ context.Context, token string) (*domain.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.byToken[token]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return &s, nil
}

func (r *stubSessionRepo) ListByUser(_ context.Context, userID string) ([]domain.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Session
	for _, s := range r.byToken {
		if s.UserID == userID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *stubSessionRepo) DeleteByToken(_ context.Context, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.ignoreDelete {
		delete(r.byToken, token)
	}
	return nil
}

func (r *stubSessionRepo) DeleteByTokens(_ context.Context, tokens []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range tokens {
		delete(r.byToken, t)
	}
	return nil
}

// sortedTokens returns the user's tokens newest first.
func (r *stubSessionRepo) sortedTokens(userID string) []string {
	sessions, _ := r.ListByUser(context.Background(), userID)
	sort.Slice(sessions, func(i, j int) bool { return sessions[i].CreatedAt.After(sessions[j].CreatedAt) })
	out := make([]string, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, s.Token)
	}
	return out
}

type stubTokens struct {
	mu     sync.Mutex
	seq    int
	owners map[string]string
}

func newStubTokens() *stubTokens {
	return &stubTokens{owners: make(map[string]string)}
}

func (t *stubTokens) Issue(userID string, issuedAt time.Time) (string, time.Time, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.seq++
	token := fmt.Sprintf("tok-%s-%d", userID, t.seq)
	t.owners[token] = userID
	return token, issuedAt.Add(domain.SessionTTL), nil
}

func (t *stubTokens) Verify(token string) (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	userID, ok := t.owners[token]
	if !ok {
		return "", errors.New("bad signature")
	}
	return userID, nil
}

type mutexLocker struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (l *mutexLocker) Lock(_ context.Context, _ string) (func(), error) {
	if l.err != nil {
		return nil, l.err
	}
	l.mu.Lock()
	l.calls++
	return l.mu.Unlock, nil
}

// ---------------------------------------------------------------------------
// Hashers
// ---------------------------------------------------------------------------

type stubHasher struct{}

func (stubHasher) Hash(p string) (string, error) { return "hashed:" + p, nil }
func (stubHasher) Verify(p, h string) bool       { return h == "hashed:"+p }

type stubSSN struct{}

func (stubSSN) Hash(ssn string) string { return "ssn-digest-" + fmt.Sprint(len(ssn)) }

// ---------------------------------------------------------------------------
// Accounts and transactions
// ---------------------------------------------------------------------------

type stubAccountRepo struct {
	byID      map[string]*domain.Account
	loseWrite bool
	updateErr error
}

func newStubAccountRepo() *stubAccountRepo {
	return &stubAccountRepo{byID: make(map[string]*domain.Account)}
}

func cloneAccount(a *domain.Account) *domain.Account {
	clone := *a
	return &clone
}

func (r *stubAccountRepo) Create(_ context.Context, a *domain.Account) error {
	if !r.loseWrite {
		r.byID[a.ID] = cloneAccount(a)
	}
	return nil
}

func (r *stubAccountRepo) FindByID(_ context.Context, id string) (*domain.Account, error) {
	a, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	return cloneAccount(a), nil
}

func (r *stubAccountRepo) ListByUser(_ context.Context, userID string) ([]*domain.Account, error) {
	var out []*domain.Account
	for _, a := range r.byID {
		if a.UserID == userID {
			out = append(out, cloneAccount(a))
		}
	}
	return out, nil
}

func (r *stubAccountRepo) UpdateBalance(_ context.Context, id string, expected, balance decimal.Decimal) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	a, ok := r.byID[id]
	if !ok || !a.Balance.Equal(expected) {
		return domain.ErrStaleBalance
	}
	a.Balance = balance
	return nil
}

type stubTxRepo struct {
	rows      []domain.Transaction
	loseWrite bool
	insertErr error
	accounts  *stubAccountRepo
}

func (r *stubTxRepo) Insert(_ context.Context, tx *domain.Transaction) error {
	if r.insertErr != nil {
		return r.insertErr
	}
	if !r.loseWrite {
		r.rows = append(r.rows, *tx)
	}
	return nil
}

func (r *stubTxRepo) FindByID(_ context.Context, id string) (*domain.Transaction, error) {
	for i := range r.rows {
		if r.rows[i].ID == id {
			tx := r.rows[i]
			return &tx, nil
		}
	}
	return nil, nil
}

func (r *stubTxRepo) ListWithAccounts(_ context.Context, userID, accountID string) ([]domain.TransactionView, error) {
	var out []domain.TransactionView
	for _, tx := range r.rows {
		a, ok := r.accounts.byID[tx.AccountID]
		if !ok || a.UserID != userID {
			continue
		}
		if accountID != "" && tx.AccountID != accountID {
			continue
		}
		out = append(out, domain.TransactionView{Transaction: tx, AccountNumber: a.AccountNumber, AccountType: a.Type})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}
