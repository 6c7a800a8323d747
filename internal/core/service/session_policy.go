package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/bankdemo/banking-api/internal/core/domain"
	"github.com/bankdemo/banking-api/internal/core/ports"
	"github.com/bankdemo/banking-api/internal/pkg/metrics"
)

// SessionPolicy issues, authenticates and revokes sessions while keeping
// each user at or below domain.MaxSessionsPerUser stored sessions.
type SessionPolicy struct {
	repo   ports.SessionRepository
	tokens ports.TokenIssuer
	locker ports.SessionLocker
	log    zerolog.Logger
	now    func() time.Time
}

func NewSessionPolicy(repo ports.SessionRepository, tokens ports.TokenIssuer, locker ports.SessionLocker, log zerolog.Logger) *SessionPolicy {
	return &SessionPolicy{repo: repo, tokens: tokens, locker: locker, log: log, now: time.Now}
}

// Issue creates a session for userID. Under the user's lock it evicts every
// stored session except the newest MaxSessionsPerUser-1, then inserts the new
// one, so the user ends with at most MaxSessionsPerUser sessions.
func (p *SessionPolicy) Issue(ctx context.Context, userID string) (*domain.Session, error) {
	unlock, err := p.locker.Lock(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("issue session: lock: %w", err)
	}
	defer unlock()

	existing, err := p.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("issue session: list: %w", err)
	}

	if len(existing) >= domain.MaxSessionsPerUser {
		sort.SliceStable(existing, func(i, j int) bool {
			return existing[i].CreatedAt.After(existing[j].CreatedAt)
		})
		stale := existing[domain.MaxSessionsPerUser-1:]
		tokens := make([]string, 0, len(stale))
		for _, s := range stale {
			tokens = append(tokens, s.Token)
		}
		if err := p.repo.DeleteByTokens(ctx, tokens); err != nil {
			return nil, fmt.Errorf("issue session: evict: %w", err)
		}
		metrics.SessionsEvictedTotal.Add(float64(len(tokens)))
		p.log.Info().Str("user_id", userID).Int("evicted", len(tokens)).Msg("session cap reached")
	}

	now := p.now().UTC()
	token, expiresAt, err := p.tokens.Issue(userID, now)
	if err != nil {
		return nil, fmt.Errorf("issue session: sign: %w", err)
	}

	session := &domain.Session{
		Token:     token,
		UserID:    userID,
		CreatedAt: now,
		ExpiresAt: expiresAt,
	}
	if err := p.repo.Insert(ctx, session); err != nil {
		return nil, fmt.Errorf("issue session: insert: %w", err)
	}

	metrics.SessionsIssuedTotal.Inc()
	return session, nil
}

// Authenticate resolves a presented token to a usable session.
func (p *SessionPolicy) Authenticate(ctx context.Context, token string) (*domain.Session, error) {
	if token == "" {
		return nil, domain.ErrUnauthenticated
	}
	userID, err := p.tokens.Verify(token)
	if err != nil {
		return nil, domain.ErrUnauthenticated
	}

	session, err := p.repo.FindByToken(ctx, token)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			return nil, domain.ErrUnauthenticated
		}
		return nil, fmt.Errorf("authenticate: %w", err)
	}
	if session.UserID != userID || !session.Usable(p.now()) {
		return nil, domain.ErrUnauthenticated
	}
	return session, nil
}

// Revoke deletes the session row for token and confirms it is gone.
func (p *SessionPolicy) Revoke(ctx context.Context, token string) error {
	if err := p.repo.DeleteByToken(ctx, token); err != nil {
		return fmt.Errorf("revoke session: delete: %w", err)
	}

	_, err := p.repo.FindByToken(ctx, token)
	switch {
	case errors.Is(err, domain.ErrSessionNotFound):
		metrics.SessionsRevokedTotal.Inc()
		return nil
	case err != nil:
		return fmt.Errorf("revoke session: confirm: %w", err)
	default:
		return domain.ErrSessionNotRevoked
	}
}
