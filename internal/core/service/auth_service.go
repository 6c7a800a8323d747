package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/bankdemo/banking-api/internal/core/domain"
	"github.com/bankdemo/banking-api/internal/core/ports"
	"github.com/bankdemo/banking-api/internal/core/validation"
	"github.com/bankdemo/banking-api/internal/pkg/metrics"
)

// AuthService implements signup, login and logout.
type AuthService struct {
	users     ports.UserRepository
	sessions  *SessionPolicy
	passwords ports.PasswordHasher
	ssn       ports.SSNHasher
	log       zerolog.Logger
	now       func() time.Time

	// dummyHash is compared against on unknown emails so that login does
	// the same work whether or not the user exists.
	dummyHash string
}

func NewAuthService(
	users ports.UserRepository,
	sessions *SessionPolicy,
	passwords ports.PasswordHasher,
	ssn ports.SSNHasher,
	log zerolog.Logger,
) (*AuthService, error) {
	dummy, err := passwords.Hash(uuid.NewString())
	if err != nil {
		return nil, fmt.Errorf("auth service: prepare dummy hash: %w", err)
	}
	return &AuthService{
		users:     users,
		sessions:  sessions,
		passwords: passwords,
		ssn:       ssn,
		log:       log,
		now:       time.Now,
		dummyHash: dummy,
	}, nil
}

// Signup validates the form, creates the user and issues a first session.
func (s *AuthService) Signup(ctx context.Context, in ports.SignupInput) (*ports.AuthResult, error) {
	now := s.now()

	email, emailErr := validation.Email(in.Email)
	first, firstErr := validation.FreeText(validation.FieldFirstName, in.FirstName, validation.MaxNameLen)
	last, lastErr := validation.FreeText(validation.FieldLastName, in.LastName, validation.MaxNameLen)
	phone, phoneErr := validation.Phone(in.Phone)
	dob, dobErr := validation.DateOfBirth(in.DateOfBirth, now)
	ssn, ssnErr := validation.SSN(in.SSN)
	address, addrErr := validation.FreeText(validation.FieldAddress, in.Address, validation.MaxAddrLen)
	city, cityErr := validation.FreeText(validation.FieldCity, in.City, validation.MaxCityLen)
	state, stateErr := validation.State(in.State)
	zip, zipErr := validation.Zip(in.Zip)

	if err := validation.Collect(
		emailErr, validation.Password(in.Password), firstErr, lastErr, phoneErr,
		dobErr, ssnErr, addrErr, cityErr, stateErr, zipErr,
	); err != nil {
		metrics.SignupsTotal.WithLabelValues("invalid").Inc()
		return nil, err
	}

	existing, err := s.users.FindByEmail(ctx, email.Address)
	switch {
	case err == nil && existing != nil:
		metrics.SignupsTotal.WithLabelValues("conflict").Inc()
		return nil, domain.ErrEmailTaken
	case err != nil && !errors.Is(err, domain.ErrUserNotFound):
		return nil, s.signupFailed(fmt.Errorf("signup: lookup email: %w", err))
	}

	hash, err := s.passwords.Hash(in.Password)
	if err != nil {
		return nil, s.signupFailed(fmt.Errorf("signup: hash password: %w", err))
	}

	user := &domain.User{
		ID:           uuid.NewString(),
		Email:        email.Address,
		PasswordHash: hash,
		FirstName:    first,
		LastName:     last,
		Phone:        phone,
		DateOfBirth:  dob,
		SSNHash:      s.ssn.Hash(ssn),
		Address:      address,
		City:         city,
		State:        state,
		Zip:          zip,
		CreatedAt:    now.UTC(),
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrEmailTaken) {
			metrics.SignupsTotal.WithLabelValues("conflict").Inc()
			return nil, err
		}
		return nil, s.signupFailed(fmt.Errorf("signup: create user: %w", err))
	}

	created, err := s.users.FindByID(ctx, user.ID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, s.signupFailed(fmt.Errorf("signup: re-read user %s: %w", user.ID, domain.ErrRecordMissing))
		}
		return nil, s.signupFailed(fmt.Errorf("signup: re-read user: %w", err))
	}

	session, err := s.sessions.Issue(ctx, created.ID)
	if err != nil {
		return nil, s.signupFailed(err)
	}

	var notices []string
	if email.CaseNormalized {
		notices = append(notices, "email address was converted to lowercase: "+email.Address)
	}

	metrics.SignupsTotal.WithLabelValues("created").Inc()
	s.log.Info().Str("user_id", created.ID).Msg("user signed up")

	return &ports.AuthResult{User: created.Stripped(), Session: session, Notices: notices}, nil
}

func (s *AuthService) signupFailed(err error) error {
	metrics.SignupsTotal.WithLabelValues("error").Inc()
	return err
}

// Login checks credentials and issues a session. Unknown email and wrong
// password produce the same error.
func (s *AuthService) Login(ctx context.Context, email, password string) (*ports.AuthResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		metrics.LoginsTotal.WithLabelValues("invalid_credentials").Inc()
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			s.passwords.Verify(password, s.dummyHash)
			metrics.LoginsTotal.WithLabelValues("invalid_credentials").Inc()
			return nil, domain.ErrInvalidCredentials
		}
		metrics.LoginsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("login: lookup: %w", err)
	}

	if !s.passwords.Verify(password, user.PasswordHash) {
		metrics.LoginsTotal.WithLabelValues("invalid_credentials").Inc()
		return nil, domain.ErrInvalidCredentials
	}

	session, err := s.sessions.Issue(ctx, user.ID)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	s.log.Info().Str("user_id", user.ID).Msg("user logged in")

	return &ports.AuthResult{User: user.Stripped(), Session: session}, nil
}

// Logout revokes the session behind token. An empty token means no
// authenticated session was presented and succeeds without touching the store.
func (s *AuthService) Logout(ctx context.Context, token string) (*ports.LogoutResult, error) {
	if token == "" {
		return &ports.LogoutResult{HadSession: false}, nil
	}
	if err := s.sessions.Revoke(ctx, token); err != nil {
		s.log.Error().Err(err).Msg("logout could not revoke session")
		return nil, err
	}
	return &ports.LogoutResult{HadSession: true}, nil
}

// Authenticate resolves a token to a usable session.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*domain.Session, error) {
	return s.sessions.Authenticate(ctx, token)
}

// Me returns the stripped profile of userID.
func (s *AuthService) Me(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return user.Stripped(), nil
}
