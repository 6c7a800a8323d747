package ports

import (
	"context"

	"github.com/bankdemo/banking-api/internal/core/domain"
)

// SignupInput carries the raw signup form.
type SignupInput struct {
	Email       string
	Password    string
	FirstName   string
	LastName    string
	Phone       string
	DateOfBirth string
	SSN         string
	Address     string
	City        string
	State       string
	Zip         string
}

// AuthResult is returned by signup and login. User never carries hashes.
type AuthResult struct {
	User    *domain.User
	Session *domain.Session
	Notices []string
}

// LogoutResult reports what logout did.
type LogoutResult struct {
	// HadSession is false when no authenticated session was presented.
	HadSession bool
}

type AuthService interface {
	Signup(ctx context.Context, in SignupInput) (*AuthResult, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	Logout(ctx context.Context, token string) (*LogoutResult, error)
	Authenticate(ctx context.Context, token string) (*domain.Session, error)
	Me(ctx context.Context, userID string) (*domain.User, error)
}
