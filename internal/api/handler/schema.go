package handler

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/bankdemo/banking-api/internal/core/domain"
)

const dateLayout = "2006-01-02"

// --- Requests ---

type signupRequest struct {
	Email       string `json:"email" validate:"required"`
	Password    string `json:"password" validate:"required"`
	FirstName   string `json:"first_name" validate:"required"`
	LastName    string `json:"last_name" validate:"required"`
	Phone       string `json:"phone" validate:"required"`
	DateOfBirth string `json:"date_of_birth" validate:"required"`
	SSN         string `json:"ssn" validate:"required"`
	Address     string `json:"address" validate:"required"`
	City        string `json:"city" validate:"required"`
	State       string `json:"state" validate:"required"`
	Zip         string `json:"zip" validate:"required"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type openAccountRequest struct {
	AccountType string `json:"account_type" validate:"required"`
}

type fundRequest struct {
	Amount        amountField `json:"amount" validate:"required" swaggertype:"string" example:"100.10"`
	SourceType    string      `json:"source_type" validate:"required"`
	CardNumber    string      `json:"card_number,omitempty"`
	RoutingNumber string      `json:"routing_number,omitempty"`
	Description   string      `json:"description,omitempty"`
}

type withdrawRequest struct {
	Amount      amountField `json:"amount" validate:"required" swaggertype:"string" example:"20.00"`
	Description string      `json:"description,omitempty"`
}

// amountField keeps the literal text of a JSON number or string so amounts
// are parsed as decimals and never pass through float64.
type amountField string

func (a *amountField) UnmarshalJSON(b []byte) error {
	raw := strings.TrimSpace(string(b))
	switch {
	case raw == "null":
		*a = ""
	case strings.HasPrefix(raw, `"`):
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*a = amountField(strings.TrimSpace(s))
	default:
		*a = amountField(raw)
	}
	return nil
}

// --- Responses ---

// ErrorBody is the envelope of every error response. Fields is set for
// validation failures only.
type ErrorBody struct {
	Error  string              `json:"error"`
	Fields []domain.FieldError `json:"fields,omitempty"`
}

type userResponse struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Phone       string `json:"phone"`
	DateOfBirth string `json:"date_of_birth"`
	Address     string `json:"address"`
	City        string `json:"city"`
	State       string `json:"state"`
	Zip         string `json:"zip"`
	CreatedAt   string `json:"created_at"`
}

type authResponse struct {
	User      userResponse `json:"user"`
	Token     string       `json:"token"`
	ExpiresAt string       `json:"expires_at"`
	Notices   []string     `json:"notices,omitempty"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type accountResponse struct {
	ID            string `json:"id"`
	AccountNumber string `json:"account_number"`
	AccountType   string `json:"account_type"`
	Balance       string `json:"balance"`
	Status        string `json:"status"`
	CreatedAt     string `json:"created_at"`
}

type accountListResponse struct {
	Accounts []accountResponse `json:"accounts"`
}

type transactionResponse struct {
	ID            string `json:"id"`
	AccountID     string `json:"account_id"`
	AccountNumber string `json:"account_number,omitempty"`
	AccountType   string `json:"account_type,omitempty"`
	Kind          string `json:"kind"`
	Amount        string `json:"amount"`
	Source        string `json:"source,omitempty"`
	CardBrand     string `json:"card_brand,omitempty"`
	CardLast4     string `json:"card_last4,omitempty"`
	Description   string `json:"description,omitempty"`
	CreatedAt     string `json:"created_at"`
	ProcessedAt   string `json:"processed_at"`
}

type transactionListResponse struct {
	Transactions []transactionResponse `json:"transactions"`
}

type postingResponse struct {
	Account     accountResponse     `json:"account"`
	Transaction transactionResponse `json:"transaction"`
}

// --- Mappers ---

func toUserResponse(u *domain.User) userResponse {
	return userResponse{
		ID:          u.ID,
		Email:       u.Email,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		Phone:       u.Phone,
		DateOfBirth: u.DateOfBirth.Format(dateLayout),
		Address:     u.Address,
		City:        u.City,
		State:       u.State,
		Zip:         u.Zip,
		CreatedAt:   u.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func toAuthResponse(user *domain.User, session *domain.Session, notices []string) authResponse {
	return authResponse{
		User:      toUserResponse(user),
		Token:     session.Token,
		ExpiresAt: session.ExpiresAt.UTC().Format(time.RFC3339),
		Notices:   notices,
	}
}

func toAccountResponse(a *domain.Account) accountResponse {
	return accountResponse{
		ID:            a.ID,
		AccountNumber: a.AccountNumber,
		AccountType:   string(a.Type),
		Balance:       a.Balance.StringFixed(2),
		Status:        string(a.Status),
		CreatedAt:     a.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func toTransactionResponse(tx *domain.Transaction) transactionResponse {
	return transactionResponse{
		ID:          tx.ID,
		AccountID:   tx.AccountID,
		Kind:        string(tx.Kind),
		Amount:      tx.Amount.StringFixed(2),
		Source:      string(tx.Source),
		CardBrand:   tx.CardBrand,
		CardLast4:   tx.CardLast4,
		Description: tx.Description,
		CreatedAt:   tx.CreatedAt.UTC().Format(time.RFC3339),
		ProcessedAt: tx.ProcessedAt.UTC().Format(time.RFC3339),
	}
}

func toTransactionViewResponse(v *domain.TransactionView) transactionResponse {
	resp := toTransactionResponse(&v.Transaction)
	resp.AccountNumber = v.AccountNumber
	resp.AccountType = string(v.AccountType)
	return resp
}
