package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/bankdemo/banking-api/internal/core/domain"
	"github.com/bankdemo/banking-api/internal/core/ports"
)

type stubAccountService struct {
	openFn         func(ctx context.Context, userID, accountType string) (*domain.Account, error)
	listFn         func(ctx context.Context, userID string) ([]*domain.Account, error)
	getFn          func(ctx context.Context, userID, accountID string) (*domain.Account, error)
	fundFn         func(ctx context.Context, in ports.FundInput) (*ports.PostingResult, error)
	withdrawFn     func(ctx context.Context, in ports.WithdrawInput) (*ports.PostingResult, error)
	transactionsFn func(ctx context.Context, userID, accountID string) ([]domain.TransactionView, error)
}

func (s *stubAccountService) Open(ctx context.Context, userID, accountType string) (*domain.Account, error) {
	return s.openFn(ctx, userID, accountType)
}

func (s *stubAccountService) List(ctx context.Context, userID string) ([]*domain.Account, error) {
	return s.listFn(ctx, userID)
}

func (s *stubAccountService) Get(ctx context.Context, userID, accountID string) (*domain.Account, error) {
	return s.getFn(ctx, userID, accountID)
}

func (s *stubAccountService) Fund(ctx context.Context, in ports.FundInput) (*ports.PostingResult, error) {
	return s.fundFn(ctx, in)
}

func (s *stubAccountService) Withdraw(ctx context.Context, in ports.WithdrawInput) (*ports.PostingResult, error) {
	return s.withdrawFn(ctx, in)
}

func (s *stubAccountService) Transactions(ctx context.Context, userID, accountID string) ([]domain.TransactionView, error) {
	return s.transactionsFn(ctx, userID, accountID)
}

func testAccount(balance string) *domain.Account {
	return &domain.Account{
		ID:            "acc-1",
		UserID:        "user-1",
		AccountNumber: "0000012345",
		Type:          domain.AccountChecking,
		Balance:       decimal.RequireFromString(balance),
		Status:        domain.AccountActive,
		CreatedAt:     testTime,
	}
}

func authedContext(e *echo.Echo, req *http.Request) (echo.Context, *httptest.ResponseRecorder) {
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user_id", "user-1")
	return c, rec
}

func TestAccountHandler_Open(t *testing.T) {
	e := newEcho()
	h := NewAccountHandler(&stubAccountService{
		openFn: func(_ context.Context, userID, accountType string) (*domain.Account, error) {
			if userID != "user-1" || accountType != "checking" {
				t.Fatalf("unexpected args %s %s", userID, accountType)
			}
			return testAccount("0"), nil
		},
	})

	c, rec := authedContext(e, jsonRequest(http.MethodPost, "/v1/accounts", `{"account_type":"checking"}`))
	if err := h.Open(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	var resp accountResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp.Balance != "0.00" || resp.AccountNumber != "0000012345" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}

func TestAccountHandler_Fund_AmountAsNumberOrString(t *testing.T) {
	for _, body := range []string{
		`{"amount":100.10,"source_type":"card","card_number":"4111111111111111","description":"<b>hi</b>"}`,
		`{"amount":"100.10","source_type":"card","card_number":"4111111111111111","description":"<b>hi</b>"}`,
	} {
		e := newEcho()
		h := NewAccountHandler(&stubAccountService{
			fundFn: func(_ context.Context, in ports.FundInput) (*ports.PostingResult, error) {
				if !in.Amount.Equal(decimal.RequireFromString("100.10")) || in.AccountID != "acc-1" {
					t.Fatalf("unexpected input: %+v", in)
				}
				return &ports.PostingResult{
					Account: testAccount("100.1"),
					Transaction: &domain.Transaction{
						ID: "tx-1", AccountID: "acc-1", Kind: domain.KindDeposit, Amount: in.Amount,
						Source: domain.SourceCard, CardBrand: "Visa", CardLast4: "1111", Description: in.Description,
					},
				}, nil
			},
		})

		c, rec := authedContext(e, jsonRequest(http.MethodPost, "/v1/accounts/acc-1/fund", body))
		c.SetParamNames("id")
		c.SetParamValues("acc-1")
		if err := h.Fund(c); err != nil {
			t.Fatalf("handler error: %v", err)
		}

		var resp postingResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("invalid json: %v", err)
		}
		if resp.Account.Balance != "100.10" || resp.Transaction.Amount != "100.10" || resp.Transaction.CardLast4 != "1111" {
			t.Fatalf("unexpected payload: %+v", resp)
		}
		if resp.Transaction.Description != "<b>hi</b>" {
			t.Fatalf("description changed: %q", resp.Transaction.Description)
		}
	}
}

func TestAccountHandler_Fund_BadAmount(t *testing.T) {
	e := newEcho()
	h := NewAccountHandler(&stubAccountService{})

	for _, body := range []string{
		`{"amount":"01.00","source_type":"bank"}`,
		`{"amount":"1.005","source_type":"bank"}`,
		`{"amount":"abc","source_type":"bank"}`,
		`{"source_type":"bank"}`,
	} {
		c, _ := authedContext(e, jsonRequest(http.MethodPost, "/v1/accounts/acc-1/fund", body))
		err := h.Fund(c)
		var ve *domain.ValidationError
		if !errors.As(err, &ve) || ve.Fields[0].Field != "amount" {
			t.Fatalf("body %s: expected amount validation error, got %v", body, err)
		}
	}
}

func TestAccountHandler_Withdraw_InsufficientFunds(t *testing.T) {
	e := newEcho()
	h := NewAccountHandler(&stubAccountService{
		withdrawFn: func(context.Context, ports.WithdrawInput) (*ports.PostingResult, error) {
			return nil, domain.ErrInsufficientFunds
		},
	})

	c, _ := authedContext(e, jsonRequest(http.MethodPost, "/v1/accounts/acc-1/withdraw", `{"amount":"5.00"}`))
	if err := h.Withdraw(c); !errors.Is(err, domain.ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}
}

func TestAccountHandler_List(t *testing.T) {
	e := newEcho()
	h := NewAccountHandler(&stubAccountService{
		listFn: func(context.Context, string) ([]*domain.Account, error) { return nil, nil },
	})

	c, rec := authedContext(e, httptest.NewRequest(http.MethodGet, "/v1/accounts", nil))
	if err := h.List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if body := rec.Body.String(); body != "{\"accounts\":[]}\n" {
		t.Fatalf("expected empty list, got %s", body)
	}
}

func TestAccountHandler_Get_NotFound(t *testing.T) {
	e := newEcho()
	h := NewAccountHandler(&stubAccountService{
		getFn: func(context.Context, string, string) (*domain.Account, error) { return nil, domain.ErrAccountNotFound },
	})

	c, _ := authedContext(e, httptest.NewRequest(http.MethodGet, "/v1/accounts/other", nil))
	c.SetParamNames("id")
	c.SetParamValues("other")
	if err := h.Get(c); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestAccountHandler_Transactions(t *testing.T) {
	e := newEcho()
	h := NewAccountHandler(&stubAccountService{
		transactionsFn: func(_ context.Context, userID, accountID string) ([]domain.TransactionView, error) {
			if accountID != "acc-1" {
				t.Fatalf("account filter = %q", accountID)
			}
			return []domain.TransactionView{
				{Transaction: domain.Transaction{ID: "t2", Amount: decimal.RequireFromString("-20"), Kind: domain.KindWithdrawal}, AccountNumber: "0000012345", AccountType: domain.AccountChecking},
				{Transaction: domain.Transaction{ID: "t1", Amount: decimal.RequireFromString("50.5"), Kind: domain.KindDeposit}, AccountNumber: "0000012345", AccountType: domain.AccountChecking},
			}, nil
		},
	})

	c, rec := authedContext(e, httptest.NewRequest(http.MethodGet, "/v1/transactions?account_id=acc-1", nil))
	if err := h.Transactions(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	var resp transactionListResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	if len(resp.Transactions) != 2 || resp.Transactions[0].ID != "t2" {
		t.Fatalf("order not preserved: %+v", resp.Transactions)
	}
	if resp.Transactions[0].Amount != "-20.00" || resp.Transactions[1].Amount != "50.50" || resp.Transactions[1].AccountType != "checking" {
		t.Fatalf("unexpected rendering: %+v", resp.Transactions)
	}
}
