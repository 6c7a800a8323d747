package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/bankdemo/banking-api/internal/core/ports"
	"github.com/bankdemo/banking-api/internal/core/validation"
)

// AccountHandler serves account and ledger endpoints. Every route requires an
// authenticated user and only ever touches that user's accounts.
type AccountHandler struct {
	service ports.AccountService
}

func NewAccountHandler(service ports.AccountService) *AccountHandler {
	return &AccountHandler{service: service}
}

// Open creates a new account with a zero balance.
//
// @Summary      Open account
// @Tags         accounts
// @Accept       json
// @Produce      json
// @Param        body  body      openAccountRequest  true  "Account type"
// @Success      201   {object}  accountResponse
// @Failure      400   {object}  ErrorBody
// @Failure      401   {object}  ErrorBody
// @Router       /v1/accounts [post]
func (h *AccountHandler) Open(c echo.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}
	var req openAccountRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	account, err := h.service.Open(c.Request().Context(), userID, req.AccountType)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toAccountResponse(account))
}

// List returns the caller's accounts.
//
// @Summary      List accounts
// @Tags         accounts
// @Produce      json
// @Success      200  {object}  accountListResponse
// @Failure      401  {object}  ErrorBody
// @Router       /v1/accounts [get]
func (h *AccountHandler) List(c echo.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}
	accounts, err := h.service.List(c.Request().Context(), userID)
	if err != nil {
		return err
	}

	resp := accountListResponse{Accounts: make([]accountResponse, 0, len(accounts))}
	for _, a := range accounts {
		resp.Accounts = append(resp.Accounts, toAccountResponse(a))
	}
	return c.JSON(http.StatusOK, resp)
}

// Get returns one of the caller's accounts.
//
// @Summary      Get account
// @Tags         accounts
// @Produce      json
// @Param        id   path      string  true  "Account ID"
// @Success      200  {object}  accountResponse
// @Failure      404  {object}  ErrorBody
// @Router       /v1/accounts/{id} [get]
func (h *AccountHandler) Get(c echo.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}
	account, err := h.service.Get(c.Request().Context(), userID, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toAccountResponse(account))
}

// Fund deposits money from a card or bank account.
//
// @Summary      Fund account
// @Tags         accounts
// @Accept       json
// @Produce      json
// @Param        id    path      string       true  "Account ID"
// @Param        body  body      fundRequest  true  "Deposit"
// @Success      201   {object}  postingResponse
// @Failure      400   {object}  ErrorBody
// @Failure      404   {object}  ErrorBody
// @Failure      409   {object}  ErrorBody
// @Router       /v1/accounts/{id}/fund [post]
func (h *AccountHandler) Fund(c echo.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}
	var req fundRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	amount, err := validation.ParseAmount(string(req.Amount))
	if err != nil {
		return err
	}

	res, err := h.service.Fund(c.Request().Context(), ports.FundInput{
		UserID:        userID,
		AccountID:     c.Param("id"),
		Amount:        amount,
		SourceType:    req.SourceType,
		CardNumber:    req.CardNumber,
		RoutingNumber: req.RoutingNumber,
		Description:   req.Description,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, postingResponse{
		Account:     toAccountResponse(res.Account),
		Transaction: toTransactionResponse(res.Transaction),
	})
}

// Withdraw takes money out of an account.
//
// @Summary      Withdraw
// @Tags         accounts
// @Accept       json
// @Produce      json
// @Param        id    path      string           true  "Account ID"
// @Param        body  body      withdrawRequest  true  "Withdrawal"
// @Success      201   {object}  postingResponse
// @Failure      400   {object}  ErrorBody
// @Failure      422   {object}  ErrorBody
// @Router       /v1/accounts/{id}/withdraw [post]
func (h *AccountHandler) Withdraw(c echo.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}
	var req withdrawRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	amount, err := validation.ParseAmount(string(req.Amount))
	if err != nil {
		return err
	}

	res, err := h.service.Withdraw(c.Request().Context(), ports.WithdrawInput{
		UserID:      userID,
		AccountID:   c.Param("id"),
		Amount:      amount,
		Description: req.Description,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, postingResponse{
		Account:     toAccountResponse(res.Account),
		Transaction: toTransactionResponse(res.Transaction),
	})
}

// Transactions lists the caller's ledger postings, newest first.
//
// @Summary      List transactions
// @Tags         transactions
// @Produce      json
// @Param        account_id  query     string  false  "Restrict to one account"
// @Success      200         {object}  transactionListResponse
// @Failure      404         {object}  ErrorBody
// @Router       /v1/transactions [get]
func (h *AccountHandler) Transactions(c echo.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}
	views, err := h.service.Transactions(c.Request().Context(), userID, c.QueryParam("account_id"))
	if err != nil {
		return err
	}

	resp := transactionListResponse{Transactions: make([]transactionResponse, 0, len(views))}
	for i := range views {
		resp.Transactions = append(resp.Transactions, toTransactionViewResponse(&views[i]))
	}
	return c.JSON(http.StatusOK, resp)
}
