package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"clarity/internal/errors"
	"clarity/internal/model"
	"clarity/internal/repository"
	"clarity/internal/service"
)

// TransactionHandler handles transaction CRUD endpoints.
type TransactionHandler struct {
	svc service.TransactionService
}

// NewTransactionHandler creates a new transaction handler.
func NewTransactionHandler(svc service.TransactionService) *TransactionHandler {
	return &TransactionHandler{svc: svc}
}

// CreateTransactionRequest represents a transaction creation request.
type CreateTransactionRequest struct {
	Amount          decimal.Decimal `json:"amount"`
	Category        string          `json:"category" validate:"required"`
	Description     string          `json:"description"`
	TransactionType string          `json:"transaction_type" validate:"required,oneof=income expense"`
	Date            time.Time       `json:"date" validate:"required"`
}

// UpdateTransactionRequest represents a partial update; only supplied
// fields are applied.
type UpdateTransactionRequest struct {
	Amount          *decimal.Decimal `json:"amount"`
	Category        *string          `json:"category"`
	Description     *string          `json:"description"`
	TransactionType *string          `json:"transaction_type" validate:"omitempty,oneof=income expense"`
	Date            *time.Time       `json:"date"`
}

func (r UpdateTransactionRequest) toPatch() model.TransactionPatch {
	patch := model.TransactionPatch{
		Amount:      r.Amount,
		Category:    r.Category,
		Description: r.Description,
		Date:        r.Date,
	}
	if r.TransactionType != nil {
		txType := model.TransactionType(*r.TransactionType)
		patch.Type = &txType
	}
	return patch
}

// Create godoc
// @Summary Create a transaction
// @Tags transactions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateTransactionRequest true "Transaction data"
// @Success 201 {object} model.Transaction
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /transactions [post]
func (h *TransactionHandler) Create(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	var req CreateTransactionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	tx := &model.Transaction{
		Amount:      req.Amount,
		Category:    req.Category,
		Description: req.Description,
		Type:        model.TransactionType(req.TransactionType),
		Date:        req.Date,
	}

	created, err := h.svc.Create(c.Request().Context(), user.ID, tx)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusCreated, created)
}

// List godoc
// @Summary List transactions
// @Tags transactions
// @Produce json
// @Security BearerAuth
// @Param skip query int false "Rows to skip" default(0)
// @Param limit query int false "Max rows" default(100)
// @Param category query string false "Category filter"
// @Param transaction_type query string false "income or expense"
// @Param start_date query string false "Inclusive lower bound (RFC3339 or YYYY-MM-DD)"
// @Param end_date query string false "Inclusive upper bound (RFC3339 or YYYY-MM-DD)"
// @Success 200 {array} model.Transaction
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /transactions [get]
func (h *TransactionHandler) List(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	skip, err := intQueryParam(c, "skip", 0)
	if err != nil {
		return err
	}
	limit, err := intQueryParam(c, "limit", service.DefaultListLimit)
	if err != nil {
		return err
	}
	startDate, err := dateQueryParam(c, "start_date")
	if err != nil {
		return err
	}
	endDate, err := dateQueryParam(c, "end_date")
	if err != nil {
		return err
	}

	filter := repository.TransactionFilter{
		Category:  c.QueryParam("category"),
		StartDate: startDate,
		EndDate:   endDate,
	}
	if raw := c.QueryParam("transaction_type"); raw != "" {
		txType := model.TransactionType(raw)
		if !txType.Valid() {
			httpErr := errors.MapErrorToHTTP(errors.ErrInvalidTransactionType)
			return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
		}
		filter.Type = txType
	}

	txs, err := h.svc.List(c.Request().Context(), user.ID, filter, skip, limit)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, txs)
}

// Get godoc
// @Summary Fetch one transaction
// @Tags transactions
// @Produce json
// @Security BearerAuth
// @Param id path int true "Transaction ID"
// @Success 200 {object} model.Transaction
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /transactions/{id} [get]
func (h *TransactionHandler) Get(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	id, err := idPathParam(c)
	if err != nil {
		return err
	}

	tx, err := h.svc.Get(c.Request().Context(), user.ID, id)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, tx)
}

// Update godoc
// @Summary Partially update a transaction
// @Tags transactions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Transaction ID"
// @Param request body UpdateTransactionRequest true "Fields to change"
// @Success 200 {object} model.Transaction
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /transactions/{id} [put]
func (h *TransactionHandler) Update(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	id, err := idPathParam(c)
	if err != nil {
		return err
	}

	var req UpdateTransactionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	tx, err := h.svc.Update(c.Request().Context(), user.ID, id, req.toPatch())
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, tx)
}

// Delete godoc
// @Summary Delete a transaction
// @Tags transactions
// @Produce json
// @Security BearerAuth
// @Param id path int true "Transaction ID"
// @Success 200 {object} map[string]string
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /transactions/{id} [delete]
func (h *TransactionHandler) Delete(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	id, err := idPathParam(c)
	if err != nil {
		return err
	}

	if _, err := h.svc.Delete(c.Request().Context(), user.ID, id); err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "transaction deleted"})
}

// Categories godoc
// @Summary List the caller's distinct category labels
// @Tags transactions
// @Produce json
// @Security BearerAuth
// @Success 200 {array} string
// @Failure 401 {object} errors.ErrorResponse
// @Router /categories [get]
func (h *TransactionHandler) Categories(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	categories, err := h.svc.Categories(c.Request().Context(), user.ID)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, categories)
}
