package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"clarity/internal/errors"
	"clarity/internal/model"
	"clarity/internal/service"
)

// DashboardHandler handles reporting endpoints.
type DashboardHandler struct {
	svc service.DashboardService
}

// NewDashboardHandler creates a new dashboard handler.
func NewDashboardHandler(svc service.DashboardService) *DashboardHandler {
	return &DashboardHandler{svc: svc}
}

// Stats godoc
// @Summary Aggregate totals over the caller's transactions
// @Tags dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {object} service.DashboardStats
// @Failure 401 {object} errors.ErrorResponse
// @Router /dashboard/stats [get]
func (h *DashboardHandler) Stats(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	stats, err := h.svc.Stats(c.Request().Context(), user.ID)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, stats)
}

// CategoryBreakdown godoc
// @Summary Per-category totals and percentages for one transaction type
// @Tags dashboard
// @Produce json
// @Security BearerAuth
// @Param type path string true "income or expense"
// @Success 200 {array} service.CategoryBreakdown
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /dashboard/categories/{type} [get]
func (h *DashboardHandler) CategoryBreakdown(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	txType := model.TransactionType(c.Param("type"))
	if !txType.Valid() {
		httpErr := errors.MapErrorToHTTP(errors.ErrInvalidTransactionType)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	breakdown, err := h.svc.CategoryBreakdown(c.Request().Context(), user.ID, txType)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, breakdown)
}

// MonthlySummary godoc
// @Summary Per-month income and expense totals
// @Tags dashboard
// @Produce json
// @Security BearerAuth
// @Param months query int false "Window size in months" default(6)
// @Success 200 {array} service.MonthlyBucket
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /dashboard/monthly [get]
func (h *DashboardHandler) MonthlySummary(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	months, err := intQueryParam(c, "months", service.DefaultSummaryMonths)
	if err != nil {
		return err
	}

	summary, err := h.svc.MonthlySummary(c.Request().Context(), user.ID, months)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, summary)
}
