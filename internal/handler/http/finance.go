package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/workbridge/erp-backend-go/internal/domain/finance"
	"github.com/workbridge/erp-backend-go/internal/handler/http/response"
	financeservice "github.com/workbridge/erp-backend-go/internal/service/finance"
)

type FinanceHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
	Summary(w http.ResponseWriter, r *http.Request)
	MonthlySummary(w http.ResponseWriter, r *http.Request)
	ExpensesByCategory(w http.ResponseWriter, r *http.Request)
}

type FinanceHandlerImpl struct {
	financeService financeservice.Service
}

func NewFinanceHandler(financeService financeservice.Service) FinanceHandler {
	return &FinanceHandlerImpl{financeService: financeService}
}

// scope pins staff to their own transactions; admins work
// company-wide.
func (h *FinanceHandlerImpl) scope(c caller) finance.Scope {
	s := finance.Scope{CompanyID: c.CompanyID}
	if !c.IsAdmin() {
		s.UserID = c.UserID
	}
	return s
}

// Create implements FinanceHandler.
func (h *FinanceHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	c, ok := identity(r)
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	var req finance.CreateTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Create transaction decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	// The creator is always the caller, admin or not.
	scope := finance.Scope{CompanyID: c.CompanyID, UserID: c.UserID}
	tx, err := h.financeService.Create(r.Context(), scope, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Transaction recorded", tx)
}

// Get implements FinanceHandler.
func (h *FinanceHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	c, ok := identity(r)
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	tx, err := h.financeService.GetByID(r.Context(), h.scope(c), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, tx)
}

// List implements FinanceHandler.
func (h *FinanceHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	c, ok := identity(r)
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	filter := finance.Filter{
		Type:     queryString(r, "type"),
		Category: queryString(r, "category"),
		Page:     queryInt(r, "page", 1),
		Limit:    queryInt(r, "limit", 20),
	}
	if from, err := time.Parse("2006-01-02", r.URL.Query().Get("from")); err == nil {
		filter.From = &from
	}
	if to, err := time.Parse("2006-01-02", r.URL.Query().Get("to")); err == nil {
		filter.To = &to
	}

	list, err := h.financeService.List(r.Context(), h.scope(c), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, list.Transactions, &response.Meta{
		Page:       list.Page,
		Limit:      list.Limit,
		TotalItems: list.TotalCount,
		TotalPages: list.TotalPages,
	})
}

// Update implements FinanceHandler.
func (h *FinanceHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	c, ok := identity(r)
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	var req finance.UpdateTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Update transaction decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")

	tx, err := h.financeService.Update(r.Context(), h.scope(c), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Transaction updated", tx)
}

// Delete implements FinanceHandler.
func (h *FinanceHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	c, ok := identity(r)
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	if err := h.financeService.Delete(r.Context(), h.scope(c), chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Transaction deleted", nil)
}

// Summary implements FinanceHandler. Defaults to the trailing 30 days
// when no range is given.
func (h *FinanceHandlerImpl) Summary(w http.ResponseWriter, r *http.Request) {
	c, ok := identity(r)
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	to := time.Now()
	from := to.AddDate(0, 0, -30)
	if t, err := time.Parse("2006-01-02", r.URL.Query().Get("from")); err == nil {
		from = t
	}
	if t, err := time.Parse("2006-01-02", r.URL.Query().Get("to")); err == nil {
		to = t
	}

	summary, err := h.financeService.Summary(r.Context(), h.scope(c), from, to)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, summary)
}

// MonthlySummary implements FinanceHandler.
func (h *FinanceHandlerImpl) MonthlySummary(w http.ResponseWriter, r *http.Request) {
	c, ok := identity(r)
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	current, previous, err := h.financeService.MonthlySummary(r.Context(), h.scope(c))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, map[string]finance.Summary{
		"current_month":  current,
		"previous_month": previous,
	})
}

// ExpensesByCategory implements FinanceHandler.
func (h *FinanceHandlerImpl) ExpensesByCategory(w http.ResponseWriter, r *http.Request) {
	c, ok := identity(r)
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	to := time.Now()
	from := to.AddDate(0, -1, 0)

	totals, err := h.financeService.ExpensesByCategory(r.Context(), h.scope(c), from, to)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, totals)
}
