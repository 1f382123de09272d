package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/workbridge/erp-backend-go/internal/domain/customer"
	"github.com/workbridge/erp-backend-go/internal/handler/http/response"
	customerservice "github.com/workbridge/erp-backend-go/internal/service/customer"
)

type CustomerHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
}

type CustomerHandlerImpl struct {
	customerService customerservice.Service
}

func NewCustomerHandler(customerService customerservice.Service) CustomerHandler {
	return &CustomerHandlerImpl{customerService: customerService}
}

// Create implements CustomerHandler.
func (h *CustomerHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	c, ok := identity(r)
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	var req customer.CreateCustomerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Create customer decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	created, err := h.customerService.Create(r.Context(), c.CompanyID, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Customer created successfully", created)
}

// Get implements CustomerHandler.
func (h *CustomerHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	c, ok := identity(r)
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	cust, err := h.customerService.GetByID(r.Context(), c.CompanyID, chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, cust)
}

// List implements CustomerHandler.
func (h *CustomerHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	c, ok := identity(r)
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	page := queryInt(r, "page", 1)
	limit := queryInt(r, "limit", 20)

	customers, total, err := h.customerService.List(r.Context(), c.CompanyID, queryString(r, "search"), page, limit)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, customers, &response.Meta{
		Page:       page,
		Limit:      limit,
		TotalItems: total,
	})
}

// Update implements CustomerHandler.
func (h *CustomerHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	c, ok := identity(r)
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	var req customer.UpdateCustomerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Update customer decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")

	updated, err := h.customerService.Update(r.Context(), c.CompanyID, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Customer updated successfully", updated)
}

// Delete implements CustomerHandler.
func (h *CustomerHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	c, ok := identity(r)
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	if err := h.customerService.Delete(r.Context(), c.CompanyID, chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Customer deleted", nil)
}
