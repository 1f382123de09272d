package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/workbridge/erp-backend-go/internal/domain/invoice"
	"github.com/workbridge/erp-backend-go/internal/handler/http/response"
	invoiceservice "github.com/workbridge/erp-backend-go/internal/service/invoice"
)

type InvoiceHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	UpdateStatus(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
}

type InvoiceHandlerImpl struct {
	invoiceService invoiceservice.Service
}

func NewInvoiceHandler(invoiceService invoiceservice.Service) InvoiceHandler {
	return &InvoiceHandlerImpl{invoiceService: invoiceService}
}

// Create implements InvoiceHandler.
func (h *InvoiceHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	c, ok := identity(r)
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	var req invoice.CreateInvoiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Create invoice decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	created, err := h.invoiceService.Create(r.Context(), c.CompanyID, c.UserID, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Invoice created successfully", created)
}

// Get implements InvoiceHandler.
func (h *InvoiceHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	c, ok := identity(r)
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	inv, err := h.invoiceService.GetByID(r.Context(), c.CompanyID, chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, inv)
}

// List implements InvoiceHandler. Staff see only invoices they
// created.
func (h *InvoiceHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	c, ok := identity(r)
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	filter := invoice.Filter{
		Status:     queryString(r, "status"),
		CustomerID: queryString(r, "customer_id"),
		Page:       queryInt(r, "page", 1),
		Limit:      queryInt(r, "limit", 20),
	}
	if !c.IsAdmin() {
		filter.CreatedBy = &c.UserID
	}

	list, err := h.invoiceService.List(r.Context(), c.CompanyID, filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, list.Invoices, &response.Meta{
		Page:       list.Page,
		Limit:      list.Limit,
		TotalItems: list.TotalCount,
		TotalPages: list.TotalPages,
	})
}

// UpdateStatus implements InvoiceHandler.
func (h *InvoiceHandlerImpl) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	c, ok := identity(r)
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	var req invoice.UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Update invoice status decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	updated, err := h.invoiceService.UpdateStatus(r.Context(), c.CompanyID, chi.URLParam(r, "id"), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Invoice status updated", updated)
}

// Delete implements InvoiceHandler. Only drafts can be deleted.
func (h *InvoiceHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	c, ok := identity(r)
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	if err := h.invoiceService.Delete(r.Context(), c.CompanyID, chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Invoice deleted", nil)
}
