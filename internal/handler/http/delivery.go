package http

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/workbridge/erp-backend-go/internal/domain/delivery"
	"github.com/workbridge/erp-backend-go/internal/handler/http/response"
	deliveryservice "github.com/workbridge/erp-backend-go/internal/service/delivery"
)

type DeliveryHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	UpdateStatus(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
	DownloadPDF(w http.ResponseWriter, r *http.Request)
}

type DeliveryHandlerImpl struct {
	deliveryService deliveryservice.Service
}

func NewDeliveryHandler(deliveryService deliveryservice.Service) DeliveryHandler {
	return &DeliveryHandlerImpl{deliveryService: deliveryService}
}

// Create implements DeliveryHandler.
func (h *DeliveryHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	c, ok := identity(r)
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	var req delivery.CreateDeliveryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Create delivery decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	created, err := h.deliveryService.Create(r.Context(), c.CompanyID, c.UserID, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Delivery created successfully", created)
}

// Get implements DeliveryHandler.
func (h *DeliveryHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	c, ok := identity(r)
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	d, err := h.deliveryService.GetByID(r.Context(), c.CompanyID, chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, d)
}

// List implements DeliveryHandler.
func (h *DeliveryHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	c, ok := identity(r)
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	filter := delivery.Filter{
		Status:     queryString(r, "status"),
		CustomerID: queryString(r, "customer_id"),
		Page:       queryInt(r, "page", 1),
		Limit:      queryInt(r, "limit", 20),
	}

	list, err := h.deliveryService.List(r.Context(), c.CompanyID, filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, list.Deliveries, &response.Meta{
		Page:       list.Page,
		Limit:      list.Limit,
		TotalItems: list.TotalCount,
		TotalPages: list.TotalPages,
	})
}

// UpdateStatus implements DeliveryHandler.
func (h *DeliveryHandlerImpl) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	c, ok := identity(r)
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	var req delivery.UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Update delivery status decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	updated, err := h.deliveryService.UpdateStatus(r.Context(), c.CompanyID, chi.URLParam(r, "id"), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Delivery status updated", updated)
}

// Delete implements DeliveryHandler.
func (h *DeliveryHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	c, ok := identity(r)
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	if err := h.deliveryService.Delete(r.Context(), c.CompanyID, chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Delivery deleted", nil)
}

// DownloadPDF implements DeliveryHandler. Streams the rendered
// delivery note.
func (h *DeliveryHandlerImpl) DownloadPDF(w http.ResponseWriter, r *http.Request) {
	c, ok := identity(r)
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	id := chi.URLParam(r, "id")
	data, err := h.deliveryService.RenderPDF(r.Context(), c.CompanyID, id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Binary(w, "application/pdf", fmt.Sprintf("delivery-%s.pdf", id), data)
}
