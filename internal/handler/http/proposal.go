package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/workbridge/erp-backend-go/internal/domain/proposal"
	"github.com/workbridge/erp-backend-go/internal/handler/http/response"
	proposalservice "github.com/workbridge/erp-backend-go/internal/service/proposal"
)

type ProposalHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	UpdateStatus(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
	StatusCounts(w http.ResponseWriter, r *http.Request)
}

type ProposalHandlerImpl struct {
	proposalService proposalservice.Service
}

func NewProposalHandler(proposalService proposalservice.Service) ProposalHandler {
	return &ProposalHandlerImpl{proposalService: proposalService}
}

// Create implements ProposalHandler.
func (h *ProposalHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	c, ok := identity(r)
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	var req proposal.CreateProposalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Create proposal decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	created, err := h.proposalService.Create(r.Context(), c.CompanyID, c.UserID, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Proposal created successfully", created)
}

// Get implements ProposalHandler.
func (h *ProposalHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	c, ok := identity(r)
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	p, err := h.proposalService.GetByID(r.Context(), c.CompanyID, chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, p)
}

// List implements ProposalHandler.
func (h *ProposalHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	c, ok := identity(r)
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	filter := proposal.Filter{
		Status:     queryString(r, "status"),
		CustomerID: queryString(r, "customer_id"),
		Page:       queryInt(r, "page", 1),
		Limit:      queryInt(r, "limit", 20),
	}
	if !c.IsAdmin() {
		filter.CreatedBy = &c.UserID
	}

	list, err := h.proposalService.List(r.Context(), c.CompanyID, filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, list.Proposals, &response.Meta{
		Page:       list.Page,
		Limit:      list.Limit,
		TotalItems: list.TotalCount,
		TotalPages: list.TotalPages,
	})
}

// UpdateStatus implements ProposalHandler.
func (h *ProposalHandlerImpl) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	c, ok := identity(r)
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	var req proposal.UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Update proposal status decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	updated, err := h.proposalService.UpdateStatus(r.Context(), c.CompanyID, chi.URLParam(r, "id"), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Proposal status updated", updated)
}

// Delete implements ProposalHandler.
func (h *ProposalHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	c, ok := identity(r)
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	if err := h.proposalService.Delete(r.Context(), c.CompanyID, chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Proposal deleted", nil)
}

// StatusCounts implements ProposalHandler.
func (h *ProposalHandlerImpl) StatusCounts(w http.ResponseWriter, r *http.Request) {
	c, ok := identity(r)
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	var createdBy *string
	if !c.IsAdmin() {
		createdBy = &c.UserID
	}

	counts, err := h.proposalService.StatusCounts(r.Context(), c.CompanyID, createdBy)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, counts)
}
