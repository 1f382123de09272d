package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/workbridge/erp-backend-go/internal/domain/performance"
	"github.com/workbridge/erp-backend-go/internal/handler/http/response"
	performanceservice "github.com/workbridge/erp-backend-go/internal/service/performance"
)

type PerformanceHandler interface {
	CreateGoal(w http.ResponseWriter, r *http.Request)
	GetGoal(w http.ResponseWriter, r *http.Request)
	ListGoals(w http.ResponseWriter, r *http.Request)
	UpdateGoal(w http.ResponseWriter, r *http.Request)
	DeleteGoal(w http.ResponseWriter, r *http.Request)

	CreateReview(w http.ResponseWriter, r *http.Request)
	GetReview(w http.ResponseWriter, r *http.Request)
	ListReviews(w http.ResponseWriter, r *http.Request)
	DeleteReview(w http.ResponseWriter, r *http.Request)
}

type PerformanceHandlerImpl struct {
	performanceService performanceservice.Service
}

func NewPerformanceHandler(performanceService performanceservice.Service) PerformanceHandler {
	return &PerformanceHandlerImpl{performanceService: performanceService}
}

// listUserID resolves the user filter: staff are pinned to their own
// records, admins may filter by user_id or see everything.
func listUserID(c caller, r *http.Request) *string {
	if !c.IsAdmin() {
		return &c.UserID
	}
	return queryString(r, "user_id")
}

// CreateGoal implements PerformanceHandler.
func (h *PerformanceHandlerImpl) CreateGoal(w http.ResponseWriter, r *http.Request) {
	c, ok := identity(r)
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	var req performance.CreateGoalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Create goal decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	goal, err := h.performanceService.CreateGoal(r.Context(), c.CompanyID, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Goal created successfully", goal)
}

// GetGoal implements PerformanceHandler.
func (h *PerformanceHandlerImpl) GetGoal(w http.ResponseWriter, r *http.Request) {
	c, ok := identity(r)
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	goal, err := h.performanceService.GetGoal(r.Context(), c.CompanyID, chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, goal)
}

// ListGoals implements PerformanceHandler.
func (h *PerformanceHandlerImpl) ListGoals(w http.ResponseWriter, r *http.Request) {
	c, ok := identity(r)
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	goals, err := h.performanceService.ListGoals(r.Context(), c.CompanyID, listUserID(c, r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, goals)
}

// UpdateGoal implements PerformanceHandler.
func (h *PerformanceHandlerImpl) UpdateGoal(w http.ResponseWriter, r *http.Request) {
	c, ok := identity(r)
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	var req performance.UpdateGoalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Update goal decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")

	goal, err := h.performanceService.UpdateGoal(r.Context(), c.CompanyID, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Goal updated successfully", goal)
}

// DeleteGoal implements PerformanceHandler.
func (h *PerformanceHandlerImpl) DeleteGoal(w http.ResponseWriter, r *http.Request) {
	c, ok := identity(r)
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	if err := h.performanceService.DeleteGoal(r.Context(), c.CompanyID, chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Goal deleted", nil)
}

// CreateReview implements PerformanceHandler.
func (h *PerformanceHandlerImpl) CreateReview(w http.ResponseWriter, r *http.Request) {
	c, ok := identity(r)
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	var req performance.CreateReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Create review decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	review, err := h.performanceService.CreateReview(r.Context(), c.CompanyID, c.UserID, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Review created successfully", review)
}

// GetReview implements PerformanceHandler.
func (h *PerformanceHandlerImpl) GetReview(w http.ResponseWriter, r *http.Request) {
	c, ok := identity(r)
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	review, err := h.performanceService.GetReview(r.Context(), c.CompanyID, chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, review)
}

// ListReviews implements PerformanceHandler.
func (h *PerformanceHandlerImpl) ListReviews(w http.ResponseWriter, r *http.Request) {
	c, ok := identity(r)
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	reviews, err := h.performanceService.ListReviews(r.Context(), c.CompanyID, listUserID(c, r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, reviews)
}

// DeleteReview implements PerformanceHandler.
func (h *PerformanceHandlerImpl) DeleteReview(w http.ResponseWriter, r *http.Request) {
	c, ok := identity(r)
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	if err := h.performanceService.DeleteReview(r.Context(), c.CompanyID, chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Review deleted", nil)
}
