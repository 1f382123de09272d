package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/workbridge/erp-backend-go/internal/domain/assistant"
	"github.com/workbridge/erp-backend-go/internal/domain/insight"
	"github.com/workbridge/erp-backend-go/internal/handler/http/response"
	assistantservice "github.com/workbridge/erp-backend-go/internal/service/assistant"
)

type AssistantHandler interface {
	Chat(w http.ResponseWriter, r *http.Request)
	GenerateInsight(w http.ResponseWriter, r *http.Request)
	GetInsight(w http.ResponseWriter, r *http.Request)
	ListInsights(w http.ResponseWriter, r *http.Request)
	DeleteInsight(w http.ResponseWriter, r *http.Request)
}

type AssistantHandlerImpl struct {
	assistantService assistantservice.Service
}

func NewAssistantHandler(assistantService assistantservice.Service) AssistantHandler {
	return &AssistantHandlerImpl{assistantService: assistantService}
}

// Chat implements AssistantHandler.
func (h *AssistantHandlerImpl) Chat(w http.ResponseWriter, r *http.Request) {
	c, ok := identity(r)
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	var req assistant.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Chat decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	reply, err := h.assistantService.Chat(r.Context(), c.SystemContext(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, reply)
}

// GenerateInsight implements AssistantHandler.
func (h *AssistantHandlerImpl) GenerateInsight(w http.ResponseWriter, r *http.Request) {
	c, ok := identity(r)
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	var req insight.GenerateInsightRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Generate insight decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	ins, err := h.assistantService.GenerateInsight(r.Context(), c.SystemContext(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Insight generated", ins)
}

// GetInsight implements AssistantHandler.
func (h *AssistantHandlerImpl) GetInsight(w http.ResponseWriter, r *http.Request) {
	c, ok := identity(r)
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	ins, err := h.assistantService.GetInsight(r.Context(), c.SystemContext(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, ins)
}

// ListInsights implements AssistantHandler. Staff see only insights
// generated about themselves.
func (h *AssistantHandlerImpl) ListInsights(w http.ResponseWriter, r *http.Request) {
	c, ok := identity(r)
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	filter := insight.Filter{
		Type:     queryString(r, "type"),
		Severity: queryString(r, "severity"),
		Page:     queryInt(r, "page", 1),
		Limit:    queryInt(r, "limit", 20),
	}
	if c.IsAdmin() {
		filter.UserID = queryString(r, "user_id")
	} else {
		filter.UserID = &c.UserID
	}

	list, err := h.assistantService.ListInsights(r.Context(), c.CompanyID, filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, list.Insights, &response.Meta{
		Page:       list.Page,
		Limit:      list.Limit,
		TotalItems: list.TotalCount,
		TotalPages: list.TotalPages,
	})
}

// DeleteInsight implements AssistantHandler.
func (h *AssistantHandlerImpl) DeleteInsight(w http.ResponseWriter, r *http.Request) {
	c, ok := identity(r)
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	if err := h.assistantService.DeleteInsight(r.Context(), c.SystemContext(), chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Insight deleted", nil)
}
