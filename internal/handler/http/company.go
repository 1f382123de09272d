package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/workbridge/erp-backend-go/internal/domain/company"
	"github.com/workbridge/erp-backend-go/internal/domain/settings"
	"github.com/workbridge/erp-backend-go/internal/handler/http/response"
	companyservice "github.com/workbridge/erp-backend-go/internal/service/company"
	settingsservice "github.com/workbridge/erp-backend-go/internal/service/settings"
)

type CompanyHandler interface {
	Get(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	GetSettings(w http.ResponseWriter, r *http.Request)
	UpdateSettings(w http.ResponseWriter, r *http.Request)
}

type CompanyHandlerImpl struct {
	companyService  companyservice.Service
	settingsService settingsservice.Service
}

func NewCompanyHandler(companyService companyservice.Service, settingsService settingsservice.Service) CompanyHandler {
	return &CompanyHandlerImpl{companyService: companyService, settingsService: settingsService}
}

// Get implements CompanyHandler. Callers always operate on their own
// company; there is no cross-tenant lookup.
func (h *CompanyHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	c, ok := identity(r)
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	comp, err := h.companyService.Get(r.Context(), c.CompanyID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, comp)
}

// Update implements CompanyHandler.
func (h *CompanyHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	c, ok := identity(r)
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	var req company.UpdateCompanyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Update company decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = c.CompanyID

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	comp, err := h.companyService.Update(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Company updated successfully", comp)
}

// GetSettings implements CompanyHandler.
func (h *CompanyHandlerImpl) GetSettings(w http.ResponseWriter, r *http.Request) {
	c, ok := identity(r)
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	s, err := h.settingsService.Get(r.Context(), c.CompanyID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, s)
}

// UpdateSettings implements CompanyHandler.
func (h *CompanyHandlerImpl) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	c, ok := identity(r)
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	var req settings.UpdateSettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Update settings decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.CompanyID = c.CompanyID

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	s, err := h.settingsService.Update(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Settings updated successfully", s)
}
