package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/workbridge/erp-backend-go/internal/domain/attendance"
	"github.com/workbridge/erp-backend-go/internal/handler/http/response"
	attendanceservice "github.com/workbridge/erp-backend-go/internal/service/attendance"
)

type AttendanceHandler interface {
	ClockIn(w http.ResponseWriter, r *http.Request)
	ClockOut(w http.ResponseWriter, r *http.Request)
	Today(w http.ResponseWriter, r *http.Request)
	ListMine(w http.ResponseWriter, r *http.Request)
	ListCompany(w http.ResponseWriter, r *http.Request)
}

type AttendanceHandlerImpl struct {
	attendanceService attendanceservice.Service
}

func NewAttendanceHandler(attendanceService attendanceservice.Service) AttendanceHandler {
	return &AttendanceHandlerImpl{attendanceService: attendanceService}
}

// ClockIn implements AttendanceHandler.
func (h *AttendanceHandlerImpl) ClockIn(w http.ResponseWriter, r *http.Request) {
	c, ok := identity(r)
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	var req attendance.ClockInRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			slog.Error("ClockIn decode error", "error", err)
			response.BadRequest(w, "Invalid request format", nil)
			return
		}
	}

	rec, err := h.attendanceService.ClockIn(r.Context(), c.CompanyID, c.UserID, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Clocked in", rec)
}

// ClockOut implements AttendanceHandler.
func (h *AttendanceHandlerImpl) ClockOut(w http.ResponseWriter, r *http.Request) {
	c, ok := identity(r)
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	rec, err := h.attendanceService.ClockOut(r.Context(), c.UserID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Clocked out", rec)
}

// Today implements AttendanceHandler.
func (h *AttendanceHandlerImpl) Today(w http.ResponseWriter, r *http.Request) {
	c, ok := identity(r)
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	rec, err := h.attendanceService.Today(r.Context(), c.UserID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, rec)
}

// ListMine implements AttendanceHandler.
func (h *AttendanceHandlerImpl) ListMine(w http.ResponseWriter, r *http.Request) {
	c, ok := identity(r)
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	req := attendance.ListRequest{
		From:  r.URL.Query().Get("from"),
		To:    r.URL.Query().Get("to"),
		Page:  queryInt(r, "page", 1),
		Limit: queryInt(r, "limit", 31),
	}

	records, err := h.attendanceService.ListByUser(r.Context(), c.UserID, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, records)
}

// ListCompany implements AttendanceHandler.
func (h *AttendanceHandlerImpl) ListCompany(w http.ResponseWriter, r *http.Request) {
	c, ok := identity(r)
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	req := attendance.ListRequest{
		UserID: r.URL.Query().Get("user_id"),
		From:   r.URL.Query().Get("from"),
		To:     r.URL.Query().Get("to"),
		Page:   queryInt(r, "page", 1),
		Limit:  queryInt(r, "limit", 31),
	}

	records, total, err := h.attendanceService.ListByCompany(r.Context(), c.CompanyID, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, records, &response.Meta{
		Page:       req.Page,
		Limit:      req.Limit,
		TotalItems: total,
	})
}
