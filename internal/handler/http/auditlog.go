package http

import (
	"net/http"

	"github.com/workbridge/erp-backend-go/internal/domain/auditlog"
	"github.com/workbridge/erp-backend-go/internal/handler/http/response"
)

type AuditLogHandler interface {
	List(w http.ResponseWriter, r *http.Request)
}

type AuditLogHandlerImpl struct {
	auditRepo auditlog.Repository
}

func NewAuditLogHandler(auditRepo auditlog.Repository) AuditLogHandler {
	return &AuditLogHandlerImpl{auditRepo: auditRepo}
}

// List implements AuditLogHandler. Admin-only, enforced by routing.
func (h *AuditLogHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	c, ok := identity(r)
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	page := queryInt(r, "page", 1)
	limit := queryInt(r, "limit", 50)

	entries, total, err := h.auditRepo.ListByCompany(r.Context(), c.CompanyID, page, limit)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, entries, &response.Meta{
		Page:       page,
		Limit:      limit,
		TotalItems: total,
	})
}
