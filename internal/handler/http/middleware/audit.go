package middleware

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/jwtauth/v5"

	"github.com/workbridge/erp-backend-go/internal/domain/auditlog"
	"github.com/workbridge/erp-backend-go/internal/pkg/task"
)

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// AuditTrail appends an entry for every successful mutating request.
// The write happens off the request path through the task runner; a
// failed append never affects the response.
func AuditTrail(repo auditlog.Repository, tasks *task.Runner) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
			default:
				next.ServeHTTP(w, r)
				return
			}

			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)

			if rec.status >= 400 {
				return
			}

			_, claims, err := jwtauth.FromContext(r.Context())
			if err != nil {
				return
			}
			actorID, _ := claims["user_id"].(string)
			companyID, _ := claims["company_id"].(string)
			if actorID == "" || companyID == "" {
				return
			}

			entry := auditlog.Entry{
				CompanyID: companyID,
				ActorID:   actorID,
				Action:    r.Method + " " + chi.RouteContext(r.Context()).RoutePattern(),
				Entity:    r.URL.Path,
				EntityID:  chi.URLParam(r, "id"),
			}

			tasks.Go("audit-append", func(ctx context.Context) error {
				return repo.Append(ctx, entry)
			})
		})
	}
}
