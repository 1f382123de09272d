package http

import (
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"

	"github.com/workbridge/erp-backend-go/internal/config"
	"github.com/workbridge/erp-backend-go/internal/domain/auditlog"
	"github.com/workbridge/erp-backend-go/internal/handler/http/middleware"
	"github.com/workbridge/erp-backend-go/internal/pkg/jwt"
	"github.com/workbridge/erp-backend-go/internal/pkg/task"
)

// Handlers bundles every HTTP handler the router mounts.
type Handlers struct {
	Auth         AuthHandler
	Staff        StaffHandler
	Company      CompanyHandler
	Attendance   AttendanceHandler
	Leave        LeaveHandler
	Finance      FinanceHandler
	Customer     CustomerHandler
	Product      ProductHandler
	Invoice      InvoiceHandler
	Proposal     ProposalHandler
	Delivery     DeliveryHandler
	Performance  PerformanceHandler
	Notification NotificationHandler
	Assistant    AssistantHandler
	AuditLog     AuditLogHandler
}

func NewRouter(cfg config.AppConfig, jwtService jwt.Service, auditRepo auditlog.Repository, tasks *task.Runner, h Handlers) *chi.Mux {
	r := chi.NewRouter()

	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "erp-backend"),
		slog.String("env", cfg.Env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{cfg.FrontendURL},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelInfo,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/healthz"))

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", h.Auth.Register)
			r.Post("/login", h.Auth.Login)
			r.Post("/refresh", h.Auth.Refresh)
			r.Post("/logout", h.Auth.Logout)
		})

		// The stream endpoint authenticates with its own short-lived
		// token, outside the access-token middleware.
		r.Get("/notifications/stream", h.Notification.Stream)

		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(jwtService.JWTAuth()))
			r.Use(middleware.AuthRequired(jwtService.JWTAuth()))
			r.Use(middleware.AuditTrail(auditRepo, tasks))

			r.Route("/staff", func(r chi.Router) {
				r.Get("/me", h.Staff.Me)

				r.Group(func(r chi.Router) {
					r.Use(middleware.AdminOnly)
					r.Post("/", h.Staff.Create)
					r.Get("/", h.Staff.List)
					r.Get("/{id}", h.Staff.Get)
					r.Put("/{id}", h.Staff.Update)
					r.Delete("/{id}", h.Staff.Deactivate)
				})
			})

			r.Route("/company", func(r chi.Router) {
				r.Get("/", h.Company.Get)
				r.Get("/settings", h.Company.GetSettings)

				r.Group(func(r chi.Router) {
					r.Use(middleware.AdminOnly)
					r.Put("/", h.Company.Update)
					r.Put("/settings", h.Company.UpdateSettings)
				})
			})

			r.Route("/attendance", func(r chi.Router) {
				r.Post("/clock-in", h.Attendance.ClockIn)
				r.Post("/clock-out", h.Attendance.ClockOut)
				r.Get("/today", h.Attendance.Today)
				r.Get("/me", h.Attendance.ListMine)

				r.With(middleware.AdminOnly).Get("/", h.Attendance.ListCompany)
			})

			r.Route("/leave", func(r chi.Router) {
				r.Post("/", h.Leave.CreateRequest)
				r.Get("/me", h.Leave.ListMine)
				r.Get("/balance", h.Leave.Balance)
				r.Get("/{id}", h.Leave.GetRequest)

				r.Group(func(r chi.Router) {
					r.Use(middleware.AdminOnly)
					r.Get("/", h.Leave.ListCompany)
					r.Post("/{id}/approve", h.Leave.Approve)
					r.Post("/{id}/reject", h.Leave.Reject)
				})
			})

			r.Route("/transactions", func(r chi.Router) {
				r.Post("/", h.Finance.Create)
				r.Get("/", h.Finance.List)
				r.Get("/summary", h.Finance.Summary)
				r.Get("/summary/monthly", h.Finance.MonthlySummary)
				r.Get("/expenses/by-category", h.Finance.ExpensesByCategory)
				r.Get("/{id}", h.Finance.Get)
				r.Put("/{id}", h.Finance.Update)
				r.Delete("/{id}", h.Finance.Delete)
			})

			r.Route("/customers", func(r chi.Router) {
				r.Post("/", h.Customer.Create)
				r.Get("/", h.Customer.List)
				r.Get("/{id}", h.Customer.Get)
				r.Put("/{id}", h.Customer.Update)
				r.With(middleware.AdminOnly).Delete("/{id}", h.Customer.Delete)
			})

			r.Route("/products", func(r chi.Router) {
				r.Post("/", h.Product.Create)
				r.Get("/", h.Product.List)
				r.Get("/{id}", h.Product.Get)
				r.Put("/{id}", h.Product.Update)
				r.With(middleware.AdminOnly).Delete("/{id}", h.Product.Delete)
			})

			r.Route("/invoices", func(r chi.Router) {
				r.Post("/", h.Invoice.Create)
				r.Get("/", h.Invoice.List)
				r.Get("/{id}", h.Invoice.Get)
				r.Patch("/{id}/status", h.Invoice.UpdateStatus)
				r.Delete("/{id}", h.Invoice.Delete)
			})

			r.Route("/proposals", func(r chi.Router) {
				r.Post("/", h.Proposal.Create)
				r.Get("/", h.Proposal.List)
				r.Get("/counts", h.Proposal.StatusCounts)
				r.Get("/{id}", h.Proposal.Get)
				r.Patch("/{id}/status", h.Proposal.UpdateStatus)
				r.Delete("/{id}", h.Proposal.Delete)
			})

			r.Route("/deliveries", func(r chi.Router) {
				r.Post("/", h.Delivery.Create)
				r.Get("/", h.Delivery.List)
				r.Get("/{id}", h.Delivery.Get)
				r.Get("/{id}/pdf", h.Delivery.DownloadPDF)
				r.Patch("/{id}/status", h.Delivery.UpdateStatus)
				r.Delete("/{id}", h.Delivery.Delete)
			})

			r.Route("/performance", func(r chi.Router) {
				r.Route("/goals", func(r chi.Router) {
					r.Get("/", h.Performance.ListGoals)
					r.Get("/{id}", h.Performance.GetGoal)

					r.Group(func(r chi.Router) {
						r.Use(middleware.AdminOnly)
						r.Post("/", h.Performance.CreateGoal)
						r.Put("/{id}", h.Performance.UpdateGoal)
						r.Delete("/{id}", h.Performance.DeleteGoal)
					})
				})

				r.Route("/reviews", func(r chi.Router) {
					r.Get("/", h.Performance.ListReviews)
					r.Get("/{id}", h.Performance.GetReview)

					r.Group(func(r chi.Router) {
						r.Use(middleware.AdminOnly)
						r.Post("/", h.Performance.CreateReview)
						r.Delete("/{id}", h.Performance.DeleteReview)
					})
				})
			})

			r.Route("/notifications", func(r chi.Router) {
				r.Get("/", h.Notification.List)
				r.Get("/unread-count", h.Notification.UnreadCount)
				r.Post("/stream-token", h.Notification.StreamToken)
				r.Post("/{id}/read", h.Notification.MarkRead)
				r.Post("/read-all", h.Notification.MarkAllRead)
			})

			r.Route("/assistant", func(r chi.Router) {
				r.Post("/chat", h.Assistant.Chat)
				r.Route("/insights", func(r chi.Router) {
					r.Post("/", h.Assistant.GenerateInsight)
					r.Get("/", h.Assistant.ListInsights)
					r.Get("/{id}", h.Assistant.GetInsight)
					r.With(middleware.AdminOnly).Delete("/{id}", h.Assistant.DeleteInsight)
				})
			})

			r.With(middleware.AdminOnly).Get("/audit-logs", h.AuditLog.List)
		})
	})

	return r
}
