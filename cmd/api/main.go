package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/workbridge/erp-backend-go/internal/config"
	"github.com/workbridge/erp-backend-go/internal/domain/assistant"
	"github.com/workbridge/erp-backend-go/internal/domain/insight"
	"github.com/workbridge/erp-backend-go/internal/domain/user"
	appHTTP "github.com/workbridge/erp-backend-go/internal/handler/http"
	"github.com/workbridge/erp-backend-go/internal/pkg/completion"
	"github.com/workbridge/erp-backend-go/internal/pkg/cron"
	"github.com/workbridge/erp-backend-go/internal/pkg/database"
	"github.com/workbridge/erp-backend-go/internal/pkg/email"
	"github.com/workbridge/erp-backend-go/internal/pkg/jwt"
	"github.com/workbridge/erp-backend-go/internal/pkg/sse"
	"github.com/workbridge/erp-backend-go/internal/pkg/task"
	"github.com/workbridge/erp-backend-go/internal/repository/postgresql"
	assistantService "github.com/workbridge/erp-backend-go/internal/service/assistant"
	attendanceService "github.com/workbridge/erp-backend-go/internal/service/attendance"
	authService "github.com/workbridge/erp-backend-go/internal/service/auth"
	companyService "github.com/workbridge/erp-backend-go/internal/service/company"
	customerService "github.com/workbridge/erp-backend-go/internal/service/customer"
	deliveryService "github.com/workbridge/erp-backend-go/internal/service/delivery"
	financeService "github.com/workbridge/erp-backend-go/internal/service/finance"
	invoiceService "github.com/workbridge/erp-backend-go/internal/service/invoice"
	leaveService "github.com/workbridge/erp-backend-go/internal/service/leave"
	notificationService "github.com/workbridge/erp-backend-go/internal/service/notification"
	performanceService "github.com/workbridge/erp-backend-go/internal/service/performance"
	productService "github.com/workbridge/erp-backend-go/internal/service/product"
	proposalService "github.com/workbridge/erp-backend-go/internal/service/proposal"
	settingsService "github.com/workbridge/erp-backend-go/internal/service/settings"
	staffService "github.com/workbridge/erp-backend-go/internal/service/staff"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error loading config:", err)
		os.Exit(1)
	}

	db, err := database.NewPostgreSQLDB(cfg.DatabaseURL())
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error connecting to database:", err)
		os.Exit(1)
	}
	defer db.Close()

	userRepo := postgresql.NewUserRepository(db)
	companyRepo := postgresql.NewCompanyRepository(db)
	settingsRepo := postgresql.NewSettingsRepository(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db)
	leaveRepo := postgresql.NewLeaveRepository(db)
	financeRepo := postgresql.NewFinanceRepository(db)
	customerRepo := postgresql.NewCustomerRepository(db)
	productRepo := postgresql.NewProductRepository(db)
	invoiceRepo := postgresql.NewInvoiceRepository(db)
	proposalRepo := postgresql.NewProposalRepository(db)
	deliveryRepo := postgresql.NewDeliveryRepository(db)
	goalRepo := postgresql.NewGoalRepository(db)
	reviewRepo := postgresql.NewReviewRepository(db)
	insightRepo := postgresql.NewInsightRepository(db)
	notificationRepo := postgresql.NewNotificationRepository(db)
	auditRepo := postgresql.NewAuditLogRepository(db)

	jwtService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration, cfg.JWT.RefreshExpiration)
	emailService, err := email.NewEmailService(cfg.SMTP)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error initializing email service:", err)
		os.Exit(1)
	}

	clk := clock.New()
	tasks := task.NewRunner(30 * time.Second)
	hub := sse.NewHub()
	completionClient := completion.NewClient(cfg.Assistant)

	notificationSvc := notificationService.NewNotificationService(notificationRepo, hub)

	authSvc := authService.NewAuthService(db, userRepo, companyRepo, settingsRepo, jwtService)
	staffSvc := staffService.NewStaffService(userRepo, companyRepo, emailService, tasks, cfg.App.FrontendURL)
	companySvc := companyService.NewCompanyService(companyRepo)
	settingsSvc := settingsService.NewSettingsService(settingsRepo)
	attendanceSvc := attendanceService.NewAttendanceService(attendanceRepo, clk)
	leaveSvc := leaveService.NewLeaveService(leaveRepo, settingsRepo, notificationSvc, clk)
	financeSvc := financeService.NewFinanceService(financeRepo, clk)
	customerSvc := customerService.NewCustomerService(customerRepo)
	productSvc := productService.NewProductService(productRepo)
	invoiceSvc := invoiceService.NewInvoiceService(invoiceRepo, customerRepo, notificationSvc, emailService, tasks, clk)
	proposalSvc := proposalService.NewProposalService(proposalRepo, customerRepo, clk)
	deliverySvc := deliveryService.NewDeliveryService(deliveryRepo, customerRepo, companyRepo, clk)
	performanceSvc := performanceService.NewPerformanceService(goalRepo, reviewRepo, userRepo, notificationSvc)
	assistantSvc := assistantService.NewAssistantService(
		insightRepo,
		leaveSvc,
		financeSvc,
		performanceSvc,
		attendanceSvc,
		invoiceSvc,
		proposalSvc,
		completionClient,
		clk,
	)

	scheduler := cron.NewScheduler()
	scheduler.AddJob("invoice-overdue-sweep", 6*time.Hour, func(ctx context.Context) error {
		ids, err := companyRepo.ListIDs(ctx)
		if err != nil {
			return err
		}
		for _, companyID := range ids {
			if _, err := invoiceSvc.SweepOverdue(ctx, companyID); err != nil {
				slog.Error("overdue sweep failed", "company_id", companyID, "error", err)
			}
		}
		return nil
	})
	scheduler.AddJob("daily-risk-insight", 24*time.Hour, func(ctx context.Context) error {
		ids, err := companyRepo.ListIDs(ctx)
		if err != nil {
			return err
		}
		for _, companyID := range ids {
			sysCtx := assistant.SystemContext{CompanyID: companyID, UserRole: user.RoleAdmin}
			req := insight.GenerateInsightRequest{Type: string(insight.TypeRisk)}
			if _, err := assistantSvc.GenerateInsight(ctx, sysCtx, req); err != nil {
				slog.Error("risk insight generation failed", "company_id", companyID, "error", err)
			}
		}
		return nil
	})
	scheduler.Start()

	handlers := appHTTP.Handlers{
		Auth:         appHTTP.NewAuthHandler(authSvc, jwtService),
		Staff:        appHTTP.NewStaffHandler(staffSvc),
		Company:      appHTTP.NewCompanyHandler(companySvc, settingsSvc),
		Attendance:   appHTTP.NewAttendanceHandler(attendanceSvc),
		Leave:        appHTTP.NewLeaveHandler(leaveSvc),
		Finance:      appHTTP.NewFinanceHandler(financeSvc),
		Customer:     appHTTP.NewCustomerHandler(customerSvc),
		Product:      appHTTP.NewProductHandler(productSvc),
		Invoice:      appHTTP.NewInvoiceHandler(invoiceSvc),
		Proposal:     appHTTP.NewProposalHandler(proposalSvc),
		Delivery:     appHTTP.NewDeliveryHandler(deliverySvc),
		Performance:  appHTTP.NewPerformanceHandler(performanceSvc),
		Notification: appHTTP.NewNotificationHandler(notificationSvc, jwtService, hub),
		Assistant:    appHTTP.NewAssistantHandler(assistantSvc),
		AuditLog:     appHTTP.NewAuditLogHandler(auditRepo),
	}

	router := appHTTP.NewRouter(cfg.App, jwtService, auditRepo, tasks, handlers)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("server listening", "addr", server.Addr, "env", cfg.App.Env)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown error", "error", err)
	}
	scheduler.Stop()
	hub.Shutdown()
	tasks.Wait()
}
