package invoice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/jackc/pgx/v5"

	"github.com/workbridge/erp-backend-go/internal/domain/customer"
	"github.com/workbridge/erp-backend-go/internal/domain/invoice"
	"github.com/workbridge/erp-backend-go/internal/domain/notification"
	"github.com/workbridge/erp-backend-go/internal/pkg/task"
)

// maxNumberAttempts bounds the regenerate-on-conflict loop for
// sequential invoice numbers.
const maxNumberAttempts = 5

// Notifier publishes in-app notifications.
type Notifier interface {
	Notify(ctx context.Context, n notification.Notification)
}

// Emailer sends the customer-facing issued email, implemented by the
// email service.
type Emailer interface {
	SendInvoiceIssued(to, customerName, invoiceNumber, total, dueDate string) error
}

// Service manages invoices, including number assignment and the
// overdue sweep run by the scheduler.
type Service interface {
	Create(ctx context.Context, companyID, createdBy string, req invoice.CreateInvoiceRequest) (invoice.InvoiceResponse, error)
	GetByID(ctx context.Context, companyID string, id string) (invoice.InvoiceResponse, error)
	List(ctx context.Context, companyID string, filter invoice.Filter) (invoice.ListInvoicesResponse, error)
	UpdateStatus(ctx context.Context, companyID, id string, req invoice.UpdateStatusRequest) (invoice.InvoiceResponse, error)
	Delete(ctx context.Context, companyID, id string) error
	SweepOverdue(ctx context.Context, companyID string) (int, error)
	OverdueRatio(ctx context.Context, companyID string, now time.Time) (overdue, total int, err error)
}

type InvoiceServiceImpl struct {
	invoice.Repository
	customerRepo customer.Repository
	notifier     Notifier
	emailer      Emailer
	tasks        *task.Runner
	clock        clock.Clock
}

func NewInvoiceService(
	repo invoice.Repository,
	customerRepo customer.Repository,
	notifier Notifier,
	emailer Emailer,
	tasks *task.Runner,
	clk clock.Clock,
) Service {
	return &InvoiceServiceImpl{
		Repository:   repo,
		customerRepo: customerRepo,
		notifier:     notifier,
		emailer:      emailer,
		tasks:        tasks,
		clock:        clk,
	}
}

// nextNumber builds the next sequential number for the month, e.g.
// INV-202608-0007.
func (s *InvoiceServiceImpl) nextNumber(ctx context.Context, companyID string, now time.Time) (string, error) {
	count, err := s.Repository.CountForMonth(ctx, companyID, now)
	if err != nil {
		return "", fmt.Errorf("failed to count invoices for numbering: %w", err)
	}
	return fmt.Sprintf("INV-%s-%04d", now.Format("200601"), count+1), nil
}

// Create implements Service. Concurrent creations can race on the same
// sequential number; the unique index catches that, and the loop
// regenerates with a short backoff. If all attempts collide the number
// falls back to a timestamp suffix, which cannot conflict.
func (s *InvoiceServiceImpl) Create(ctx context.Context, companyID, createdBy string, req invoice.CreateInvoiceRequest) (invoice.InvoiceResponse, error) {
	if err := req.Validate(); err != nil {
		return invoice.InvoiceResponse{}, err
	}

	if _, err := s.customerRepo.GetByID(ctx, req.CustomerID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return invoice.InvoiceResponse{}, customer.ErrCustomerNotFound
		}
		return invoice.InvoiceResponse{}, fmt.Errorf("failed to get customer: %w", err)
	}

	issueDate, _ := time.Parse("2006-01-02", req.IssueDate)
	dueDate, _ := time.Parse("2006-01-02", req.DueDate)

	items := make([]invoice.Item, 0, len(req.Items))
	subtotal := 0.0
	for _, item := range req.Items {
		lineTotal := item.Quantity * item.UnitPrice
		subtotal += lineTotal
		items = append(items, invoice.Item{
			ProductID:   item.ProductID,
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			LineTotal:   lineTotal,
		})
	}
	taxTotal := subtotal * req.TaxRate / 100

	inv := invoice.Invoice{
		CompanyID:  companyID,
		CreatedBy:  createdBy,
		CustomerID: req.CustomerID,
		Status:     invoice.StatusDraft,
		IssueDate:  issueDate,
		DueDate:    dueDate,
		Subtotal:   subtotal,
		TaxRate:    req.TaxRate,
		TaxTotal:   taxTotal,
		Total:      subtotal + taxTotal,
		Notes:      req.Notes,
		Items:      items,
	}

	now := s.clock.Now()

	var created invoice.Invoice
	for attempt := 1; attempt <= maxNumberAttempts; attempt++ {
		number, err := s.nextNumber(ctx, companyID, now)
		if err != nil {
			return invoice.InvoiceResponse{}, err
		}
		inv.Number = number

		created, err = s.Repository.Create(ctx, inv)
		if err == nil {
			return s.GetByID(ctx, companyID, created.ID)
		}
		if !errors.Is(err, invoice.ErrNumberConflict) {
			return invoice.InvoiceResponse{}, fmt.Errorf("failed to create invoice: %w", err)
		}

		slog.Warn("Invoice number conflict, regenerating",
			"company_id", companyID, "number", number, "attempt", attempt)

		// Linear backoff: 50ms, 100ms, 150ms...
		select {
		case <-ctx.Done():
			return invoice.InvoiceResponse{}, ctx.Err()
		case <-s.clock.After(time.Duration(attempt) * 50 * time.Millisecond):
		}
	}

	// Last resort: a timestamp-suffixed number is unique by construction.
	inv.Number = fmt.Sprintf("INV-%s-%d", now.Format("200601"), s.clock.Now().UnixNano()%1_000_000)
	created, err := s.Repository.Create(ctx, inv)
	if err != nil {
		if errors.Is(err, invoice.ErrNumberConflict) {
			return invoice.InvoiceResponse{}, invoice.ErrNumberingExhausted
		}
		return invoice.InvoiceResponse{}, fmt.Errorf("failed to create invoice: %w", err)
	}

	return s.GetByID(ctx, companyID, created.ID)
}

func (s *InvoiceServiceImpl) getOwned(ctx context.Context, companyID, id string) (invoice.Invoice, error) {
	inv, err := s.Repository.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return invoice.Invoice{}, invoice.ErrInvoiceNotFound
		}
		return invoice.Invoice{}, fmt.Errorf("failed to get invoice: %w", err)
	}
	if inv.CompanyID != companyID {
		return invoice.Invoice{}, invoice.ErrInvoiceNotFound
	}
	return inv, nil
}

// GetByID implements Service.
func (s *InvoiceServiceImpl) GetByID(ctx context.Context, companyID string, id string) (invoice.InvoiceResponse, error) {
	inv, err := s.getOwned(ctx, companyID, id)
	if err != nil {
		return invoice.InvoiceResponse{}, err
	}
	return s.toResponse(inv), nil
}

// List implements Service.
func (s *InvoiceServiceImpl) List(ctx context.Context, companyID string, filter invoice.Filter) (invoice.ListInvoicesResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > 100 {
		filter.Limit = 20
	}

	invoices, total, err := s.Repository.ListByCompany(ctx, companyID, filter)
	if err != nil {
		return invoice.ListInvoicesResponse{}, fmt.Errorf("failed to list invoices: %w", err)
	}

	responses := make([]invoice.InvoiceResponse, 0, len(invoices))
	for _, inv := range invoices {
		responses = append(responses, s.toResponse(inv))
	}

	totalPages := int(total) / filter.Limit
	if int(total)%filter.Limit != 0 {
		totalPages++
	}

	return invoice.ListInvoicesResponse{
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages,
		Invoices:   responses,
	}, nil
}

// validTransitions defines the allowed stored-status changes.
var validTransitions = map[invoice.Status][]invoice.Status{
	invoice.StatusDraft:    {invoice.StatusPending, invoice.StatusCancelled},
	invoice.StatusPending:  {invoice.StatusApproved, invoice.StatusCancelled},
	invoice.StatusApproved: {invoice.StatusSent, invoice.StatusCancelled},
	invoice.StatusSent:     {invoice.StatusPaid, invoice.StatusCancelled},
}

// UpdateStatus implements Service.
func (s *InvoiceServiceImpl) UpdateStatus(ctx context.Context, companyID, id string, req invoice.UpdateStatusRequest) (invoice.InvoiceResponse, error) {
	if err := req.Validate(); err != nil {
		return invoice.InvoiceResponse{}, err
	}

	inv, err := s.getOwned(ctx, companyID, id)
	if err != nil {
		return invoice.InvoiceResponse{}, err
	}

	target := invoice.Status(req.Status)
	allowed := false
	for _, next := range validTransitions[inv.Status] {
		if next == target {
			allowed = true
			break
		}
	}
	if !allowed {
		return invoice.InvoiceResponse{}, invoice.ErrInvalidTransition
	}

	if err := s.Repository.UpdateStatus(ctx, id, target); err != nil {
		return invoice.InvoiceResponse{}, fmt.Errorf("failed to update invoice status: %w", err)
	}

	if target == invoice.StatusSent {
		s.sendIssuedEmail(ctx, inv)
	}

	return s.GetByID(ctx, companyID, id)
}

// sendIssuedEmail emails the customer when an invoice goes out. The
// send runs detached: status updates must not fail because SMTP is
// down, and a customer without an email address is simply skipped.
func (s *InvoiceServiceImpl) sendIssuedEmail(ctx context.Context, inv invoice.Invoice) {
	cust, err := s.customerRepo.GetByID(ctx, inv.CustomerID)
	if err != nil {
		slog.Warn("Skipping invoice email, customer lookup failed",
			"invoice_id", inv.ID, "error", err)
		return
	}
	if cust.Email == nil || *cust.Email == "" {
		return
	}

	to := *cust.Email
	s.tasks.Go("invoice-issued-email", func(ctx context.Context) error {
		return s.emailer.SendInvoiceIssued(
			to,
			cust.Name,
			inv.Number,
			fmt.Sprintf("%.2f", inv.Total),
			inv.DueDate.Format("2 January 2006"),
		)
	})
}

// Delete implements Service. Only drafts can be deleted.
func (s *InvoiceServiceImpl) Delete(ctx context.Context, companyID, id string) error {
	inv, err := s.getOwned(ctx, companyID, id)
	if err != nil {
		return err
	}
	if inv.Status != invoice.StatusDraft {
		return invoice.ErrInvalidTransition
	}
	return s.Repository.Delete(ctx, id)
}

// SweepOverdue implements Service. It notifies the invoice creator
// about each sent or pending invoice past its due date. Run from the
// scheduler; returns the number of overdue invoices found.
func (s *InvoiceServiceImpl) SweepOverdue(ctx context.Context, companyID string) (int, error) {
	now := s.clock.Now()

	overdue, err := s.Repository.ListOverdue(ctx, companyID, now)
	if err != nil {
		return 0, fmt.Errorf("failed to list overdue invoices: %w", err)
	}

	for _, inv := range overdue {
		s.notifier.Notify(ctx, notification.Notification{
			CompanyID:   companyID,
			RecipientID: inv.CreatedBy,
			Type:        "invoice_overdue",
			Title:       "Invoice overdue",
			Message:     fmt.Sprintf("Invoice %s was due on %s and has not been paid.", inv.Number, inv.DueDate.Format("2 January 2006")),
			Data:        map[string]any{"invoice_id": inv.ID, "invoice_number": inv.Number},
		})
	}

	return len(overdue), nil
}

func (s *InvoiceServiceImpl) toResponse(inv invoice.Invoice) invoice.InvoiceResponse {
	items := make([]invoice.ItemResponse, 0, len(inv.Items))
	for _, item := range inv.Items {
		items = append(items, invoice.ItemResponse{
			ID:          item.ID,
			ProductID:   item.ProductID,
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			LineTotal:   item.LineTotal,
		})
	}

	return invoice.InvoiceResponse{
		ID:           inv.ID,
		Number:       inv.Number,
		CustomerID:   inv.CustomerID,
		CustomerName: inv.CustomerName,
		Status:       string(inv.EffectiveStatus(s.clock.Now())),
		IssueDate:    inv.IssueDate,
		DueDate:      inv.DueDate,
		Subtotal:     inv.Subtotal,
		TaxRate:      inv.TaxRate,
		TaxTotal:     inv.TaxTotal,
		Total:        inv.Total,
		Notes:        inv.Notes,
		Items:        items,
		CreatedBy:    inv.CreatedBy,
		CreatedAt:    inv.CreatedAt,
	}
}
