package invoice

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/workbridge/erp-backend-go/internal/domain/customer"
	"github.com/workbridge/erp-backend-go/internal/domain/invoice"
	"github.com/workbridge/erp-backend-go/internal/domain/notification"
	"github.com/workbridge/erp-backend-go/internal/pkg/task"
)

type fakeInvoiceRepo struct {
	invoices map[string]invoice.Invoice
	nextID   int

	// conflictsLeft makes the next N Create calls fail with
	// ErrNumberConflict.
	conflictsLeft int
	createdCount  int
	overdue       []invoice.Invoice
}

func newFakeInvoiceRepo() *fakeInvoiceRepo {
	return &fakeInvoiceRepo{invoices: make(map[string]invoice.Invoice)}
}

func (r *fakeInvoiceRepo) Create(ctx context.Context, inv invoice.Invoice) (invoice.Invoice, error) {
	if r.conflictsLeft > 0 {
		r.conflictsLeft--
		return invoice.Invoice{}, invoice.ErrNumberConflict
	}
	r.nextID++
	inv.ID = fmt.Sprintf("inv-%d", r.nextID)
	r.invoices[inv.ID] = inv
	r.createdCount++
	return inv, nil
}

func (r *fakeInvoiceRepo) GetByID(ctx context.Context, id string) (invoice.Invoice, error) {
	inv, ok := r.invoices[id]
	if !ok {
		return invoice.Invoice{}, invoice.ErrInvoiceNotFound
	}
	return inv, nil
}

func (r *fakeInvoiceRepo) ListByCompany(ctx context.Context, companyID string, filter invoice.Filter) ([]invoice.Invoice, int64, error) {
	var out []invoice.Invoice
	for _, inv := range r.invoices {
		if inv.CompanyID == companyID {
			out = append(out, inv)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeInvoiceRepo) UpdateStatus(ctx context.Context, id string, status invoice.Status) error {
	inv := r.invoices[id]
	inv.Status = status
	r.invoices[id] = inv
	return nil
}

func (r *fakeInvoiceRepo) Delete(ctx context.Context, id string) error {
	delete(r.invoices, id)
	return nil
}

func (r *fakeInvoiceRepo) CountForMonth(ctx context.Context, companyID string, t time.Time) (int, error) {
	return r.createdCount, nil
}

func (r *fakeInvoiceRepo) ListOverdue(ctx context.Context, companyID string, now time.Time) ([]invoice.Invoice, error) {
	return r.overdue, nil
}

func (r *fakeInvoiceRepo) OverdueRatio(ctx context.Context, companyID string, now time.Time) (overdue, total int, err error) {
	return len(r.overdue), len(r.invoices), nil
}

type fakeCustomerRepo struct {
	customers map[string]customer.Customer
}

func (r *fakeCustomerRepo) Create(ctx context.Context, c customer.Customer) (customer.Customer, error) {
	return c, nil
}

func (r *fakeCustomerRepo) GetByID(ctx context.Context, id string) (customer.Customer, error) {
	c, ok := r.customers[id]
	if !ok {
		return customer.Customer{}, customer.ErrCustomerNotFound
	}
	return c, nil
}

func (r *fakeCustomerRepo) ListByCompany(ctx context.Context, companyID string, search *string, page, limit int) ([]customer.Customer, int64, error) {
	return nil, 0, nil
}

func (r *fakeCustomerRepo) Update(ctx context.Context, req customer.UpdateCustomerRequest) error {
	return nil
}

func (r *fakeCustomerRepo) Delete(ctx context.Context, id string) error {
	return nil
}

type fakeNotifier struct {
	sent []notification.Notification
}

func (n *fakeNotifier) Notify(ctx context.Context, notif notification.Notification) {
	n.sent = append(n.sent, notif)
}

type fakeEmailer struct {
	issued []string
}

func (e *fakeEmailer) SendInvoiceIssued(to, customerName, invoiceNumber, total, dueDate string) error {
	e.issued = append(e.issued, invoiceNumber)
	return nil
}

type invoiceFixture struct {
	svc       Service
	repo      *fakeInvoiceRepo
	customers *fakeCustomerRepo
	notifier  *fakeNotifier
	emailer   *fakeEmailer
	tasks     *task.Runner
	clock     *clock.Mock
}

func newInvoiceFixture() *invoiceFixture {
	f := &invoiceFixture{
		repo: newFakeInvoiceRepo(),
		customers: &fakeCustomerRepo{customers: map[string]customer.Customer{
			"cust-1": {ID: "cust-1", CompanyID: "company-1", Name: "Acme Corp"},
		}},
		notifier: &fakeNotifier{},
		emailer:  &fakeEmailer{},
		tasks:    task.NewRunner(time.Second),
		clock:    clock.NewMock(),
	}
	// 15 August 2026, mid-month
	f.clock.Set(time.Date(2026, 8, 15, 10, 0, 0, 0, time.UTC))
	f.svc = NewInvoiceService(f.repo, f.customers, f.notifier, f.emailer, f.tasks, f.clock)
	return f
}

func validCreateRequest() invoice.CreateInvoiceRequest {
	return invoice.CreateInvoiceRequest{
		CustomerID: "cust-1",
		IssueDate:  "2026-08-15",
		DueDate:    "2026-09-14",
		TaxRate:    10,
		Items: []invoice.CreateItemRequest{
			{Description: "Consulting", Quantity: 2, UnitPrice: 500},
		},
	}
}

func TestInvoiceCreateAssignsSequentialNumber(t *testing.T) {
	f := newInvoiceFixture()

	first, err := f.svc.Create(context.Background(), "company-1", "user-a", validCreateRequest())
	require.NoError(t, err)
	assert.Equal(t, "INV-202608-0001", first.Number)

	second, err := f.svc.Create(context.Background(), "company-1", "user-a", validCreateRequest())
	require.NoError(t, err)
	assert.Equal(t, "INV-202608-0002", second.Number)
}

func TestInvoiceCreateComputesTotals(t *testing.T) {
	f := newInvoiceFixture()

	resp, err := f.svc.Create(context.Background(), "company-1", "user-a", validCreateRequest())

	require.NoError(t, err)
	assert.Equal(t, 1000.0, resp.Subtotal)
	assert.Equal(t, 100.0, resp.TaxTotal)
	assert.Equal(t, 1100.0, resp.Total)
	assert.Equal(t, string(invoice.StatusDraft), resp.Status)
}

func TestInvoiceCreateRetriesOnNumberConflict(t *testing.T) {
	f := newInvoiceFixture()
	f.repo.conflictsLeft = 1

	done := make(chan struct{})
	var resp invoice.InvoiceResponse
	var err error
	go func() {
		defer close(done)
		resp, err = f.svc.Create(context.Background(), "company-1", "user-a", validCreateRequest())
	}()

	// Release the backoff timer until the retry completes.
	for {
		select {
		case <-done:
			require.NoError(t, err)
			assert.Equal(t, "INV-202608-0001", resp.Number)
			assert.Equal(t, 1, f.repo.createdCount)
			return
		default:
			f.clock.Add(50 * time.Millisecond)
			time.Sleep(time.Millisecond)
		}
	}
}

func TestInvoiceCreateUnknownCustomer(t *testing.T) {
	f := newInvoiceFixture()
	req := validCreateRequest()
	req.CustomerID = "cust-missing"

	_, err := f.svc.Create(context.Background(), "company-1", "user-a", req)

	assert.ErrorIs(t, err, customer.ErrCustomerNotFound)
}

func TestInvoiceStatusTransitions(t *testing.T) {
	f := newInvoiceFixture()
	created, err := f.svc.Create(context.Background(), "company-1", "user-a", validCreateRequest())
	require.NoError(t, err)

	// draft -> pending is allowed
	resp, err := f.svc.UpdateStatus(context.Background(), "company-1", created.ID, invoice.UpdateStatusRequest{Status: "pending"})
	require.NoError(t, err)
	assert.Equal(t, string(invoice.StatusPending), resp.Status)

	// pending -> paid skips approval and sending
	_, err = f.svc.UpdateStatus(context.Background(), "company-1", created.ID, invoice.UpdateStatusRequest{Status: "paid"})
	assert.ErrorIs(t, err, invoice.ErrInvalidTransition)
}

func TestInvoiceDeleteOnlyDrafts(t *testing.T) {
	f := newInvoiceFixture()
	created, err := f.svc.Create(context.Background(), "company-1", "user-a", validCreateRequest())
	require.NoError(t, err)

	_, err = f.svc.UpdateStatus(context.Background(), "company-1", created.ID, invoice.UpdateStatusRequest{Status: "pending"})
	require.NoError(t, err)

	err = f.svc.Delete(context.Background(), "company-1", created.ID)
	assert.ErrorIs(t, err, invoice.ErrInvalidTransition)
}

func TestInvoiceSweepOverdueNotifiesCreators(t *testing.T) {
	f := newInvoiceFixture()
	f.repo.overdue = []invoice.Invoice{
		{ID: "inv-9", CompanyID: "company-1", CreatedBy: "user-a", Number: "INV-202607-0003", DueDate: time.Date(2026, 7, 31, 0, 0, 0, 0, time.UTC)},
		{ID: "inv-10", CompanyID: "company-1", CreatedBy: "user-b", Number: "INV-202607-0004", DueDate: time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)},
	}

	count, err := f.svc.SweepOverdue(context.Background(), "company-1")

	require.NoError(t, err)
	assert.Equal(t, 2, count)
	require.Len(t, f.notifier.sent, 2)
	assert.Equal(t, "user-a", f.notifier.sent[0].RecipientID)
	assert.Equal(t, "invoice_overdue", f.notifier.sent[0].Type)
	assert.Contains(t, f.notifier.sent[0].Message, "INV-202607-0003")
}

func TestInvoiceSentEmailsCustomer(t *testing.T) {
	f := newInvoiceFixture()
	email := "billing@acme.example"
	f.customers.customers["cust-1"] = customer.Customer{
		ID: "cust-1", CompanyID: "company-1", Name: "Acme Corp", Email: &email,
	}

	created, err := f.svc.Create(context.Background(), "company-1", "user-a", validCreateRequest())
	require.NoError(t, err)

	for _, status := range []string{"pending", "approved", "sent"} {
		_, err = f.svc.UpdateStatus(context.Background(), "company-1", created.ID, invoice.UpdateStatusRequest{Status: status})
		require.NoError(t, err)
	}

	f.tasks.Wait()
	require.Len(t, f.emailer.issued, 1)
	assert.Equal(t, created.Number, f.emailer.issued[0])
}

func TestInvoiceListDerivesOverdueStatus(t *testing.T) {
	f := newInvoiceFixture()
	created, err := f.svc.Create(context.Background(), "company-1", "user-a", validCreateRequest())
	require.NoError(t, err)

	for _, status := range []string{"pending", "approved", "sent"} {
		_, err = f.svc.UpdateStatus(context.Background(), "company-1", created.ID, invoice.UpdateStatusRequest{Status: status})
		require.NoError(t, err)
	}

	// Jump past the due date; stored status stays "sent".
	f.clock.Set(time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC))

	resp, err := f.svc.GetByID(context.Background(), "company-1", created.ID)
	require.NoError(t, err)
	assert.Equal(t, string(invoice.StatusOverdue), resp.Status)
}
