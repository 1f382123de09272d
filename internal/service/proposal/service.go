package proposal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/jackc/pgx/v5"

	"github.com/workbridge/erp-backend-go/internal/domain/customer"
	"github.com/workbridge/erp-backend-go/internal/domain/proposal"
)

const maxNumberAttempts = 5

// Service manages sales proposals.
type Service interface {
	Create(ctx context.Context, companyID, createdBy string, req proposal.CreateProposalRequest) (proposal.ProposalResponse, error)
	GetByID(ctx context.Context, companyID, id string) (proposal.ProposalResponse, error)
	List(ctx context.Context, companyID string, filter proposal.Filter) (proposal.ListProposalsResponse, error)
	UpdateStatus(ctx context.Context, companyID, id string, req proposal.UpdateStatusRequest) (proposal.ProposalResponse, error)
	Delete(ctx context.Context, companyID, id string) error
	StatusCounts(ctx context.Context, companyID string, createdBy *string) (map[proposal.Status]int, error)
}

type ProposalServiceImpl struct {
	proposal.Repository
	customerRepo customer.Repository
	clock        clock.Clock
}

func NewProposalService(repo proposal.Repository, customerRepo customer.Repository, clk clock.Clock) Service {
	return &ProposalServiceImpl{Repository: repo, customerRepo: customerRepo, clock: clk}
}

func (s *ProposalServiceImpl) nextNumber(ctx context.Context, companyID string, now time.Time) (string, error) {
	count, err := s.Repository.CountForMonth(ctx, companyID, now)
	if err != nil {
		return "", fmt.Errorf("failed to count proposals for numbering: %w", err)
	}
	return fmt.Sprintf("PRO-%s-%04d", now.Format("200601"), count+1), nil
}

// Create implements Service. Numbering follows the same
// regenerate-on-conflict strategy as invoices.
func (s *ProposalServiceImpl) Create(ctx context.Context, companyID, createdBy string, req proposal.CreateProposalRequest) (proposal.ProposalResponse, error) {
	if err := req.Validate(); err != nil {
		return proposal.ProposalResponse{}, err
	}

	if _, err := s.customerRepo.GetByID(ctx, req.CustomerID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return proposal.ProposalResponse{}, customer.ErrCustomerNotFound
		}
		return proposal.ProposalResponse{}, fmt.Errorf("failed to get customer: %w", err)
	}

	validUntil, _ := time.Parse("2006-01-02", req.ValidUntil)

	items := make([]proposal.Item, 0, len(req.Items))
	total := 0.0
	for _, item := range req.Items {
		lineTotal := item.Quantity * item.UnitPrice
		total += lineTotal
		items = append(items, proposal.Item{
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			LineTotal:   lineTotal,
		})
	}

	p := proposal.Proposal{
		CompanyID:  companyID,
		CreatedBy:  createdBy,
		CustomerID: req.CustomerID,
		Title:      req.Title,
		Status:     proposal.StatusDraft,
		ValidUntil: validUntil,
		Total:      total,
		Notes:      req.Notes,
		Items:      items,
	}

	now := s.clock.Now()
	for attempt := 1; attempt <= maxNumberAttempts; attempt++ {
		number, err := s.nextNumber(ctx, companyID, now)
		if err != nil {
			return proposal.ProposalResponse{}, err
		}
		p.Number = number

		created, err := s.Repository.Create(ctx, p)
		if err == nil {
			return s.GetByID(ctx, companyID, created.ID)
		}
		if !errors.Is(err, proposal.ErrNumberConflict) {
			return proposal.ProposalResponse{}, fmt.Errorf("failed to create proposal: %w", err)
		}

		slog.Warn("Proposal number conflict, regenerating",
			"company_id", companyID, "number", number, "attempt", attempt)

		select {
		case <-ctx.Done():
			return proposal.ProposalResponse{}, ctx.Err()
		case <-s.clock.After(time.Duration(attempt) * 50 * time.Millisecond):
		}
	}

	p.Number = fmt.Sprintf("PRO-%s-%d", now.Format("200601"), s.clock.Now().UnixNano()%1_000_000)
	created, err := s.Repository.Create(ctx, p)
	if err != nil {
		return proposal.ProposalResponse{}, fmt.Errorf("failed to create proposal: %w", err)
	}

	return s.GetByID(ctx, companyID, created.ID)
}

func (s *ProposalServiceImpl) getOwned(ctx context.Context, companyID, id string) (proposal.Proposal, error) {
	p, err := s.Repository.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return proposal.Proposal{}, proposal.ErrProposalNotFound
		}
		return proposal.Proposal{}, fmt.Errorf("failed to get proposal: %w", err)
	}
	if p.CompanyID != companyID {
		return proposal.Proposal{}, proposal.ErrProposalNotFound
	}
	return p, nil
}

// GetByID implements Service.
func (s *ProposalServiceImpl) GetByID(ctx context.Context, companyID, id string) (proposal.ProposalResponse, error) {
	p, err := s.getOwned(ctx, companyID, id)
	if err != nil {
		return proposal.ProposalResponse{}, err
	}
	return toResponse(p), nil
}

// List implements Service.
func (s *ProposalServiceImpl) List(ctx context.Context, companyID string, filter proposal.Filter) (proposal.ListProposalsResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > 100 {
		filter.Limit = 20
	}

	proposals, total, err := s.Repository.ListByCompany(ctx, companyID, filter)
	if err != nil {
		return proposal.ListProposalsResponse{}, fmt.Errorf("failed to list proposals: %w", err)
	}

	responses := make([]proposal.ProposalResponse, 0, len(proposals))
	for _, p := range proposals {
		responses = append(responses, toResponse(p))
	}

	totalPages := int(total) / filter.Limit
	if int(total)%filter.Limit != 0 {
		totalPages++
	}

	return proposal.ListProposalsResponse{
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages,
		Proposals:  responses,
	}, nil
}

var validTransitions = map[proposal.Status][]proposal.Status{
	proposal.StatusDraft: {proposal.StatusSent},
	proposal.StatusSent:  {proposal.StatusAccepted, proposal.StatusRejected, proposal.StatusExpired},
}

// UpdateStatus implements Service.
func (s *ProposalServiceImpl) UpdateStatus(ctx context.Context, companyID, id string, req proposal.UpdateStatusRequest) (proposal.ProposalResponse, error) {
	if err := req.Validate(); err != nil {
		return proposal.ProposalResponse{}, err
	}

	p, err := s.getOwned(ctx, companyID, id)
	if err != nil {
		return proposal.ProposalResponse{}, err
	}

	target := proposal.Status(req.Status)
	allowed := false
	for _, next := range validTransitions[p.Status] {
		if next == target {
			allowed = true
			break
		}
	}
	if !allowed {
		return proposal.ProposalResponse{}, proposal.ErrInvalidTransition
	}

	if err := s.Repository.UpdateStatus(ctx, id, target); err != nil {
		return proposal.ProposalResponse{}, fmt.Errorf("failed to update proposal status: %w", err)
	}

	return s.GetByID(ctx, companyID, id)
}

// Delete implements Service. Only drafts can be deleted.
func (s *ProposalServiceImpl) Delete(ctx context.Context, companyID, id string) error {
	p, err := s.getOwned(ctx, companyID, id)
	if err != nil {
		return err
	}
	if p.Status != proposal.StatusDraft {
		return proposal.ErrInvalidTransition
	}
	return s.Repository.Delete(ctx, id)
}

// StatusCounts implements Service.
func (s *ProposalServiceImpl) StatusCounts(ctx context.Context, companyID string, createdBy *string) (map[proposal.Status]int, error) {
	counts, err := s.Repository.StatusCounts(ctx, companyID, createdBy)
	if err != nil {
		return nil, fmt.Errorf("failed to count proposals by status: %w", err)
	}
	return counts, nil
}

func toResponse(p proposal.Proposal) proposal.ProposalResponse {
	items := make([]proposal.ItemResponse, 0, len(p.Items))
	for _, item := range p.Items {
		items = append(items, proposal.ItemResponse{
			ID:          item.ID,
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			LineTotal:   item.LineTotal,
		})
	}

	return proposal.ProposalResponse{
		ID:           p.ID,
		Number:       p.Number,
		CustomerID:   p.CustomerID,
		CustomerName: p.CustomerName,
		Title:        p.Title,
		Status:       string(p.Status),
		ValidUntil:   p.ValidUntil,
		Total:        p.Total,
		Notes:        p.Notes,
		Items:        items,
		CreatedBy:    p.CreatedBy,
		CreatedAt:    p.CreatedAt,
	}
}
