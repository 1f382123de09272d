package delivery

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/jackc/pgx/v5"

	"github.com/workbridge/erp-backend-go/internal/domain/company"
	"github.com/workbridge/erp-backend-go/internal/domain/customer"
	"github.com/workbridge/erp-backend-go/internal/domain/delivery"
	"github.com/workbridge/erp-backend-go/internal/pkg/pdf"
)

// Service manages delivery notes and their printable documents.
type Service interface {
	Create(ctx context.Context, companyID, createdBy string, req delivery.CreateDeliveryRequest) (delivery.DeliveryResponse, error)
	GetByID(ctx context.Context, companyID, id string) (delivery.DeliveryResponse, error)
	List(ctx context.Context, companyID string, filter delivery.Filter) (delivery.ListDeliveriesResponse, error)
	UpdateStatus(ctx context.Context, companyID, id string, req delivery.UpdateStatusRequest) (delivery.DeliveryResponse, error)
	Delete(ctx context.Context, companyID, id string) error
	RenderPDF(ctx context.Context, companyID, id string) ([]byte, error)
}

type DeliveryServiceImpl struct {
	delivery.Repository
	customerRepo customer.Repository
	companyRepo  company.Repository
	clock        clock.Clock
}

func NewDeliveryService(
	repo delivery.Repository,
	customerRepo customer.Repository,
	companyRepo company.Repository,
	clk clock.Clock,
) Service {
	return &DeliveryServiceImpl{
		Repository:   repo,
		customerRepo: customerRepo,
		companyRepo:  companyRepo,
		clock:        clk,
	}
}

// Create implements Service. Delivery numbers are sequential per month
// (DLV-YYYYMM-NNNN); collisions are rare enough here that a single
// regeneration is not worth a retry loop, the unique index simply
// rejects and the client retries.
func (s *DeliveryServiceImpl) Create(ctx context.Context, companyID, createdBy string, req delivery.CreateDeliveryRequest) (delivery.DeliveryResponse, error) {
	if err := req.Validate(); err != nil {
		return delivery.DeliveryResponse{}, err
	}

	if _, err := s.customerRepo.GetByID(ctx, req.CustomerID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return delivery.DeliveryResponse{}, customer.ErrCustomerNotFound
		}
		return delivery.DeliveryResponse{}, fmt.Errorf("failed to get customer: %w", err)
	}

	deliveryDate, _ := time.Parse("2006-01-02", req.DeliveryDate)

	now := s.clock.Now()
	count, err := s.Repository.CountForMonth(ctx, companyID, now)
	if err != nil {
		return delivery.DeliveryResponse{}, fmt.Errorf("failed to count deliveries for numbering: %w", err)
	}

	items := make([]delivery.Item, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, delivery.Item{
			ProductID:   item.ProductID,
			Description: item.Description,
			Quantity:    item.Quantity,
			PictureURL:  item.PictureURL,
		})
	}

	created, err := s.Repository.Create(ctx, delivery.Delivery{
		CompanyID:    companyID,
		CreatedBy:    createdBy,
		Number:       fmt.Sprintf("DLV-%s-%04d", now.Format("200601"), count+1),
		CustomerID:   req.CustomerID,
		Status:       delivery.StatusPreparing,
		DeliveryDate: deliveryDate,
		Address:      req.Address,
		Notes:        req.Notes,
		Items:        items,
	})
	if err != nil {
		return delivery.DeliveryResponse{}, fmt.Errorf("failed to create delivery: %w", err)
	}

	return s.GetByID(ctx, companyID, created.ID)
}

func (s *DeliveryServiceImpl) getOwned(ctx context.Context, companyID, id string) (delivery.Delivery, error) {
	d, err := s.Repository.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return delivery.Delivery{}, delivery.ErrDeliveryNotFound
		}
		return delivery.Delivery{}, fmt.Errorf("failed to get delivery: %w", err)
	}
	if d.CompanyID != companyID {
		return delivery.Delivery{}, delivery.ErrDeliveryNotFound
	}
	return d, nil
}

// GetByID implements Service.
func (s *DeliveryServiceImpl) GetByID(ctx context.Context, companyID, id string) (delivery.DeliveryResponse, error) {
	d, err := s.getOwned(ctx, companyID, id)
	if err != nil {
		return delivery.DeliveryResponse{}, err
	}
	return toResponse(d), nil
}

// List implements Service.
func (s *DeliveryServiceImpl) List(ctx context.Context, companyID string, filter delivery.Filter) (delivery.ListDeliveriesResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > 100 {
		filter.Limit = 20
	}

	deliveries, total, err := s.Repository.ListByCompany(ctx, companyID, filter)
	if err != nil {
		return delivery.ListDeliveriesResponse{}, fmt.Errorf("failed to list deliveries: %w", err)
	}

	responses := make([]delivery.DeliveryResponse, 0, len(deliveries))
	for _, d := range deliveries {
		responses = append(responses, toResponse(d))
	}

	totalPages := int(total) / filter.Limit
	if int(total)%filter.Limit != 0 {
		totalPages++
	}

	return delivery.ListDeliveriesResponse{
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages,
		Deliveries: responses,
	}, nil
}

// UpdateStatus implements Service.
func (s *DeliveryServiceImpl) UpdateStatus(ctx context.Context, companyID, id string, req delivery.UpdateStatusRequest) (delivery.DeliveryResponse, error) {
	if err := req.Validate(); err != nil {
		return delivery.DeliveryResponse{}, err
	}

	if _, err := s.getOwned(ctx, companyID, id); err != nil {
		return delivery.DeliveryResponse{}, err
	}

	if err := s.Repository.UpdateStatus(ctx, id, delivery.Status(req.Status)); err != nil {
		return delivery.DeliveryResponse{}, fmt.Errorf("failed to update delivery status: %w", err)
	}

	return s.GetByID(ctx, companyID, id)
}

// Delete implements Service.
func (s *DeliveryServiceImpl) Delete(ctx context.Context, companyID, id string) error {
	if _, err := s.getOwned(ctx, companyID, id); err != nil {
		return err
	}
	return s.Repository.Delete(ctx, id)
}

// RenderPDF implements Service. The document carries the company
// letterhead and the delivery's item table.
func (s *DeliveryServiceImpl) RenderPDF(ctx context.Context, companyID, id string) ([]byte, error) {
	d, err := s.getOwned(ctx, companyID, id)
	if err != nil {
		return nil, err
	}

	comp, err := s.companyRepo.GetByID(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to get company for letterhead: %w", err)
	}

	return pdf.RenderDeliveryNote(comp, d)
}

func toResponse(d delivery.Delivery) delivery.DeliveryResponse {
	items := make([]delivery.ItemResponse, 0, len(d.Items))
	for _, item := range d.Items {
		items = append(items, delivery.ItemResponse{
			ID:          item.ID,
			ProductID:   item.ProductID,
			Description: item.Description,
			Quantity:    item.Quantity,
			PictureURL:  item.PictureURL,
		})
	}

	return delivery.DeliveryResponse{
		ID:           d.ID,
		Number:       d.Number,
		CustomerID:   d.CustomerID,
		CustomerName: d.CustomerName,
		Status:       string(d.Status),
		DeliveryDate: d.DeliveryDate,
		Address:      d.Address,
		Notes:        d.Notes,
		Items:        items,
		CreatedAt:    d.CreatedAt,
	}
}
