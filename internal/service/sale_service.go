package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/grupo16/tutoring-center-api/internal/models"
	appErrors "github.com/grupo16/tutoring-center-api/pkg/errors"
	"github.com/grupo16/tutoring-center-api/pkg/export"
)

type saleRepository interface {
	List(ctx context.Context, filter models.SaleFilter) ([]models.SaleDetail, int, error)
	FindByID(ctx context.Context, id string) (*models.Sale, error)
	Create(ctx context.Context, sale *models.Sale) error
	Summary(ctx context.Context) ([]models.SaleSummaryRow, error)
}

// CreateSaleRequest describes a sale creation payload.
type CreateSaleRequest struct {
	EnrollmentID  string     `json:"enrollment_id" validate:"required"`
	OwnerID       *string    `json:"owner_id,omitempty"`
	SaleType      string     `json:"sale_type" validate:"required"`
	TotalAmount   float64    `json:"total_amount" validate:"required,gt=0"`
	BillingPeriod string     `json:"billing_period" validate:"required"`
	SaleDate      *time.Time `json:"sale_date,omitempty"`
	DueDate       *time.Time `json:"due_date,omitempty"`
}

// SaleService orchestrates billing records.
type SaleService struct {
	repo        saleRepository
	enrollments enrollmentReader
	exporter    *export.CSVExporter
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewSaleService constructs SaleService.
func NewSaleService(repo saleRepository, enrollments enrollmentReader, validate *validator.Validate, logger *zap.Logger) *SaleService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SaleService{repo: repo, enrollments: enrollments, exporter: export.NewCSVExporter(), validator: validate, logger: logger}
}

// List returns sales with pagination metadata. Students only see sales of
// their own enrollments.
func (s *SaleService) List(ctx context.Context, principal models.Principal, filter models.SaleFilter) ([]models.SaleDetail, *models.Pagination, error) {
	if principal.IsStudent() {
		filter.StudentID = principal.ID
	}
	sales, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list sales")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 {
		size = 20
	}
	pagination := &models.Pagination{Page: page, PageSize: size, TotalCount: total}
	return sales, pagination, nil
}

// Get returns one sale, enforcing the student ownership scope.
func (s *SaleService) Get(ctx context.Context, principal models.Principal, id string) (*models.Sale, error) {
	sale, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "sale not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load sale")
	}

	if principal.IsStudent() {
		enrollment, err := s.enrollments.FindByID(ctx, sale.EnrollmentID)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load enrollment")
		}
		if enrollment.StudentID != principal.ID {
			return nil, appErrors.Clone(appErrors.ErrForbidden, "sale belongs to another student")
		}
	}
	return sale, nil
}

// Create opens a billing record for an enrollment. The balance starts fully
// pending; only settled payments move it.
func (s *SaleService) Create(ctx context.Context, req CreateSaleRequest) (*models.Sale, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid sale payload")
	}

	enrollment, err := s.enrollments.FindByID(ctx, req.EnrollmentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "enrollment not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load enrollment")
	}
	if enrollment.Status != models.EnrollmentStatusActive {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "enrollment is not active")
	}

	sale := &models.Sale{
		EnrollmentID:   req.EnrollmentID,
		OwnerID:        req.OwnerID,
		SaleType:       req.SaleType,
		TotalAmount:    req.TotalAmount,
		PaidAmount:     0,
		PendingBalance: req.TotalAmount,
		BillingPeriod:  req.BillingPeriod,
		DueDate:        req.DueDate,
		Status:         models.DeriveSaleStatus(0, req.TotalAmount),
	}
	if req.SaleDate != nil {
		sale.SaleDate = *req.SaleDate
	}
	if err := s.repo.Create(ctx, sale); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create sale")
	}
	return sale, nil
}

// Summary aggregates sales by status for the owner dashboard.
func (s *SaleService) Summary(ctx context.Context) ([]models.SaleSummaryRow, error) {
	rows, err := s.repo.Summary(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to summarize sales")
	}
	return rows, nil
}

// ExportCSV renders the filtered sales as a CSV document.
func (s *SaleService) ExportCSV(ctx context.Context, principal models.Principal, filter models.SaleFilter) ([]byte, error) {
	if principal.IsStudent() {
		filter.StudentID = principal.ID
	}
	dataset := export.Dataset{
		Headers: []string{"id", "alumno", "servicio", "periodo", "monto_total", "monto_pagado", "saldo_pendiente", "estado"},
	}

	// The export walks every page so the document covers the full filter
	// result, not just the first page.
	filter.Page = 1
	filter.PageSize = 100
	for {
		sales, _, err := s.repo.List(ctx, filter)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list sales")
		}
		for _, sale := range sales {
			dataset.Rows = append(dataset.Rows, map[string]string{
				"id":              sale.ID,
				"alumno":          sale.StudentName,
				"servicio":        sale.ServiceName,
				"periodo":         sale.BillingPeriod,
				"monto_total":     fmt.Sprintf("%.2f", sale.TotalAmount),
				"monto_pagado":    fmt.Sprintf("%.2f", sale.PaidAmount),
				"saldo_pendiente": fmt.Sprintf("%.2f", sale.PendingBalance),
				"estado":          string(sale.Status),
			})
		}
		if len(sales) < filter.PageSize {
			break
		}
		filter.Page++
	}

	data, err := s.exporter.Render(dataset)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render sales export")
	}
	return data, nil
}
