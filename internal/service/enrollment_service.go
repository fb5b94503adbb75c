package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/grupo16/tutoring-center-api/internal/models"
	appErrors "github.com/grupo16/tutoring-center-api/pkg/errors"
)

type enrollmentRepository interface {
	List(ctx context.Context, filter models.EnrollmentFilter) ([]models.EnrollmentDetail, int, error)
	FindByID(ctx context.Context, id string) (*models.Enrollment, error)
	ExistsActive(ctx context.Context, studentID, tutorID, serviceID string) (bool, error)
	Create(ctx context.Context, enrollment *models.Enrollment) error
	UpdateStatus(ctx context.Context, id string, status models.EnrollmentStatus) error
}

type directoryReader interface {
	StudentExists(ctx context.Context, id string) (bool, error)
	TutorExists(ctx context.Context, id string) (bool, error)
	ServiceExists(ctx context.Context, id string) (bool, error)
}

type saleCreator interface {
	Create(ctx context.Context, req CreateSaleRequest) (*models.Sale, error)
}

// EnrollmentSaleRequest is the optional billing block of an enrollment,
// spawning the first sale in the same flow.
type EnrollmentSaleRequest struct {
	SaleType      string     `json:"sale_type" validate:"required"`
	TotalAmount   float64    `json:"total_amount" validate:"required,gt=0"`
	BillingPeriod string     `json:"billing_period" validate:"required"`
	DueDate       *time.Time `json:"due_date,omitempty"`
}

// EnrollStudentRequest describes an enrollment creation payload.
type EnrollStudentRequest struct {
	StudentID string                 `json:"student_id" validate:"required"`
	TutorID   string                 `json:"tutor_id" validate:"required"`
	ServiceID string                 `json:"service_id" validate:"required"`
	Date      *time.Time             `json:"date,omitempty"`
	Notes     *string                `json:"notes,omitempty"`
	Sale      *EnrollmentSaleRequest `json:"sale,omitempty"`
}

// EnrollmentService orchestrates enrollment workflows.
type EnrollmentService struct {
	repo      enrollmentRepository
	directory directoryReader
	sales     saleCreator
	validator *validator.Validate
	logger    *zap.Logger
}

// NewEnrollmentService constructs EnrollmentService.
func NewEnrollmentService(repo enrollmentRepository, directory directoryReader, validate *validator.Validate, logger *zap.Logger) *EnrollmentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EnrollmentService{repo: repo, directory: directory, validator: validate, logger: logger}
}

// WithSales enables spawning the first sale as part of enrollment creation.
func (s *EnrollmentService) WithSales(sales saleCreator) *EnrollmentService {
	s.sales = sales
	return s
}

// List returns enrollments with pagination metadata. Students and tutors are
// scoped to their own enrollments.
func (s *EnrollmentService) List(ctx context.Context, principal models.Principal, filter models.EnrollmentFilter) ([]models.EnrollmentDetail, *models.Pagination, error) {
	switch principal.Role {
	case models.RoleStudent:
		filter.StudentID = principal.ID
	case models.RoleTutor:
		filter.TutorID = principal.ID
	}
	enrollments, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list enrollments")
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
	return enrollments, pagination, nil
}

// Get returns one enrollment.
func (s *EnrollmentService) Get(ctx context.Context, id string) (*models.Enrollment, error) {
	enrollment, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "enrollment not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load enrollment")
	}
	return enrollment, nil
}

// Enroll registers a student with a tutor for a service. When the request
// carries a sale block the first sale is created in the same flow.
func (s *EnrollmentService) Enroll(ctx context.Context, req EnrollStudentRequest) (*models.Enrollment, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid enrollment payload")
	}
	if req.Sale != nil && s.sales == nil {
		return nil, appErrors.Clone(appErrors.ErrInternal, "sale creation is not configured")
	}

	if ok, err := s.directory.StudentExists(ctx, req.StudentID); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	} else if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
	}
	if ok, err := s.directory.TutorExists(ctx, req.TutorID); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load tutor")
	} else if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "tutor not found")
	}
	if ok, err := s.directory.ServiceExists(ctx, req.ServiceID); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load service")
	} else if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "service not found")
	}

	exists, err := s.repo.ExistsActive(ctx, req.StudentID, req.TutorID, req.ServiceID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to validate enrollment")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "student already has an active enrollment for this tutor and service")
	}

	enrollment := &models.Enrollment{
		StudentID: req.StudentID,
		TutorID:   req.TutorID,
		ServiceID: req.ServiceID,
		Status:    models.EnrollmentStatusActive,
		Notes:     req.Notes,
	}
	if req.Date != nil {
		enrollment.EnrollmentDate = *req.Date
	}
	if err := s.repo.Create(ctx, enrollment); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create enrollment")
	}

	if req.Sale != nil {
		// The enrollment is kept when the sale fails; billing can be
		// created manually afterwards.
		if _, err := s.sales.Create(ctx, CreateSaleRequest{
			EnrollmentID:  enrollment.ID,
			SaleType:      req.Sale.SaleType,
			TotalAmount:   req.Sale.TotalAmount,
			BillingPeriod: req.Sale.BillingPeriod,
			DueDate:       req.Sale.DueDate,
		}); err != nil {
			s.logger.Error("enrollment sale creation failed",
				zap.String("enrollment_id", enrollment.ID),
				zap.Error(err))
			return nil, err
		}
	}
	return enrollment, nil
}

// Withdraw marks an enrollment as withdrawn. History is never deleted.
func (s *EnrollmentService) Withdraw(ctx context.Context, id string) (*models.Enrollment, error) {
	return s.transition(ctx, id, models.EnrollmentStatusWithdrawn)
}

// Finish marks an enrollment as finished.
func (s *EnrollmentService) Finish(ctx context.Context, id string) (*models.Enrollment, error) {
	return s.transition(ctx, id, models.EnrollmentStatusFinished)
}

func (s *EnrollmentService) transition(ctx context.Context, id string, status models.EnrollmentStatus) (*models.Enrollment, error) {
	enrollment, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "enrollment not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load enrollment")
	}
	if enrollment.Status != models.EnrollmentStatusActive {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "enrollment is not active")
	}

	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update enrollment status")
	}
	enrollment.Status = status
	return enrollment, nil
}
