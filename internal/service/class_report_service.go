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

type classReportRepository interface {
	List(ctx context.Context, filter models.ClassReportFilter) ([]models.ClassReport, int, error)
	FindByID(ctx context.Context, id string) (*models.ClassReport, error)
	ExistsForDate(ctx context.Context, enrollmentID string, date time.Time) (bool, error)
	Create(ctx context.Context, report *models.ClassReport) error
}

// CreateClassReportRequest describes a class report payload.
type CreateClassReportRequest struct {
	EnrollmentID     string    `json:"enrollment_id" validate:"required"`
	Date             time.Time `json:"date" validate:"required"`
	TopicsCovered    string    `json:"topics_covered" validate:"required"`
	AssignedHomework *string   `json:"assigned_homework,omitempty"`
	Comprehension    *string   `json:"comprehension,omitempty"`
	Participation    *string   `json:"participation,omitempty"`
	Grade            *float64  `json:"grade,omitempty" validate:"omitempty,gte=0,lte=100"`
	Summary          *string   `json:"summary,omitempty"`
	Notes            *string   `json:"notes,omitempty"`
}

// ClassReportService manages per-session tutor reports.
type ClassReportService struct {
	repo        classReportRepository
	enrollments enrollmentReader
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewClassReportService constructs ClassReportService.
func NewClassReportService(repo classReportRepository, enrollments enrollmentReader, validate *validator.Validate, logger *zap.Logger) *ClassReportService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ClassReportService{repo: repo, enrollments: enrollments, validator: validate, logger: logger}
}

// List returns class reports with pagination metadata. Tutors only see
// reports of their own enrollments.
func (s *ClassReportService) List(ctx context.Context, principal models.Principal, filter models.ClassReportFilter) ([]models.ClassReport, *models.Pagination, error) {
	if principal.Role == models.RoleTutor {
		filter.TutorID = principal.ID
	}
	reports, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list class reports")
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
	return reports, pagination, nil
}

// Get returns one class report.
func (s *ClassReportService) Get(ctx context.Context, id string) (*models.ClassReport, error) {
	report, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "class report not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load class report")
	}
	return report, nil
}

// Create registers one report per enrollment per session date.
func (s *ClassReportService) Create(ctx context.Context, req CreateClassReportRequest) (*models.ClassReport, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid class report payload")
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

	exists, err := s.repo.ExistsForDate(ctx, req.EnrollmentID, req.Date)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to validate report date")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrDuplicateKey, "a report already exists for this enrollment and date")
	}

	report := &models.ClassReport{
		EnrollmentID:     req.EnrollmentID,
		Date:             req.Date,
		TopicsCovered:    req.TopicsCovered,
		AssignedHomework: req.AssignedHomework,
		Comprehension:    req.Comprehension,
		Participation:    req.Participation,
		Grade:            req.Grade,
		Summary:          req.Summary,
		Notes:            req.Notes,
	}
	if err := s.repo.Create(ctx, report); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create class report")
	}
	return report, nil
}
