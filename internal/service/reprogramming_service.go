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

type reprogrammingRepository interface {
	List(ctx context.Context, filter models.ReprogrammingFilter) ([]models.Reprogramming, int, error)
	FindByID(ctx context.Context, id string) (*models.Reprogramming, error)
	Create(ctx context.Context, item *models.Reprogramming) error
	MarkDone(ctx context.Context, id string) (bool, error)
	Cancel(ctx context.Context, id string) (bool, error)
	Delete(ctx context.Context, id string) error
}

type licenseReader interface {
	FindByID(ctx context.Context, id string) (*models.License, error)
}

// ScheduleMakeupRequest describes a reprogramming creation payload. The
// original date defaults to the date of the justified absence.
type ScheduleMakeupRequest struct {
	LicenseID    string     `json:"license_id" validate:"required"`
	OriginalDate *time.Time `json:"original_date,omitempty"`
	NewDate      time.Time  `json:"new_date" validate:"required"`
	Notes        *string    `json:"notes,omitempty"`
}

// ReprogrammingService orchestrates makeup-class scheduling.
type ReprogrammingService struct {
	repo       reprogrammingRepository
	licenses   licenseReader
	attendance attendanceReader
	validator  *validator.Validate
	logger     *zap.Logger
}

// NewReprogrammingService constructs ReprogrammingService.
func NewReprogrammingService(repo reprogrammingRepository, licenses licenseReader, attendance attendanceReader, validate *validator.Validate, logger *zap.Logger) *ReprogrammingService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReprogrammingService{repo: repo, licenses: licenses, attendance: attendance, validator: validate, logger: logger}
}

// List returns reprogrammings with pagination metadata.
func (s *ReprogrammingService) List(ctx context.Context, filter models.ReprogrammingFilter) ([]models.Reprogramming, *models.Pagination, error) {
	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list reprogrammings")
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
	return items, pagination, nil
}

// Get returns one reprogramming.
func (s *ReprogrammingService) Get(ctx context.Context, id string) (*models.Reprogramming, error) {
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "reprogramming not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load reprogramming")
	}
	return item, nil
}

// Schedule creates a makeup class for an approved license.
func (s *ReprogrammingService) Schedule(ctx context.Context, req ScheduleMakeupRequest) (*models.Reprogramming, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid reprogramming payload")
	}

	license, err := s.licenses.FindByID(ctx, req.LicenseID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "license not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load license")
	}
	if license.Status != models.LicenseStatusApproved {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "license must be approved before scheduling a makeup class")
	}

	originalDate := req.OriginalDate
	if originalDate == nil {
		attendance, err := s.attendance.FindByID(ctx, license.AttendanceID)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load attendance")
		}
		originalDate = &attendance.Date
	}
	if !req.NewDate.After(*originalDate) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "new date must be after the original date")
	}

	item := &models.Reprogramming{
		LicenseID:    req.LicenseID,
		OriginalDate: *originalDate,
		NewDate:      req.NewDate,
		Status:       models.ReprogrammingStatusScheduled,
		Notes:        req.Notes,
	}
	if err := s.repo.Create(ctx, item); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create reprogramming")
	}
	return item, nil
}

// MarkDone completes a scheduled makeup class and recovers the absence.
func (s *ReprogrammingService) MarkDone(ctx context.Context, id string) (*models.Reprogramming, error) {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "reprogramming not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load reprogramming")
	}

	done, err := s.repo.MarkDone(ctx, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to complete reprogramming")
	}
	if !done {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "reprogramming is not in the scheduled state")
	}

	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to reload reprogramming")
	}
	return item, nil
}

// Cancel aborts a scheduled makeup class.
func (s *ReprogrammingService) Cancel(ctx context.Context, id string) (*models.Reprogramming, error) {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "reprogramming not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load reprogramming")
	}

	cancelled, err := s.repo.Cancel(ctx, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to cancel reprogramming")
	}
	if !cancelled {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "reprogramming is not in the scheduled state")
	}

	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to reload reprogramming")
	}
	return item, nil
}

// Delete removes a reprogramming unless it was already completed.
func (s *ReprogrammingService) Delete(ctx context.Context, id string) error {
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "reprogramming not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load reprogramming")
	}
	if item.Status == models.ReprogrammingStatusDone {
		return appErrors.Clone(appErrors.ErrConflict, "completed reprogrammings cannot be deleted")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete reprogramming")
	}
	return nil
}
