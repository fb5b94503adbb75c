package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/grupo16/tutoring-center-api/internal/models"
	appErrors "github.com/grupo16/tutoring-center-api/pkg/errors"
)

type licenseRepository interface {
	List(ctx context.Context, filter models.LicenseFilter) ([]models.LicenseDetail, int, error)
	FindByID(ctx context.Context, id string) (*models.License, error)
	ExistsForAttendance(ctx context.Context, attendanceID string) (bool, error)
	Create(ctx context.Context, license *models.License) error
	UpdateStatusFromPending(ctx context.Context, id string, status models.LicenseStatus) (bool, error)
	HasReprogrammings(ctx context.Context, id string) (bool, error)
	Delete(ctx context.Context, id string) error
}

type attendanceReader interface {
	FindByID(ctx context.Context, id string) (*models.Attendance, error)
}

// RequestLicenseRequest describes an absence-justification payload.
type RequestLicenseRequest struct {
	AttendanceID string `json:"attendance_id" validate:"required"`
	Reason       string `json:"reason" validate:"required,min=3"`
}

// LicenseService orchestrates the absence-justification workflow.
type LicenseService struct {
	repo       licenseRepository
	attendance attendanceReader
	validator  *validator.Validate
	logger     *zap.Logger
}

// NewLicenseService constructs LicenseService.
func NewLicenseService(repo licenseRepository, attendance attendanceReader, validate *validator.Validate, logger *zap.Logger) *LicenseService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LicenseService{repo: repo, attendance: attendance, validator: validate, logger: logger}
}

// List returns licenses with pagination metadata.
func (s *LicenseService) List(ctx context.Context, filter models.LicenseFilter) ([]models.LicenseDetail, *models.Pagination, error) {
	licenses, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list licenses")
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
	return licenses, pagination, nil
}

// Get returns one license.
func (s *LicenseService) Get(ctx context.Context, id string) (*models.License, error) {
	license, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "license not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load license")
	}
	return license, nil
}

// Request opens a pending license for an absent attendance record.
func (s *LicenseService) Request(ctx context.Context, req RequestLicenseRequest) (*models.License, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid license payload")
	}

	attendance, err := s.attendance.FindByID(ctx, req.AttendanceID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "attendance record not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load attendance")
	}
	if attendance.Status != models.AttendanceStatusAbsent {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "only absences can be justified")
	}

	exists, err := s.repo.ExistsForAttendance(ctx, req.AttendanceID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to validate license")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "attendance already has a license")
	}

	license := &models.License{
		AttendanceID: req.AttendanceID,
		Reason:       req.Reason,
		Status:       models.LicenseStatusPending,
	}
	if err := s.repo.Create(ctx, license); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create license")
	}
	return license, nil
}

// Approve moves a pending license to approved.
func (s *LicenseService) Approve(ctx context.Context, id string) (*models.License, error) {
	return s.review(ctx, id, models.LicenseStatusApproved)
}

// Reject moves a pending license to rejected.
func (s *LicenseService) Reject(ctx context.Context, id string) (*models.License, error) {
	return s.review(ctx, id, models.LicenseStatusRejected)
}

func (s *LicenseService) review(ctx context.Context, id string, status models.LicenseStatus) (*models.License, error) {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "license not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load license")
	}

	moved, err := s.repo.UpdateStatusFromPending(ctx, id, status)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update license status")
	}
	if !moved {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "license has already been reviewed")
	}

	license, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to reload license")
	}
	return license, nil
}

// Delete removes a license unless a reprogramming references it.
func (s *LicenseService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "license not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load license")
	}

	referenced, err := s.repo.HasReprogrammings(ctx, id)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to validate license")
	}
	if referenced {
		return appErrors.Clone(appErrors.ErrConflict, "license has reprogrammings and cannot be deleted")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete license")
	}
	return nil
}
