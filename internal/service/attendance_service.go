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

type attendanceRepository interface {
	List(ctx context.Context, filter models.AttendanceFilter) ([]models.AttendanceDetail, int, error)
	FindByID(ctx context.Context, id string) (*models.Attendance, error)
	FindDetailByID(ctx context.Context, id string) (*models.AttendanceDetail, error)
	ExistsForDate(ctx context.Context, enrollmentID string, date time.Time) (bool, error)
	Create(ctx context.Context, record *models.Attendance) error
	Update(ctx context.Context, record *models.Attendance) error
	Delete(ctx context.Context, id string) error
}

type enrollmentReader interface {
	FindByID(ctx context.Context, id string) (*models.Enrollment, error)
}

type attendanceLicenseReader interface {
	FindByAttendance(ctx context.Context, attendanceID string) (*models.License, error)
}

// RecordAttendanceRequest describes an attendance creation payload.
type RecordAttendanceRequest struct {
	EnrollmentID string                  `json:"enrollment_id" validate:"required"`
	Date         time.Time               `json:"date" validate:"required"`
	Status       models.AttendanceStatus `json:"status" validate:"required"`
	Notes        *string                 `json:"notes,omitempty"`
}

// AttendanceService orchestrates the attendance workflow.
type AttendanceService struct {
	repo        attendanceRepository
	enrollments enrollmentReader
	licenses    attendanceLicenseReader
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewAttendanceService constructs AttendanceService.
func NewAttendanceService(repo attendanceRepository, enrollments enrollmentReader, licenses attendanceLicenseReader, validate *validator.Validate, logger *zap.Logger) *AttendanceService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AttendanceService{repo: repo, enrollments: enrollments, licenses: licenses, validator: validate, logger: logger}
}

// calendarDate strips the time-of-day component so the one-record-per-day
// invariant holds no matter how the client formatted the date.
func calendarDate(t time.Time) time.Time {
	year, month, day := t.UTC().Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// List returns attendance records with pagination metadata.
func (s *AttendanceService) List(ctx context.Context, filter models.AttendanceFilter) ([]models.AttendanceDetail, *models.Pagination, error) {
	records, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list attendance")
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
	return records, pagination, nil
}

// Get returns one attendance record with contextual names.
func (s *AttendanceService) Get(ctx context.Context, id string) (*models.AttendanceDetail, error) {
	detail, err := s.repo.FindDetailByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "attendance record not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load attendance")
	}
	return detail, nil
}

// Record registers one attendance entry per enrollment per calendar date.
func (s *AttendanceService) Record(ctx context.Context, req RecordAttendanceRequest) (*models.Attendance, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid attendance payload")
	}
	if !req.Status.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown attendance status")
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

	date := calendarDate(req.Date)
	exists, err := s.repo.ExistsForDate(ctx, req.EnrollmentID, date)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to validate attendance date")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrDuplicateKey, "attendance already recorded for this enrollment and date")
	}

	record := &models.Attendance{
		EnrollmentID: req.EnrollmentID,
		Date:         date,
		Status:       req.Status,
		Notes:        req.Notes,
	}
	if err := s.repo.Create(ctx, record); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create attendance")
	}
	return record, nil
}

// Update applies a partial update. Once a license exists for the record the
// status stays "ausente" until the license is rejected, so the justification
// chain cannot be invalidated from the attendance side.
func (s *AttendanceService) Update(ctx context.Context, id string, patch models.AttendancePatch) (*models.Attendance, error) {
	record, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "attendance record not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load attendance")
	}

	if patch.Status != nil {
		if !patch.Status.Valid() {
			return nil, appErrors.Clone(appErrors.ErrValidation, "unknown attendance status")
		}
		if *patch.Status != models.AttendanceStatusAbsent {
			license, err := s.licenses.FindByAttendance(ctx, id)
			if err != nil && !errors.Is(err, sql.ErrNoRows) {
				return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load license")
			}
			if license != nil && license.Status != models.LicenseStatusRejected {
				return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "attendance has an active license and must stay absent")
			}
		}
		record.Status = *patch.Status
	}
	if patch.Date != nil {
		date := calendarDate(*patch.Date)
		exists, err := s.repo.ExistsForDate(ctx, record.EnrollmentID, date)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to validate attendance date")
		}
		if exists && !date.Equal(calendarDate(record.Date)) {
			return nil, appErrors.Clone(appErrors.ErrDuplicateKey, "attendance already recorded for this enrollment and date")
		}
		record.Date = date
	}
	if patch.Notes != nil {
		record.Notes = patch.Notes
	}

	if err := s.repo.Update(ctx, record); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update attendance")
	}
	return record, nil
}

// Delete removes an attendance record unless a license references it.
func (s *AttendanceService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "attendance record not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load attendance")
	}

	license, err := s.licenses.FindByAttendance(ctx, id)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load license")
	}
	if license != nil {
		return appErrors.Clone(appErrors.ErrConflict, "attendance has a license and cannot be deleted")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete attendance")
	}
	return nil
}
