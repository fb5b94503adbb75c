package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/grupo16/tutoring-center-api/internal/models"
	appErrors "github.com/grupo16/tutoring-center-api/pkg/errors"
)

type mockAttendanceRepo struct {
	records map[string]models.Attendance
	dates   map[string]bool
	created *models.Attendance
	updated *models.Attendance
	deleted []string
}

// dateKey matches on the exact timestamp, like the equality the SQL check
// performs; the service is responsible for normalizing to the calendar day.
func dateKey(enrollmentID string, date time.Time) string {
	return enrollmentID + "|" + date.Format(time.RFC3339)
}

func (m *mockAttendanceRepo) List(ctx context.Context, filter models.AttendanceFilter) ([]models.AttendanceDetail, int, error) {
	return nil, 0, nil
}

func (m *mockAttendanceRepo) FindByID(ctx context.Context, id string) (*models.Attendance, error) {
	if r, ok := m.records[id]; ok {
		return &r, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockAttendanceRepo) FindDetailByID(ctx context.Context, id string) (*models.AttendanceDetail, error) {
	if r, ok := m.records[id]; ok {
		return &models.AttendanceDetail{Attendance: r}, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockAttendanceRepo) ExistsForDate(ctx context.Context, enrollmentID string, date time.Time) (bool, error) {
	return m.dates[dateKey(enrollmentID, date)], nil
}

func (m *mockAttendanceRepo) Create(ctx context.Context, record *models.Attendance) error {
	if m.records == nil {
		m.records = make(map[string]models.Attendance)
	}
	if m.dates == nil {
		m.dates = make(map[string]bool)
	}
	if record.ID == "" {
		record.ID = "att-new"
	}
	m.records[record.ID] = *record
	m.dates[dateKey(record.EnrollmentID, record.Date)] = true
	m.created = record
	return nil
}

func (m *mockAttendanceRepo) Update(ctx context.Context, record *models.Attendance) error {
	m.records[record.ID] = *record
	m.updated = record
	return nil
}

func (m *mockAttendanceRepo) Delete(ctx context.Context, id string) error {
	delete(m.records, id)
	m.deleted = append(m.deleted, id)
	return nil
}

type mockEnrollmentReader struct {
	enrollments map[string]models.Enrollment
}

func (m *mockEnrollmentReader) FindByID(ctx context.Context, id string) (*models.Enrollment, error) {
	if e, ok := m.enrollments[id]; ok {
		return &e, nil
	}
	return nil, sql.ErrNoRows
}

type mockAttendanceLicenseReader struct {
	licenses map[string]models.License
}

func (m *mockAttendanceLicenseReader) FindByAttendance(ctx context.Context, attendanceID string) (*models.License, error) {
	if l, ok := m.licenses[attendanceID]; ok {
		return &l, nil
	}
	return nil, sql.ErrNoRows
}

func activeEnrollments() *mockEnrollmentReader {
	return &mockEnrollmentReader{enrollments: map[string]models.Enrollment{
		"e1": {ID: "e1", StudentID: "s1", Status: models.EnrollmentStatusActive},
	}}
}

func TestAttendanceServiceRecord(t *testing.T) {
	repo := &mockAttendanceRepo{}
	svc := NewAttendanceService(repo, activeEnrollments(), &mockAttendanceLicenseReader{}, validator.New(), zap.NewNop())

	record, err := svc.Record(context.Background(), RecordAttendanceRequest{
		EnrollmentID: "e1",
		Date:         time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
		Status:       models.AttendanceStatusPresent,
	})
	require.NoError(t, err)
	assert.Equal(t, models.AttendanceStatusPresent, record.Status)
	assert.NotNil(t, repo.created)
}

func TestAttendanceServiceRecordDuplicateDate(t *testing.T) {
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	repo := &mockAttendanceRepo{dates: map[string]bool{dateKey("e1", day): true}}
	svc := NewAttendanceService(repo, activeEnrollments(), &mockAttendanceLicenseReader{}, validator.New(), zap.NewNop())

	_, err := svc.Record(context.Background(), RecordAttendanceRequest{
		EnrollmentID: "e1",
		Date:         day,
		Status:       models.AttendanceStatusPresent,
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrDuplicateKey.Code, appErrors.FromError(err).Code)
}

func TestAttendanceServiceRecordSameDayDifferentTime(t *testing.T) {
	repo := &mockAttendanceRepo{}
	svc := NewAttendanceService(repo, activeEnrollments(), &mockAttendanceLicenseReader{}, validator.New(), zap.NewNop())

	_, err := svc.Record(context.Background(), RecordAttendanceRequest{
		EnrollmentID: "e1",
		Date:         time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		Status:       models.AttendanceStatusPresent,
	})
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), repo.created.Date)

	_, err = svc.Record(context.Background(), RecordAttendanceRequest{
		EnrollmentID: "e1",
		Date:         time.Date(2026, 3, 1, 15, 0, 0, 0, time.UTC),
		Status:       models.AttendanceStatusLate,
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrDuplicateKey.Code, appErrors.FromError(err).Code)
}

func TestAttendanceServiceUpdateNormalizesDate(t *testing.T) {
	repo := &mockAttendanceRepo{records: map[string]models.Attendance{
		"a1": {ID: "a1", EnrollmentID: "e1", Status: models.AttendanceStatusPresent,
			Date: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)},
	}}
	svc := NewAttendanceService(repo, activeEnrollments(), &mockAttendanceLicenseReader{}, validator.New(), zap.NewNop())

	newDate := time.Date(2026, 3, 4, 15, 30, 0, 0, time.UTC)
	record, err := svc.Update(context.Background(), "a1", models.AttendancePatch{Date: &newDate})
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC), record.Date)
}

func TestAttendanceServiceRecordUnknownEnrollment(t *testing.T) {
	svc := NewAttendanceService(&mockAttendanceRepo{}, activeEnrollments(), &mockAttendanceLicenseReader{}, validator.New(), zap.NewNop())

	_, err := svc.Record(context.Background(), RecordAttendanceRequest{
		EnrollmentID: "missing",
		Date:         time.Now(),
		Status:       models.AttendanceStatusPresent,
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestAttendanceServiceUpdateBlockedByLicense(t *testing.T) {
	repo := &mockAttendanceRepo{records: map[string]models.Attendance{
		"a1": {ID: "a1", EnrollmentID: "e1", Status: models.AttendanceStatusAbsent},
	}}
	licenses := &mockAttendanceLicenseReader{licenses: map[string]models.License{
		"a1": {ID: "l1", AttendanceID: "a1", Status: models.LicenseStatusPending},
	}}
	svc := NewAttendanceService(repo, activeEnrollments(), licenses, validator.New(), zap.NewNop())

	present := models.AttendanceStatusPresent
	_, err := svc.Update(context.Background(), "a1", models.AttendancePatch{Status: &present})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrPreconditionFailed.Code, appErrors.FromError(err).Code)
}

func TestAttendanceServiceUpdateAllowedAfterRejectedLicense(t *testing.T) {
	repo := &mockAttendanceRepo{records: map[string]models.Attendance{
		"a1": {ID: "a1", EnrollmentID: "e1", Status: models.AttendanceStatusAbsent},
	}}
	licenses := &mockAttendanceLicenseReader{licenses: map[string]models.License{
		"a1": {ID: "l1", AttendanceID: "a1", Status: models.LicenseStatusRejected},
	}}
	svc := NewAttendanceService(repo, activeEnrollments(), licenses, validator.New(), zap.NewNop())

	present := models.AttendanceStatusPresent
	record, err := svc.Update(context.Background(), "a1", models.AttendancePatch{Status: &present})
	require.NoError(t, err)
	assert.Equal(t, models.AttendanceStatusPresent, record.Status)
}

func TestAttendanceServiceDeleteBlockedByLicense(t *testing.T) {
	repo := &mockAttendanceRepo{records: map[string]models.Attendance{
		"a1": {ID: "a1", EnrollmentID: "e1", Status: models.AttendanceStatusAbsent},
	}}
	licenses := &mockAttendanceLicenseReader{licenses: map[string]models.License{
		"a1": {ID: "l1", AttendanceID: "a1", Status: models.LicenseStatusPending},
	}}
	svc := NewAttendanceService(repo, activeEnrollments(), licenses, validator.New(), zap.NewNop())

	err := svc.Delete(context.Background(), "a1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
	assert.Empty(t, repo.deleted)
}

func TestAttendanceServiceDelete(t *testing.T) {
	repo := &mockAttendanceRepo{records: map[string]models.Attendance{
		"a1": {ID: "a1", EnrollmentID: "e1", Status: models.AttendanceStatusPresent},
	}}
	svc := NewAttendanceService(repo, activeEnrollments(), &mockAttendanceLicenseReader{}, validator.New(), zap.NewNop())

	require.NoError(t, svc.Delete(context.Background(), "a1"))
	assert.Contains(t, repo.deleted, "a1")
}
