package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/grupo16/tutoring-center-api/internal/models"
	appErrors "github.com/grupo16/tutoring-center-api/pkg/errors"
)

type mockLicenseRepo struct {
	licenses       map[string]models.License
	byAttendance   map[string]bool
	reprogrammings map[string]bool
	created        *models.License
	deleted        []string
}

func (m *mockLicenseRepo) List(ctx context.Context, filter models.LicenseFilter) ([]models.LicenseDetail, int, error) {
	return nil, 0, nil
}

func (m *mockLicenseRepo) FindByID(ctx context.Context, id string) (*models.License, error) {
	if l, ok := m.licenses[id]; ok {
		return &l, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockLicenseRepo) ExistsForAttendance(ctx context.Context, attendanceID string) (bool, error) {
	return m.byAttendance[attendanceID], nil
}

func (m *mockLicenseRepo) Create(ctx context.Context, license *models.License) error {
	if m.licenses == nil {
		m.licenses = make(map[string]models.License)
	}
	if license.ID == "" {
		license.ID = "lic-new"
	}
	m.licenses[license.ID] = *license
	m.created = license
	return nil
}

func (m *mockLicenseRepo) UpdateStatusFromPending(ctx context.Context, id string, status models.LicenseStatus) (bool, error) {
	l, ok := m.licenses[id]
	if !ok || l.Status != models.LicenseStatusPending {
		return false, nil
	}
	l.Status = status
	m.licenses[id] = l
	return true, nil
}

func (m *mockLicenseRepo) HasReprogrammings(ctx context.Context, id string) (bool, error) {
	return m.reprogrammings[id], nil
}

func (m *mockLicenseRepo) Delete(ctx context.Context, id string) error {
	delete(m.licenses, id)
	m.deleted = append(m.deleted, id)
	return nil
}

type mockAttendanceReader struct {
	records map[string]models.Attendance
}

func (m *mockAttendanceReader) FindByID(ctx context.Context, id string) (*models.Attendance, error) {
	if r, ok := m.records[id]; ok {
		return &r, nil
	}
	return nil, sql.ErrNoRows
}

func absentAttendance() *mockAttendanceReader {
	return &mockAttendanceReader{records: map[string]models.Attendance{
		"a1": {ID: "a1", EnrollmentID: "e1", Status: models.AttendanceStatusAbsent},
		"a2": {ID: "a2", EnrollmentID: "e1", Status: models.AttendanceStatusPresent},
	}}
}

func TestLicenseServiceRequest(t *testing.T) {
	repo := &mockLicenseRepo{}
	svc := NewLicenseService(repo, absentAttendance(), validator.New(), zap.NewNop())

	license, err := svc.Request(context.Background(), RequestLicenseRequest{AttendanceID: "a1", Reason: "medical appointment"})
	require.NoError(t, err)
	assert.Equal(t, models.LicenseStatusPending, license.Status)
	assert.NotNil(t, repo.created)
}

func TestLicenseServiceRequestRequiresAbsence(t *testing.T) {
	svc := NewLicenseService(&mockLicenseRepo{}, absentAttendance(), validator.New(), zap.NewNop())

	_, err := svc.Request(context.Background(), RequestLicenseRequest{AttendanceID: "a2", Reason: "medical appointment"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrPreconditionFailed.Code, appErrors.FromError(err).Code)
}

func TestLicenseServiceRequestDuplicate(t *testing.T) {
	repo := &mockLicenseRepo{byAttendance: map[string]bool{"a1": true}}
	svc := NewLicenseService(repo, absentAttendance(), validator.New(), zap.NewNop())

	_, err := svc.Request(context.Background(), RequestLicenseRequest{AttendanceID: "a1", Reason: "medical appointment"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

func TestLicenseServiceApprove(t *testing.T) {
	repo := &mockLicenseRepo{licenses: map[string]models.License{
		"l1": {ID: "l1", AttendanceID: "a1", Status: models.LicenseStatusPending},
	}}
	svc := NewLicenseService(repo, absentAttendance(), validator.New(), zap.NewNop())

	license, err := svc.Approve(context.Background(), "l1")
	require.NoError(t, err)
	assert.Equal(t, models.LicenseStatusApproved, license.Status)
}

func TestLicenseServiceApproveTwice(t *testing.T) {
	repo := &mockLicenseRepo{licenses: map[string]models.License{
		"l1": {ID: "l1", AttendanceID: "a1", Status: models.LicenseStatusPending},
	}}
	svc := NewLicenseService(repo, absentAttendance(), validator.New(), zap.NewNop())

	_, err := svc.Approve(context.Background(), "l1")
	require.NoError(t, err)

	_, err = svc.Reject(context.Background(), "l1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrPreconditionFailed.Code, appErrors.FromError(err).Code)
}

func TestLicenseServiceDeleteBlockedByReprogramming(t *testing.T) {
	repo := &mockLicenseRepo{
		licenses:       map[string]models.License{"l1": {ID: "l1", Status: models.LicenseStatusApproved}},
		reprogrammings: map[string]bool{"l1": true},
	}
	svc := NewLicenseService(repo, absentAttendance(), validator.New(), zap.NewNop())

	err := svc.Delete(context.Background(), "l1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
	assert.Empty(t, repo.deleted)
}
