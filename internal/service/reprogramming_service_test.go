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

type mockReprogrammingRepo struct {
	items   map[string]models.Reprogramming
	created *models.Reprogramming
	deleted []string
}

func (m *mockReprogrammingRepo) List(ctx context.Context, filter models.ReprogrammingFilter) ([]models.Reprogramming, int, error) {
	return nil, 0, nil
}

func (m *mockReprogrammingRepo) FindByID(ctx context.Context, id string) (*models.Reprogramming, error) {
	if item, ok := m.items[id]; ok {
		return &item, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockReprogrammingRepo) Create(ctx context.Context, item *models.Reprogramming) error {
	if m.items == nil {
		m.items = make(map[string]models.Reprogramming)
	}
	if item.ID == "" {
		item.ID = "rep-new"
	}
	m.items[item.ID] = *item
	m.created = item
	return nil
}

func (m *mockReprogrammingRepo) MarkDone(ctx context.Context, id string) (bool, error) {
	item, ok := m.items[id]
	if !ok || item.Status != models.ReprogrammingStatusScheduled {
		return false, nil
	}
	item.Status = models.ReprogrammingStatusDone
	m.items[id] = item
	return true, nil
}

func (m *mockReprogrammingRepo) Cancel(ctx context.Context, id string) (bool, error) {
	item, ok := m.items[id]
	if !ok || item.Status != models.ReprogrammingStatusScheduled {
		return false, nil
	}
	item.Status = models.ReprogrammingStatusCancelled
	m.items[id] = item
	return true, nil
}

func (m *mockReprogrammingRepo) Delete(ctx context.Context, id string) error {
	delete(m.items, id)
	m.deleted = append(m.deleted, id)
	return nil
}

type mockLicenseReader struct {
	licenses map[string]models.License
}

func (m *mockLicenseReader) FindByID(ctx context.Context, id string) (*models.License, error) {
	if l, ok := m.licenses[id]; ok {
		return &l, nil
	}
	return nil, sql.ErrNoRows
}

func makeupFixtures() (*mockLicenseReader, *mockAttendanceReader) {
	licenses := &mockLicenseReader{licenses: map[string]models.License{
		"l-approved": {ID: "l-approved", AttendanceID: "a1", Status: models.LicenseStatusApproved},
		"l-pending":  {ID: "l-pending", AttendanceID: "a1", Status: models.LicenseStatusPending},
	}}
	attendance := &mockAttendanceReader{records: map[string]models.Attendance{
		"a1": {ID: "a1", Date: time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC), Status: models.AttendanceStatusAbsent},
	}}
	return licenses, attendance
}

func TestReprogrammingServiceSchedule(t *testing.T) {
	repo := &mockReprogrammingRepo{}
	licenses, attendance := makeupFixtures()
	svc := NewReprogrammingService(repo, licenses, attendance, validator.New(), zap.NewNop())

	item, err := svc.Schedule(context.Background(), ScheduleMakeupRequest{
		LicenseID: "l-approved",
		NewDate:   time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.Equal(t, models.ReprogrammingStatusScheduled, item.Status)
	assert.Equal(t, time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC), item.OriginalDate)
}

func TestReprogrammingServiceScheduleRequiresApprovedLicense(t *testing.T) {
	licenses, attendance := makeupFixtures()
	svc := NewReprogrammingService(&mockReprogrammingRepo{}, licenses, attendance, validator.New(), zap.NewNop())

	_, err := svc.Schedule(context.Background(), ScheduleMakeupRequest{
		LicenseID: "l-pending",
		NewDate:   time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC),
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrPreconditionFailed.Code, appErrors.FromError(err).Code)
}

func TestReprogrammingServiceScheduleRejectsPastDate(t *testing.T) {
	licenses, attendance := makeupFixtures()
	svc := NewReprogrammingService(&mockReprogrammingRepo{}, licenses, attendance, validator.New(), zap.NewNop())

	_, err := svc.Schedule(context.Background(), ScheduleMakeupRequest{
		LicenseID: "l-approved",
		NewDate:   time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestReprogrammingServiceMarkDoneTwice(t *testing.T) {
	repo := &mockReprogrammingRepo{items: map[string]models.Reprogramming{
		"r1": {ID: "r1", LicenseID: "l-approved", Status: models.ReprogrammingStatusScheduled},
	}}
	licenses, attendance := makeupFixtures()
	svc := NewReprogrammingService(repo, licenses, attendance, validator.New(), zap.NewNop())

	item, err := svc.MarkDone(context.Background(), "r1")
	require.NoError(t, err)
	assert.Equal(t, models.ReprogrammingStatusDone, item.Status)

	_, err = svc.MarkDone(context.Background(), "r1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrPreconditionFailed.Code, appErrors.FromError(err).Code)
}

func TestReprogrammingServiceCancelAfterDone(t *testing.T) {
	repo := &mockReprogrammingRepo{items: map[string]models.Reprogramming{
		"r1": {ID: "r1", LicenseID: "l-approved", Status: models.ReprogrammingStatusDone},
	}}
	licenses, attendance := makeupFixtures()
	svc := NewReprogrammingService(repo, licenses, attendance, validator.New(), zap.NewNop())

	_, err := svc.Cancel(context.Background(), "r1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrPreconditionFailed.Code, appErrors.FromError(err).Code)
}

func TestReprogrammingServiceDeleteCompleted(t *testing.T) {
	repo := &mockReprogrammingRepo{items: map[string]models.Reprogramming{
		"r1": {ID: "r1", LicenseID: "l-approved", Status: models.ReprogrammingStatusDone},
	}}
	licenses, attendance := makeupFixtures()
	svc := NewReprogrammingService(repo, licenses, attendance, validator.New(), zap.NewNop())

	err := svc.Delete(context.Background(), "r1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
	assert.Empty(t, repo.deleted)
}
