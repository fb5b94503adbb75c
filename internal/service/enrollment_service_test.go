package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/grupo16/tutoring-center-api/internal/models"
	appErrors "github.com/grupo16/tutoring-center-api/pkg/errors"
)

type mockEnrollmentRepo struct {
	enrollments map[string]*models.Enrollment
	active      map[string]bool
	lastFilter  models.EnrollmentFilter
}

func (m *mockEnrollmentRepo) List(ctx context.Context, filter models.EnrollmentFilter) ([]models.EnrollmentDetail, int, error) {
	m.lastFilter = filter
	return nil, 0, nil
}

func (m *mockEnrollmentRepo) FindByID(ctx context.Context, id string) (*models.Enrollment, error) {
	enrollment, ok := m.enrollments[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *enrollment
	return &copied, nil
}

func (m *mockEnrollmentRepo) ExistsActive(ctx context.Context, studentID, tutorID, serviceID string) (bool, error) {
	return m.active[studentID+tutorID+serviceID], nil
}

func (m *mockEnrollmentRepo) Create(ctx context.Context, enrollment *models.Enrollment) error {
	enrollment.ID = "e-new"
	if m.enrollments == nil {
		m.enrollments = map[string]*models.Enrollment{}
	}
	m.enrollments[enrollment.ID] = enrollment
	return nil
}

func (m *mockEnrollmentRepo) UpdateStatus(ctx context.Context, id string, status models.EnrollmentStatus) error {
	m.enrollments[id].Status = status
	return nil
}

type mockDirectory struct {
	students map[string]bool
	tutors   map[string]bool
	services map[string]bool
}

func (m *mockDirectory) StudentExists(ctx context.Context, id string) (bool, error) {
	return m.students[id], nil
}

func (m *mockDirectory) TutorExists(ctx context.Context, id string) (bool, error) {
	return m.tutors[id], nil
}

func (m *mockDirectory) ServiceExists(ctx context.Context, id string) (bool, error) {
	return m.services[id], nil
}

type mockSaleCreator struct {
	created []CreateSaleRequest
}

func (m *mockSaleCreator) Create(ctx context.Context, req CreateSaleRequest) (*models.Sale, error) {
	m.created = append(m.created, req)
	return &models.Sale{
		ID:             "sale-new",
		EnrollmentID:   req.EnrollmentID,
		TotalAmount:    req.TotalAmount,
		PendingBalance: req.TotalAmount,
		Status:         models.SaleStatusPending,
	}, nil
}

func fullDirectory() *mockDirectory {
	return &mockDirectory{
		students: map[string]bool{"s1": true},
		tutors:   map[string]bool{"t1": true},
		services: map[string]bool{"svc1": true},
	}
}

func TestEnrollmentServiceEnroll(t *testing.T) {
	repo := &mockEnrollmentRepo{}
	svc := NewEnrollmentService(repo, fullDirectory(), nil, zap.NewNop())

	enrollment, err := svc.Enroll(context.Background(), EnrollStudentRequest{
		StudentID: "s1", TutorID: "t1", ServiceID: "svc1",
	})
	require.NoError(t, err)
	require.Equal(t, models.EnrollmentStatusActive, enrollment.Status)
	require.Equal(t, "e-new", enrollment.ID)
}

func TestEnrollmentServiceEnrollSpawnsSale(t *testing.T) {
	repo := &mockEnrollmentRepo{}
	sales := &mockSaleCreator{}
	svc := NewEnrollmentService(repo, fullDirectory(), nil, zap.NewNop()).WithSales(sales)

	enrollment, err := svc.Enroll(context.Background(), EnrollStudentRequest{
		StudentID: "s1", TutorID: "t1", ServiceID: "svc1",
		Sale: &EnrollmentSaleRequest{
			SaleType:      "mensualidad",
			TotalAmount:   400,
			BillingPeriod: "2026-03",
		},
	})
	require.NoError(t, err)
	require.Len(t, sales.created, 1)
	require.Equal(t, enrollment.ID, sales.created[0].EnrollmentID)
	require.Equal(t, 400.0, sales.created[0].TotalAmount)
	require.Equal(t, "2026-03", sales.created[0].BillingPeriod)
}

func TestEnrollmentServiceEnrollWithoutSaleBlock(t *testing.T) {
	sales := &mockSaleCreator{}
	svc := NewEnrollmentService(&mockEnrollmentRepo{}, fullDirectory(), nil, zap.NewNop()).WithSales(sales)

	_, err := svc.Enroll(context.Background(), EnrollStudentRequest{
		StudentID: "s1", TutorID: "t1", ServiceID: "svc1",
	})
	require.NoError(t, err)
	require.Empty(t, sales.created)
}

func TestEnrollmentServiceEnrollSaleRequiresConfiguration(t *testing.T) {
	svc := NewEnrollmentService(&mockEnrollmentRepo{}, fullDirectory(), nil, zap.NewNop())

	_, err := svc.Enroll(context.Background(), EnrollStudentRequest{
		StudentID: "s1", TutorID: "t1", ServiceID: "svc1",
		Sale: &EnrollmentSaleRequest{
			SaleType:      "mensualidad",
			TotalAmount:   400,
			BillingPeriod: "2026-03",
		},
	})
	require.Error(t, err)
	require.Equal(t, appErrors.ErrInternal.Code, appErrors.FromError(err).Code)
}

func TestEnrollmentServiceEnrollUnknownStudent(t *testing.T) {
	svc := NewEnrollmentService(&mockEnrollmentRepo{}, fullDirectory(), nil, zap.NewNop())

	_, err := svc.Enroll(context.Background(), EnrollStudentRequest{
		StudentID: "ghost", TutorID: "t1", ServiceID: "svc1",
	})
	require.Error(t, err)
	require.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestEnrollmentServiceEnrollDuplicateActive(t *testing.T) {
	repo := &mockEnrollmentRepo{active: map[string]bool{"s1t1svc1": true}}
	svc := NewEnrollmentService(repo, fullDirectory(), nil, zap.NewNop())

	_, err := svc.Enroll(context.Background(), EnrollStudentRequest{
		StudentID: "s1", TutorID: "t1", ServiceID: "svc1",
	})
	require.Error(t, err)
	require.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

func TestEnrollmentServiceListScopesStudents(t *testing.T) {
	repo := &mockEnrollmentRepo{}
	svc := NewEnrollmentService(repo, fullDirectory(), nil, zap.NewNop())

	_, _, err := svc.List(context.Background(), models.Principal{ID: "s1", Role: models.RoleStudent}, models.EnrollmentFilter{})
	require.NoError(t, err)
	require.Equal(t, "s1", repo.lastFilter.StudentID)
}

func TestEnrollmentServiceWithdraw(t *testing.T) {
	repo := &mockEnrollmentRepo{enrollments: map[string]*models.Enrollment{
		"e1": {ID: "e1", Status: models.EnrollmentStatusActive},
	}}
	svc := NewEnrollmentService(repo, fullDirectory(), nil, zap.NewNop())

	enrollment, err := svc.Withdraw(context.Background(), "e1")
	require.NoError(t, err)
	require.Equal(t, models.EnrollmentStatusWithdrawn, enrollment.Status)
}

func TestEnrollmentServiceWithdrawFinished(t *testing.T) {
	repo := &mockEnrollmentRepo{enrollments: map[string]*models.Enrollment{
		"e1": {ID: "e1", Status: models.EnrollmentStatusFinished},
	}}
	svc := NewEnrollmentService(repo, fullDirectory(), nil, zap.NewNop())

	_, err := svc.Withdraw(context.Background(), "e1")
	require.Error(t, err)
	require.Equal(t, appErrors.ErrPreconditionFailed.Code, appErrors.FromError(err).Code)
}
