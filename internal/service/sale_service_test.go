package service

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/grupo16/tutoring-center-api/internal/models"
	appErrors "github.com/grupo16/tutoring-center-api/pkg/errors"
)

type mockSaleRepo struct {
	sales      map[string]models.Sale
	details    []models.SaleDetail
	created    *models.Sale
	lastFilter models.SaleFilter
	listCalls  int
}

func (m *mockSaleRepo) List(ctx context.Context, filter models.SaleFilter) ([]models.SaleDetail, int, error) {
	m.lastFilter = filter
	m.listCalls++
	if filter.PageSize <= 0 {
		return m.details, len(m.details), nil
	}
	start := (filter.Page - 1) * filter.PageSize
	if start >= len(m.details) {
		return nil, len(m.details), nil
	}
	end := start + filter.PageSize
	if end > len(m.details) {
		end = len(m.details)
	}
	return m.details[start:end], len(m.details), nil
}

func (m *mockSaleRepo) FindByID(ctx context.Context, id string) (*models.Sale, error) {
	if s, ok := m.sales[id]; ok {
		return &s, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockSaleRepo) Create(ctx context.Context, sale *models.Sale) error {
	if m.sales == nil {
		m.sales = make(map[string]models.Sale)
	}
	if sale.ID == "" {
		sale.ID = "sale-new"
	}
	m.sales[sale.ID] = *sale
	m.created = sale
	return nil
}

func (m *mockSaleRepo) Summary(ctx context.Context) ([]models.SaleSummaryRow, error) {
	return []models.SaleSummaryRow{{Status: models.SaleStatusPending, Count: 2, TotalAmount: 500}}, nil
}

func TestSaleServiceCreate(t *testing.T) {
	repo := &mockSaleRepo{}
	svc := NewSaleService(repo, activeEnrollments(), validator.New(), zap.NewNop())

	sale, err := svc.Create(context.Background(), CreateSaleRequest{
		EnrollmentID:  "e1",
		SaleType:      "mensualidad",
		TotalAmount:   400,
		BillingPeriod: "2026-03",
	})
	require.NoError(t, err)
	assert.Equal(t, models.SaleStatusPending, sale.Status)
	assert.Equal(t, 400.0, sale.PendingBalance)
	assert.Equal(t, 0.0, sale.PaidAmount)
}

func TestSaleServiceCreateRejectsZeroAmount(t *testing.T) {
	svc := NewSaleService(&mockSaleRepo{}, activeEnrollments(), validator.New(), zap.NewNop())

	_, err := svc.Create(context.Background(), CreateSaleRequest{
		EnrollmentID:  "e1",
		SaleType:      "mensualidad",
		TotalAmount:   0,
		BillingPeriod: "2026-03",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestSaleServiceListScopesStudents(t *testing.T) {
	repo := &mockSaleRepo{}
	svc := NewSaleService(repo, activeEnrollments(), validator.New(), zap.NewNop())

	_, _, err := svc.List(context.Background(), models.Principal{ID: "s1", Role: models.RoleStudent}, models.SaleFilter{StudentID: "someone-else"})
	require.NoError(t, err)
	assert.Equal(t, "s1", repo.lastFilter.StudentID)
}

func TestSaleServiceGetForbiddenForOtherStudent(t *testing.T) {
	repo := &mockSaleRepo{sales: map[string]models.Sale{
		"v1": {ID: "v1", EnrollmentID: "e1"},
	}}
	svc := NewSaleService(repo, activeEnrollments(), validator.New(), zap.NewNop())

	_, err := svc.Get(context.Background(), models.Principal{ID: "intruder", Role: models.RoleStudent}, "v1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)

	sale, err := svc.Get(context.Background(), models.Principal{ID: "s1", Role: models.RoleStudent}, "v1")
	require.NoError(t, err)
	assert.Equal(t, "v1", sale.ID)
}

func TestSaleServiceExportCSV(t *testing.T) {
	repo := &mockSaleRepo{details: []models.SaleDetail{{
		Sale:        models.Sale{ID: "v1", TotalAmount: 400, PaidAmount: 100, PendingBalance: 300, BillingPeriod: "2026-03", Status: models.SaleStatusPartial},
		StudentName: "Ana Flores",
		ServiceName: "Matematicas",
	}}}
	svc := NewSaleService(repo, activeEnrollments(), validator.New(), zap.NewNop())

	data, err := svc.ExportCSV(context.Background(), models.Principal{ID: "o1", Role: models.RoleOwner}, models.SaleFilter{})
	require.NoError(t, err)
	assert.Contains(t, string(data), "Ana Flores")
	assert.Contains(t, string(data), "saldo_pendiente")
}

func TestSaleServiceExportCSVWalksAllPages(t *testing.T) {
	details := make([]models.SaleDetail, 0, 150)
	for i := 0; i < 150; i++ {
		details = append(details, models.SaleDetail{
			Sale:        models.Sale{ID: fmt.Sprintf("v%03d", i), TotalAmount: 400, PendingBalance: 400, BillingPeriod: "2026-03", Status: models.SaleStatusPending},
			StudentName: "Ana Flores",
			ServiceName: "Matematicas",
		})
	}
	repo := &mockSaleRepo{details: details}
	svc := NewSaleService(repo, activeEnrollments(), validator.New(), zap.NewNop())

	data, err := svc.ExportCSV(context.Background(), models.Principal{ID: "o1", Role: models.RoleOwner}, models.SaleFilter{})
	require.NoError(t, err)
	assert.Equal(t, 2, repo.listCalls)
	assert.Contains(t, string(data), "v000")
	assert.Contains(t, string(data), "v149")
	assert.Equal(t, 151, strings.Count(string(data), "\n"))
}
