package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/grupo16/tutoring-center-api/internal/models"
)

func TestLicenseRepositoryListByAttendance(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewLicenseRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "asistencia_id", "motivo", "estado", "fecha_solicitud",
		"created_at", "updated_at", "fecha", "alumno_nombre"}).
		AddRow("lic-1", "a1", "viaje familiar", models.LicenseStatusPending, now, now, now, now, "Ana Flores")

	mock.ExpectQuery(regexp.QuoteMeta("l.asistencia_id = $1")).
		WithArgs("a1").
		WillReturnRows(rows)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*)")).
		WithArgs("a1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	licenses, total, err := repo.List(context.Background(), models.LicenseFilter{AttendanceID: "a1"})
	require.NoError(t, err)
	require.Equal(t, 1, total)
	require.Len(t, licenses, 1)
	require.Equal(t, "a1", licenses[0].AttendanceID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLicenseRepositoryUpdateStatusFromPendingAlreadyReviewed(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewLicenseRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE licencia SET estado = $2, updated_at = $3 WHERE id = $1 AND estado = $4")).
		WithArgs("lic-1", models.LicenseStatusApproved, sqlmock.AnyArg(), models.LicenseStatusPending).
		WillReturnResult(sqlmock.NewResult(0, 0))

	updated, err := repo.UpdateStatusFromPending(context.Background(), "lic-1", models.LicenseStatusApproved)
	require.NoError(t, err)
	require.False(t, updated)
	require.NoError(t, mock.ExpectationsWereMet())
}
