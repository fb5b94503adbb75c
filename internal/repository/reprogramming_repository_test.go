package repository

import (
	"context"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/grupo16/tutoring-center-api/internal/models"
)

func TestReprogrammingRepositoryMarkDone(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewReprogrammingRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE reprogramacion SET estado = $2, updated_at = $3 WHERE id = $1 AND estado = $4")).
		WithArgs("rp-1", models.ReprogrammingStatusDone, sqlmock.AnyArg(), models.ReprogrammingStatusScheduled).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE asistencia SET estado = $2, updated_at = $3")).
		WithArgs("rp-1", models.AttendanceStatusRecovered, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	done, err := repo.MarkDone(context.Background(), "rp-1")
	require.NoError(t, err)
	require.True(t, done)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReprogrammingRepositoryMarkDoneNotScheduled(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewReprogrammingRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE reprogramacion SET estado = $2, updated_at = $3 WHERE id = $1 AND estado = $4")).
		WithArgs("rp-1", models.ReprogrammingStatusDone, sqlmock.AnyArg(), models.ReprogrammingStatusScheduled).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	done, err := repo.MarkDone(context.Background(), "rp-1")
	require.NoError(t, err)
	require.False(t, done)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReprogrammingRepositoryCancelNotScheduled(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewReprogrammingRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE reprogramacion SET estado = $2, updated_at = $3 WHERE id = $1 AND estado = $4")).
		WithArgs("rp-1", models.ReprogrammingStatusCancelled, sqlmock.AnyArg(), models.ReprogrammingStatusScheduled).
		WillReturnResult(sqlmock.NewResult(0, 0))

	cancelled, err := repo.Cancel(context.Background(), "rp-1")
	require.NoError(t, err)
	require.False(t, cancelled)
	require.NoError(t, mock.ExpectationsWereMet())
}
