package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/grupo16/tutoring-center-api/internal/models"
)

func newRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func paymentColumns() []string {
	return []string{"id", "venta_id", "monto", "fecha_pago", "metodo_pago", "observaciones", "estado",
		"registrado_por", "pagofacil_transaction_id", "company_transaction_id", "created_at", "updated_at"}
}

func TestPaymentRepositorySettle(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewPaymentRepository(db)

	now := time.Now()
	companyTxn := "grupo16sa-00042"
	rows := sqlmock.NewRows(paymentColumns()).
		AddRow("pay-1", "v1", 400.0, now, nil, nil, models.PaymentStatusPending, nil, "gw-9", companyTxn, now, now)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FROM pago WHERE company_transaction_id = $1 FOR UPDATE")).
		WithArgs(companyTxn).
		WillReturnRows(rows)
	mock.ExpectExec(regexp.QuoteMeta("UPDATE pago SET estado = $2, metodo_pago = $3, observaciones = $4, updated_at = $5 WHERE id = $1")).
		WithArgs("pay-1", models.PaymentStatusPaid, "QR", "confirmado", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT monto_total FROM venta WHERE id = $1 FOR UPDATE")).
		WithArgs("v1").
		WillReturnRows(sqlmock.NewRows([]string{"monto_total"}).AddRow(400.0))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COALESCE(SUM(monto), 0) FROM pago WHERE venta_id = $1 AND estado = $2")).
		WithArgs("v1", models.PaymentStatusPaid).
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(400.0))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE venta SET monto_pagado = $2, saldo_pendiente = $3, estado = $4, updated_at = $5 WHERE id = $1")).
		WithArgs("v1", 400.0, 0.0, models.SaleStatusPaid, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	payment, changed, err := repo.Settle(context.Background(), companyTxn, "QR", "confirmado")
	require.NoError(t, err)
	require.True(t, changed)
	require.Equal(t, models.PaymentStatusPaid, payment.Status)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPaymentRepositorySettleAlreadyPaid(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewPaymentRepository(db)

	now := time.Now()
	companyTxn := "grupo16sa-00042"
	rows := sqlmock.NewRows(paymentColumns()).
		AddRow("pay-1", "v1", 400.0, now, "QR", nil, models.PaymentStatusPaid, nil, "gw-9", companyTxn, now, now)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FROM pago WHERE company_transaction_id = $1 FOR UPDATE")).
		WithArgs(companyTxn).
		WillReturnRows(rows)
	mock.ExpectRollback()

	payment, changed, err := repo.Settle(context.Background(), companyTxn, "QR", "confirmado")
	require.NoError(t, err)
	require.False(t, changed)
	require.Equal(t, "pay-1", payment.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPaymentRepositoryCompanyTxnExists(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewPaymentRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM pago WHERE company_transaction_id = $1 LIMIT 1")).
		WithArgs("grupo16sa-00007").
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}))

	exists, err := repo.CompanyTxnExists(context.Background(), "grupo16sa-00007")
	require.NoError(t, err)
	require.False(t, exists)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPaymentRepositoryCreateSettledRecomputesBalance(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewPaymentRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO pago")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT monto_total FROM venta WHERE id = $1 FOR UPDATE")).
		WithArgs("v1").
		WillReturnRows(sqlmock.NewRows([]string{"monto_total"}).AddRow(400.0))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COALESCE(SUM(monto), 0) FROM pago WHERE venta_id = $1 AND estado = $2")).
		WithArgs("v1", models.PaymentStatusPaid).
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(150.0))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE venta SET monto_pagado = $2, saldo_pendiente = $3, estado = $4, updated_at = $5 WHERE id = $1")).
		WithArgs("v1", 150.0, 250.0, models.SaleStatusPartial, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	payment := &models.Payment{SaleID: "v1", Amount: 150.0}
	err := repo.CreateSettled(context.Background(), payment)
	require.NoError(t, err)
	require.Equal(t, models.PaymentStatusPaid, payment.Status)
	require.NotEmpty(t, payment.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}
