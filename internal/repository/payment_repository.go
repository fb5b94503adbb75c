package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/grupo16/tutoring-center-api/internal/models"
)

// PaymentRepository handles persistence of payments and the derived sale
// balance. Every settlement re-sums the paid payments inside the same
// transaction, so concurrent settlements against one sale cannot lose
// updates.
type PaymentRepository struct {
	db *sqlx.DB
}

// NewPaymentRepository constructs the repository.
func NewPaymentRepository(db *sqlx.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

// List returns payments filtered by the provided criteria.
func (r *PaymentRepository) List(ctx context.Context, filter models.PaymentFilter) ([]models.Payment, int, error) {
	base := `FROM pago p`
	var conditions []string
	var args []interface{}

	if filter.SaleID != "" {
		conditions = append(conditions, fmt.Sprintf("p.venta_id = $%d", len(args)+1))
		args = append(args, filter.SaleID)
	}
	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("p.estado = $%d", len(args)+1))
		args = append(args, filter.Status)
	}
	if filter.DateFrom != nil {
		conditions = append(conditions, fmt.Sprintf("p.fecha_pago >= $%d", len(args)+1))
		args = append(args, *filter.DateFrom)
	}
	if filter.DateTo != nil {
		conditions = append(conditions, fmt.Sprintf("p.fecha_pago <= $%d", len(args)+1))
		args = append(args, *filter.DateTo)
	}

	clause := ""
	if len(conditions) > 0 {
		clause = " WHERE " + strings.Join(conditions, " AND ")
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	query := fmt.Sprintf(`SELECT p.id, p.venta_id, p.monto, p.fecha_pago, p.metodo_pago, p.observaciones, p.estado,
        p.registrado_por, p.pagofacil_transaction_id, p.company_transaction_id, p.created_at, p.updated_at
        %s ORDER BY p.fecha_pago DESC LIMIT %d OFFSET %d`, base+clause, size, offset)

	var payments []models.Payment
	if err := r.db.SelectContext(ctx, &payments, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list payments: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base+clause)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count payments: %w", err)
	}
	return payments, total, nil
}

// FindByID returns a payment by its ID.
func (r *PaymentRepository) FindByID(ctx context.Context, id string) (*models.Payment, error) {
	const query = `SELECT id, venta_id, monto, fecha_pago, metodo_pago, observaciones, estado, registrado_por,
        pagofacil_transaction_id, company_transaction_id, created_at, updated_at FROM pago WHERE id = $1`
	var payment models.Payment
	if err := r.db.GetContext(ctx, &payment, query, id); err != nil {
		return nil, err
	}
	return &payment, nil
}

// FindByCompanyTxn looks up a payment by its company transaction id.
func (r *PaymentRepository) FindByCompanyTxn(ctx context.Context, companyTxnID string) (*models.Payment, error) {
	const query = `SELECT id, venta_id, monto, fecha_pago, metodo_pago, observaciones, estado, registrado_por,
        pagofacil_transaction_id, company_transaction_id, created_at, updated_at FROM pago WHERE company_transaction_id = $1`
	var payment models.Payment
	if err := r.db.GetContext(ctx, &payment, query, companyTxnID); err != nil {
		return nil, err
	}
	return &payment, nil
}

// CompanyTxnExists checks a candidate transaction code for collisions.
func (r *PaymentRepository) CompanyTxnExists(ctx context.Context, companyTxnID string) (bool, error) {
	const query = `SELECT 1 FROM pago WHERE company_transaction_id = $1 LIMIT 1`
	var exists int
	if err := r.db.GetContext(ctx, &exists, query, companyTxnID); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check company transaction: %w", err)
	}
	return true, nil
}

// CreateSettled inserts a paid payment and recomputes the sale balance in
// one transaction.
func (r *PaymentRepository) CreateSettled(ctx context.Context, payment *models.Payment) (err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin payment transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	payment.Status = models.PaymentStatusPaid
	if err = insertPayment(ctx, tx, payment); err != nil {
		return err
	}
	if err = recomputeSaleBalance(ctx, tx, payment.SaleID); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit payment transaction: %w", err)
	}
	return nil
}

// CreatePending inserts a payment awaiting gateway confirmation. No balance
// recompute: pending rows never count toward the sale.
func (r *PaymentRepository) CreatePending(ctx context.Context, payment *models.Payment) error {
	payment.Status = models.PaymentStatusPending
	if err := insertPayment(ctx, r.db, payment); err != nil {
		return err
	}
	return nil
}

// Settle flips a pending payment (looked up by company transaction id) to
// paid and recomputes the sale balance atomically. Returns the payment and
// whether any state changed; settling an already-paid payment is a no-op,
// which makes gateway callback retries idempotent.
func (r *PaymentRepository) Settle(ctx context.Context, companyTxnID, method, notes string) (payment *models.Payment, changed bool, err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, false, fmt.Errorf("begin settle transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var row models.Payment
	const selectQuery = `SELECT id, venta_id, monto, fecha_pago, metodo_pago, observaciones, estado, registrado_por,
        pagofacil_transaction_id, company_transaction_id, created_at, updated_at
        FROM pago WHERE company_transaction_id = $1 FOR UPDATE`
	if err = tx.GetContext(ctx, &row, selectQuery, companyTxnID); err != nil {
		return nil, false, err
	}

	if row.Status == models.PaymentStatusPaid {
		_ = tx.Rollback()
		return &row, false, nil
	}

	now := time.Now().UTC()
	const updateQuery = `UPDATE pago SET estado = $2, metodo_pago = $3, observaciones = $4, updated_at = $5 WHERE id = $1`
	if _, err = tx.ExecContext(ctx, updateQuery, row.ID, models.PaymentStatusPaid, method, notes, now); err != nil {
		return nil, false, fmt.Errorf("settle payment: %w", err)
	}
	if err = recomputeSaleBalance(ctx, tx, row.SaleID); err != nil {
		return nil, false, err
	}
	if err = tx.Commit(); err != nil {
		return nil, false, fmt.Errorf("commit settle transaction: %w", err)
	}

	row.Status = models.PaymentStatusPaid
	row.Method = &method
	row.Notes = &notes
	row.UpdatedAt = now
	return &row, true, nil
}

// Recompute re-derives a sale balance outside of a settlement, e.g. after a
// manual gateway status query.
func (r *PaymentRepository) Recompute(ctx context.Context, saleID string) (err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin recompute transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()
	if err = recomputeSaleBalance(ctx, tx, saleID); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit recompute transaction: %w", err)
	}
	return nil
}

type execer interface {
	NamedExecContext(ctx context.Context, query string, arg interface{}) (sql.Result, error)
}

func insertPayment(ctx context.Context, ex execer, payment *models.Payment) error {
	if payment.ID == "" {
		payment.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if payment.PaymentDate.IsZero() {
		payment.PaymentDate = now
	}
	payment.CreatedAt = now
	payment.UpdatedAt = now
	const query = `INSERT INTO pago (id, venta_id, monto, fecha_pago, metodo_pago, observaciones, estado, registrado_por,
        pagofacil_transaction_id, company_transaction_id, created_at, updated_at)
        VALUES (:id, :venta_id, :monto, :fecha_pago, :metodo_pago, :observaciones, :estado, :registrado_por,
        :pagofacil_transaction_id, :company_transaction_id, :created_at, :updated_at)`
	if _, err := ex.NamedExecContext(ctx, query, payment); err != nil {
		return fmt.Errorf("insert payment: %w", err)
	}
	return nil
}

// recomputeSaleBalance locks the sale row, re-sums its paid payments and
// derives the new status. The sum is always taken from the full payment set
// at commit time, never from a running delta.
func recomputeSaleBalance(ctx context.Context, tx *sqlx.Tx, saleID string) error {
	var totalAmount float64
	const lockQuery = `SELECT monto_total FROM venta WHERE id = $1 FOR UPDATE`
	if err := tx.GetContext(ctx, &totalAmount, lockQuery, saleID); err != nil {
		return fmt.Errorf("lock sale: %w", err)
	}

	var paid float64
	const sumQuery = `SELECT COALESCE(SUM(monto), 0) FROM pago WHERE venta_id = $1 AND estado = $2`
	if err := tx.GetContext(ctx, &paid, sumQuery, saleID, models.PaymentStatusPaid); err != nil {
		return fmt.Errorf("sum payments: %w", err)
	}

	pending := totalAmount - paid
	if pending < 0 {
		pending = 0
	}
	status := models.DeriveSaleStatus(paid, pending)

	const updateQuery = `UPDATE venta SET monto_pagado = $2, saldo_pendiente = $3, estado = $4, updated_at = $5 WHERE id = $1`
	if _, err := tx.ExecContext(ctx, updateQuery, saleID, paid, pending, status, time.Now().UTC()); err != nil {
		return fmt.Errorf("update sale balance: %w", err)
	}
	return nil
}
