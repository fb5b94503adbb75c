package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/grupo16/tutoring-center-api/internal/models"
)

// ReprogrammingRepository handles persistence of makeup-class reschedules.
type ReprogrammingRepository struct {
	db *sqlx.DB
}

// NewReprogrammingRepository constructs the repository.
func NewReprogrammingRepository(db *sqlx.DB) *ReprogrammingRepository {
	return &ReprogrammingRepository{db: db}
}

// List returns reprogrammings filtered by the provided criteria.
func (r *ReprogrammingRepository) List(ctx context.Context, filter models.ReprogrammingFilter) ([]models.Reprogramming, int, error) {
	base := `FROM reprogramacion rp`
	var conditions []string
	var args []interface{}

	if filter.LicenseID != "" {
		conditions = append(conditions, fmt.Sprintf("rp.licencia_id = $%d", len(args)+1))
		args = append(args, filter.LicenseID)
	}
	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("rp.estado = $%d", len(args)+1))
		args = append(args, filter.Status)
	}
	if filter.DateFrom != nil {
		conditions = append(conditions, fmt.Sprintf("rp.fecha_nueva >= $%d", len(args)+1))
		args = append(args, *filter.DateFrom)
	}
	if filter.DateTo != nil {
		conditions = append(conditions, fmt.Sprintf("rp.fecha_nueva <= $%d", len(args)+1))
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

	query := fmt.Sprintf(`SELECT rp.id, rp.licencia_id, rp.fecha_original, rp.fecha_nueva, rp.estado, rp.observaciones, rp.created_at, rp.updated_at
        %s ORDER BY rp.fecha_nueva DESC LIMIT %d OFFSET %d`, base+clause, size, offset)

	var items []models.Reprogramming
	if err := r.db.SelectContext(ctx, &items, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list reprogrammings: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base+clause)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count reprogrammings: %w", err)
	}
	return items, total, nil
}

// FindByID returns a reprogramming by its ID.
func (r *ReprogrammingRepository) FindByID(ctx context.Context, id string) (*models.Reprogramming, error) {
	const query = `SELECT id, licencia_id, fecha_original, fecha_nueva, estado, observaciones, created_at, updated_at FROM reprogramacion WHERE id = $1`
	var item models.Reprogramming
	if err := r.db.GetContext(ctx, &item, query, id); err != nil {
		return nil, err
	}
	return &item, nil
}

// Create persists a new reprogramming.
func (r *ReprogrammingRepository) Create(ctx context.Context, item *models.Reprogramming) error {
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	item.CreatedAt = now
	item.UpdatedAt = now
	const query = `INSERT INTO reprogramacion (id, licencia_id, fecha_original, fecha_nueva, estado, observaciones, created_at, updated_at)
        VALUES (:id, :licencia_id, :fecha_original, :fecha_nueva, :estado, :observaciones, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, item); err != nil {
		return fmt.Errorf("create reprogramming: %w", err)
	}
	return nil
}

// MarkDone flips a scheduled reprogramming to done and recovers the
// originating attendance in the same transaction. Returns false when the
// row was no longer in the scheduled state.
func (r *ReprogrammingRepository) MarkDone(ctx context.Context, id string) (done bool, err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin reprogramming transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	now := time.Now().UTC()
	const updateRepro = `UPDATE reprogramacion SET estado = $2, updated_at = $3 WHERE id = $1 AND estado = $4`
	res, err := tx.ExecContext(ctx, updateRepro, id, models.ReprogrammingStatusDone, now, models.ReprogrammingStatusScheduled)
	if err != nil {
		return false, fmt.Errorf("mark reprogramming done: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("reprogramming rows affected: %w", err)
	}
	if affected == 0 {
		_ = tx.Rollback()
		return false, nil
	}

	const recoverAttendance = `UPDATE asistencia SET estado = $2, updated_at = $3
        WHERE id = (SELECT l.asistencia_id FROM licencia l JOIN reprogramacion rp ON rp.licencia_id = l.id WHERE rp.id = $1)`
	if _, err = tx.ExecContext(ctx, recoverAttendance, id, models.AttendanceStatusRecovered, now); err != nil {
		return false, fmt.Errorf("recover attendance: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return false, fmt.Errorf("commit reprogramming transaction: %w", err)
	}
	return true, nil
}

// Cancel flips a scheduled reprogramming to cancelled. Returns false when
// the row was not scheduled.
func (r *ReprogrammingRepository) Cancel(ctx context.Context, id string) (bool, error) {
	const query = `UPDATE reprogramacion SET estado = $2, updated_at = $3 WHERE id = $1 AND estado = $4`
	res, err := r.db.ExecContext(ctx, query, id, models.ReprogrammingStatusCancelled, time.Now().UTC(), models.ReprogrammingStatusScheduled)
	if err != nil {
		return false, fmt.Errorf("cancel reprogramming: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("reprogramming rows affected: %w", err)
	}
	return affected == 1, nil
}

// Delete removes a reprogramming.
func (r *ReprogrammingRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM reprogramacion WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("delete reprogramming: %w", err)
	}
	return nil
}
