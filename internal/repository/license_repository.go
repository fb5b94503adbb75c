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

// LicenseRepository handles persistence of absence licenses.
type LicenseRepository struct {
	db *sqlx.DB
}

// NewLicenseRepository constructs the repository.
func NewLicenseRepository(db *sqlx.DB) *LicenseRepository {
	return &LicenseRepository{db: db}
}

// List returns licenses filtered by the provided criteria.
func (r *LicenseRepository) List(ctx context.Context, filter models.LicenseFilter) ([]models.LicenseDetail, int, error) {
	base := `FROM licencia l
JOIN asistencia a ON a.id = l.asistencia_id
JOIN inscripcion i ON i.id = a.inscripcion_id
JOIN alumno al ON al.id = i.alumno_id
JOIN usuario u ON u.id = al.user_id`
	var conditions []string
	var args []interface{}

	if filter.AttendanceID != "" {
		conditions = append(conditions, fmt.Sprintf("l.asistencia_id = $%d", len(args)+1))
		args = append(args, filter.AttendanceID)
	}
	if filter.TutorID != "" {
		conditions = append(conditions, fmt.Sprintf("i.tutor_id = $%d", len(args)+1))
		args = append(args, filter.TutorID)
	}
	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("l.estado = $%d", len(args)+1))
		args = append(args, filter.Status)
	}
	if filter.DateFrom != nil {
		conditions = append(conditions, fmt.Sprintf("l.fecha_solicitud >= $%d", len(args)+1))
		args = append(args, *filter.DateFrom)
	}
	if filter.DateTo != nil {
		conditions = append(conditions, fmt.Sprintf("l.fecha_solicitud <= $%d", len(args)+1))
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

	query := fmt.Sprintf(`SELECT l.id, l.asistencia_id, l.motivo, l.estado, l.fecha_solicitud, l.created_at, l.updated_at,
        a.fecha, u.nombre || ' ' || u.apellido AS alumno_nombre
        %s ORDER BY l.fecha_solicitud DESC LIMIT %d OFFSET %d`, base+clause, size, offset)

	var licenses []models.LicenseDetail
	if err := r.db.SelectContext(ctx, &licenses, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list licenses: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base+clause)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count licenses: %w", err)
	}
	return licenses, total, nil
}

// FindByID returns a license by its ID.
func (r *LicenseRepository) FindByID(ctx context.Context, id string) (*models.License, error) {
	const query = `SELECT id, asistencia_id, motivo, estado, fecha_solicitud, created_at, updated_at FROM licencia WHERE id = $1`
	var license models.License
	if err := r.db.GetContext(ctx, &license, query, id); err != nil {
		return nil, err
	}
	return &license, nil
}

// FindByAttendance returns the license attached to an attendance record, if any.
func (r *LicenseRepository) FindByAttendance(ctx context.Context, attendanceID string) (*models.License, error) {
	const query = `SELECT id, asistencia_id, motivo, estado, fecha_solicitud, created_at, updated_at FROM licencia WHERE asistencia_id = $1`
	var license models.License
	if err := r.db.GetContext(ctx, &license, query, attendanceID); err != nil {
		return nil, err
	}
	return &license, nil
}

// ExistsForAttendance enforces the one-license-per-attendance invariant.
func (r *LicenseRepository) ExistsForAttendance(ctx context.Context, attendanceID string) (bool, error) {
	const query = `SELECT 1 FROM licencia WHERE asistencia_id = $1 LIMIT 1`
	var exists int
	if err := r.db.GetContext(ctx, &exists, query, attendanceID); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check attendance license: %w", err)
	}
	return true, nil
}

// Create persists a new license.
func (r *LicenseRepository) Create(ctx context.Context, license *models.License) error {
	if license.ID == "" {
		license.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if license.RequestedAt.IsZero() {
		license.RequestedAt = now
	}
	license.CreatedAt = now
	license.UpdatedAt = now
	const query = `INSERT INTO licencia (id, asistencia_id, motivo, estado, fecha_solicitud, created_at, updated_at)
        VALUES (:id, :asistencia_id, :motivo, :estado, :fecha_solicitud, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, license); err != nil {
		return fmt.Errorf("create license: %w", err)
	}
	return nil
}

// UpdateStatusFromPending performs the one-way pending transition.
// Returns false when the row was not pending anymore, keeping approve and
// reject race-safe without a prior SELECT FOR UPDATE.
func (r *LicenseRepository) UpdateStatusFromPending(ctx context.Context, id string, status models.LicenseStatus) (bool, error) {
	const query = `UPDATE licencia SET estado = $2, updated_at = $3 WHERE id = $1 AND estado = $4`
	res, err := r.db.ExecContext(ctx, query, id, status, time.Now().UTC(), models.LicenseStatusPending)
	if err != nil {
		return false, fmt.Errorf("update license status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("license rows affected: %w", err)
	}
	return affected == 1, nil
}

// HasReprogrammings reports whether any reprogramming references the license.
func (r *LicenseRepository) HasReprogrammings(ctx context.Context, id string) (bool, error) {
	const query = `SELECT 1 FROM reprogramacion WHERE licencia_id = $1 LIMIT 1`
	var exists int
	if err := r.db.GetContext(ctx, &exists, query, id); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check license reprogrammings: %w", err)
	}
	return true, nil
}

// Delete removes a license.
func (r *LicenseRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM licencia WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("delete license: %w", err)
	}
	return nil
}
