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

// AttendanceRepository handles persistence of attendance records.
type AttendanceRepository struct {
	db *sqlx.DB
}

// NewAttendanceRepository constructs the repository.
func NewAttendanceRepository(db *sqlx.DB) *AttendanceRepository {
	return &AttendanceRepository{db: db}
}

// List returns attendance records filtered by the provided criteria.
func (r *AttendanceRepository) List(ctx context.Context, filter models.AttendanceFilter) ([]models.AttendanceDetail, int, error) {
	base := `FROM asistencia a
JOIN inscripcion i ON i.id = a.inscripcion_id
JOIN alumno al ON al.id = i.alumno_id
JOIN usuario ua ON ua.id = al.user_id
JOIN tutor t ON t.id = i.tutor_id
JOIN usuario ut ON ut.id = t.user_id`
	var conditions []string
	var args []interface{}

	if filter.EnrollmentID != "" {
		conditions = append(conditions, fmt.Sprintf("a.inscripcion_id = $%d", len(args)+1))
		args = append(args, filter.EnrollmentID)
	}
	if filter.TutorID != "" {
		conditions = append(conditions, fmt.Sprintf("i.tutor_id = $%d", len(args)+1))
		args = append(args, filter.TutorID)
	}
	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("a.estado = $%d", len(args)+1))
		args = append(args, filter.Status)
	}
	if filter.DateFrom != nil {
		conditions = append(conditions, fmt.Sprintf("a.fecha >= $%d", len(args)+1))
		args = append(args, *filter.DateFrom)
	}
	if filter.DateTo != nil {
		conditions = append(conditions, fmt.Sprintf("a.fecha <= $%d", len(args)+1))
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

	query := fmt.Sprintf(`SELECT a.id, a.inscripcion_id, a.fecha, a.estado, a.observaciones, a.created_at, a.updated_at,
        ua.nombre || ' ' || ua.apellido AS alumno_nombre, ut.nombre || ' ' || ut.apellido AS tutor_nombre
        %s ORDER BY a.fecha DESC LIMIT %d OFFSET %d`, base+clause, size, offset)

	var records []models.AttendanceDetail
	if err := r.db.SelectContext(ctx, &records, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list attendance: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base+clause)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count attendance: %w", err)
	}
	return records, total, nil
}

// FindByID returns an attendance record by its ID.
func (r *AttendanceRepository) FindByID(ctx context.Context, id string) (*models.Attendance, error) {
	const query = `SELECT id, inscripcion_id, fecha, estado, observaciones, created_at, updated_at FROM asistencia WHERE id = $1`
	var record models.Attendance
	if err := r.db.GetContext(ctx, &record, query, id); err != nil {
		return nil, err
	}
	return &record, nil
}

// FindDetailByID returns an attendance record with contextual names.
func (r *AttendanceRepository) FindDetailByID(ctx context.Context, id string) (*models.AttendanceDetail, error) {
	const query = `SELECT a.id, a.inscripcion_id, a.fecha, a.estado, a.observaciones, a.created_at, a.updated_at,
        ua.nombre || ' ' || ua.apellido AS alumno_nombre, ut.nombre || ' ' || ut.apellido AS tutor_nombre
        FROM asistencia a
        JOIN inscripcion i ON i.id = a.inscripcion_id
        JOIN alumno al ON al.id = i.alumno_id
        JOIN usuario ua ON ua.id = al.user_id
        JOIN tutor t ON t.id = i.tutor_id
        JOIN usuario ut ON ut.id = t.user_id
        WHERE a.id = $1`
	var detail models.AttendanceDetail
	if err := r.db.GetContext(ctx, &detail, query, id); err != nil {
		return nil, err
	}
	return &detail, nil
}

// ExistsForDate checks the one-record-per-enrollment-per-date invariant.
func (r *AttendanceRepository) ExistsForDate(ctx context.Context, enrollmentID string, date time.Time) (bool, error) {
	const query = `SELECT 1 FROM asistencia WHERE inscripcion_id = $1 AND fecha::date = $2::date LIMIT 1`
	var exists int
	if err := r.db.GetContext(ctx, &exists, query, enrollmentID, date); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check attendance date: %w", err)
	}
	return true, nil
}

// Create persists a new attendance record.
func (r *AttendanceRepository) Create(ctx context.Context, record *models.Attendance) error {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	record.CreatedAt = now
	record.UpdatedAt = now
	const query = `INSERT INTO asistencia (id, inscripcion_id, fecha, estado, observaciones, created_at, updated_at)
        VALUES (:id, :inscripcion_id, :fecha, :estado, :observaciones, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, record); err != nil {
		return fmt.Errorf("create attendance: %w", err)
	}
	return nil
}

// Update overwrites the mutable fields of an attendance record.
func (r *AttendanceRepository) Update(ctx context.Context, record *models.Attendance) error {
	record.UpdatedAt = time.Now().UTC()
	const query = `UPDATE asistencia SET fecha = :fecha, estado = :estado, observaciones = :observaciones, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, record); err != nil {
		return fmt.Errorf("update attendance: %w", err)
	}
	return nil
}

// Delete removes an attendance record.
func (r *AttendanceRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM asistencia WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("delete attendance: %w", err)
	}
	return nil
}
