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

// EnrollmentRepository handles persistence of enrollments.
type EnrollmentRepository struct {
	db *sqlx.DB
}

// NewEnrollmentRepository constructs the repository.
func NewEnrollmentRepository(db *sqlx.DB) *EnrollmentRepository {
	return &EnrollmentRepository{db: db}
}

// List returns enrollments filtered by the provided criteria.
func (r *EnrollmentRepository) List(ctx context.Context, filter models.EnrollmentFilter) ([]models.EnrollmentDetail, int, error) {
	base := `FROM inscripcion i
JOIN alumno al ON al.id = i.alumno_id
JOIN usuario ua ON ua.id = al.user_id
JOIN tutor t ON t.id = i.tutor_id
JOIN usuario ut ON ut.id = t.user_id
JOIN servicio s ON s.id = i.id_servicio`
	var conditions []string
	var args []interface{}

	if filter.StudentID != "" {
		conditions = append(conditions, fmt.Sprintf("i.alumno_id = $%d", len(args)+1))
		args = append(args, filter.StudentID)
	}
	if filter.TutorID != "" {
		conditions = append(conditions, fmt.Sprintf("i.tutor_id = $%d", len(args)+1))
		args = append(args, filter.TutorID)
	}
	if filter.ServiceID != "" {
		conditions = append(conditions, fmt.Sprintf("i.id_servicio = $%d", len(args)+1))
		args = append(args, filter.ServiceID)
	}
	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("i.estado = $%d", len(args)+1))
		args = append(args, filter.Status)
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

	query := fmt.Sprintf(`SELECT i.id, i.id_servicio, i.alumno_id, i.tutor_id, i.fecha_inscripcion, i.estado, i.observaciones,
        i.created_at, i.updated_at,
        ua.nombre || ' ' || ua.apellido AS alumno_nombre, ut.nombre || ' ' || ut.apellido AS tutor_nombre,
        s.nombre AS servicio_nombre
        %s ORDER BY i.fecha_inscripcion DESC LIMIT %d OFFSET %d`, base+clause, size, offset)

	var enrollments []models.EnrollmentDetail
	if err := r.db.SelectContext(ctx, &enrollments, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list enrollments: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base+clause)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count enrollments: %w", err)
	}
	return enrollments, total, nil
}

// FindByID returns an enrollment by its ID.
func (r *EnrollmentRepository) FindByID(ctx context.Context, id string) (*models.Enrollment, error) {
	const query = `SELECT id, id_servicio, alumno_id, tutor_id, fecha_inscripcion, estado, observaciones, created_at, updated_at
        FROM inscripcion WHERE id = $1`
	var enrollment models.Enrollment
	if err := r.db.GetContext(ctx, &enrollment, query, id); err != nil {
		return nil, err
	}
	return &enrollment, nil
}

// ExistsActive checks for an existing active enrollment of the same
// student/tutor/service triple.
func (r *EnrollmentRepository) ExistsActive(ctx context.Context, studentID, tutorID, serviceID string) (bool, error) {
	const query = `SELECT 1 FROM inscripcion WHERE alumno_id = $1 AND tutor_id = $2 AND id_servicio = $3 AND estado = $4 LIMIT 1`
	var exists int
	if err := r.db.GetContext(ctx, &exists, query, studentID, tutorID, serviceID, models.EnrollmentStatusActive); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check active enrollment: %w", err)
	}
	return true, nil
}

// Create persists a new enrollment record.
func (r *EnrollmentRepository) Create(ctx context.Context, enrollment *models.Enrollment) error {
	if enrollment.ID == "" {
		enrollment.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if enrollment.EnrollmentDate.IsZero() {
		enrollment.EnrollmentDate = now
	}
	if enrollment.Status == "" {
		enrollment.Status = models.EnrollmentStatusActive
	}
	enrollment.CreatedAt = now
	enrollment.UpdatedAt = now
	const query = `INSERT INTO inscripcion (id, id_servicio, alumno_id, tutor_id, fecha_inscripcion, estado, observaciones, created_at, updated_at)
        VALUES (:id, :id_servicio, :alumno_id, :tutor_id, :fecha_inscripcion, :estado, :observaciones, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, enrollment); err != nil {
		return fmt.Errorf("create enrollment: %w", err)
	}
	return nil
}

// UpdateStatus flips the lifecycle status of an enrollment. Withdrawal is a
// status flip, never a physical delete, so the attendance history survives.
func (r *EnrollmentRepository) UpdateStatus(ctx context.Context, id string, status models.EnrollmentStatus) error {
	const query = `UPDATE inscripcion SET estado = $2, updated_at = $3 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, status, time.Now().UTC()); err != nil {
		return fmt.Errorf("update enrollment status: %w", err)
	}
	return nil
}
