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

// ClassReportRepository handles persistence of class session reports.
type ClassReportRepository struct {
	db *sqlx.DB
}

// NewClassReportRepository constructs the repository.
func NewClassReportRepository(db *sqlx.DB) *ClassReportRepository {
	return &ClassReportRepository{db: db}
}

// List returns class reports filtered by the provided criteria.
func (r *ClassReportRepository) List(ctx context.Context, filter models.ClassReportFilter) ([]models.ClassReport, int, error) {
	base := `FROM informe_clase ic JOIN inscripcion i ON i.id = ic.inscripcion_id`
	var conditions []string
	var args []interface{}

	if filter.EnrollmentID != "" {
		conditions = append(conditions, fmt.Sprintf("ic.inscripcion_id = $%d", len(args)+1))
		args = append(args, filter.EnrollmentID)
	}
	if filter.TutorID != "" {
		conditions = append(conditions, fmt.Sprintf("i.tutor_id = $%d", len(args)+1))
		args = append(args, filter.TutorID)
	}
	if filter.DateFrom != nil {
		conditions = append(conditions, fmt.Sprintf("ic.fecha >= $%d", len(args)+1))
		args = append(args, *filter.DateFrom)
	}
	if filter.DateTo != nil {
		conditions = append(conditions, fmt.Sprintf("ic.fecha <= $%d", len(args)+1))
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

	query := fmt.Sprintf(`SELECT ic.id, ic.inscripcion_id, ic.fecha, ic.temas_vistos, ic.tareas_asignadas,
        ic.nivel_comprension, ic.participacion, ic.calificacion, ic.resumen, ic.observaciones, ic.created_at, ic.updated_at
        %s ORDER BY ic.fecha DESC LIMIT %d OFFSET %d`, base+clause, size, offset)

	var reports []models.ClassReport
	if err := r.db.SelectContext(ctx, &reports, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list class reports: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base+clause)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count class reports: %w", err)
	}
	return reports, total, nil
}

// FindByID returns a class report by its ID.
func (r *ClassReportRepository) FindByID(ctx context.Context, id string) (*models.ClassReport, error) {
	const query = `SELECT id, inscripcion_id, fecha, temas_vistos, tareas_asignadas, nivel_comprension, participacion,
        calificacion, resumen, observaciones, created_at, updated_at FROM informe_clase WHERE id = $1`
	var report models.ClassReport
	if err := r.db.GetContext(ctx, &report, query, id); err != nil {
		return nil, err
	}
	return &report, nil
}

// ExistsForDate checks the one-report-per-enrollment-per-date invariant.
func (r *ClassReportRepository) ExistsForDate(ctx context.Context, enrollmentID string, date time.Time) (bool, error) {
	const query = `SELECT 1 FROM informe_clase WHERE inscripcion_id = $1 AND fecha = $2 LIMIT 1`
	var exists int
	if err := r.db.GetContext(ctx, &exists, query, enrollmentID, date); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check class report date: %w", err)
	}
	return true, nil
}

// Create persists a new class report.
func (r *ClassReportRepository) Create(ctx context.Context, report *models.ClassReport) error {
	if report.ID == "" {
		report.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	report.CreatedAt = now
	report.UpdatedAt = now
	const query = `INSERT INTO informe_clase (id, inscripcion_id, fecha, temas_vistos, tareas_asignadas, nivel_comprension,
        participacion, calificacion, resumen, observaciones, created_at, updated_at)
        VALUES (:id, :inscripcion_id, :fecha, :temas_vistos, :tareas_asignadas, :nivel_comprension,
        :participacion, :calificacion, :resumen, :observaciones, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, report); err != nil {
		return fmt.Errorf("create class report: %w", err)
	}
	return nil
}
