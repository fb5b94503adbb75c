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

// ScheduleRepository handles persistence of tutor availability slots.
type ScheduleRepository struct {
	db *sqlx.DB
}

// NewScheduleRepository constructs the repository.
func NewScheduleRepository(db *sqlx.DB) *ScheduleRepository {
	return &ScheduleRepository{db: db}
}

// List returns schedule slots filtered by tutor and day.
func (r *ScheduleRepository) List(ctx context.Context, filter models.ScheduleFilter) ([]models.Schedule, error) {
	base := `SELECT id, tutor_id, dia, hora_inicio, hora_fin, created_at FROM horario`
	var conditions []string
	var args []interface{}

	if filter.TutorID != "" {
		conditions = append(conditions, fmt.Sprintf("tutor_id = $%d", len(args)+1))
		args = append(args, filter.TutorID)
	}
	if filter.DayOfWeek != "" {
		conditions = append(conditions, fmt.Sprintf("dia = $%d", len(args)+1))
		args = append(args, filter.DayOfWeek)
	}

	query := base
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY dia, hora_inicio"

	var slots []models.Schedule
	if err := r.db.SelectContext(ctx, &slots, query, args...); err != nil {
		return nil, fmt.Errorf("list schedules: %w", err)
	}
	return slots, nil
}

// FindByID returns a schedule slot by its ID.
func (r *ScheduleRepository) FindByID(ctx context.Context, id string) (*models.Schedule, error) {
	const query = `SELECT id, tutor_id, dia, hora_inicio, hora_fin, created_at FROM horario WHERE id = $1`
	var slot models.Schedule
	if err := r.db.GetContext(ctx, &slot, query, id); err != nil {
		return nil, err
	}
	return &slot, nil
}

// Create persists a new schedule slot.
func (r *ScheduleRepository) Create(ctx context.Context, slot *models.Schedule) error {
	if slot.ID == "" {
		slot.ID = uuid.NewString()
	}
	slot.CreatedAt = time.Now().UTC()
	const query = `INSERT INTO horario (id, tutor_id, dia, hora_inicio, hora_fin, created_at)
        VALUES (:id, :tutor_id, :dia, :hora_inicio, :hora_fin, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, slot); err != nil {
		return fmt.Errorf("create schedule: %w", err)
	}
	return nil
}

// Delete removes a schedule slot.
func (r *ScheduleRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM horario WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("delete schedule: %w", err)
	}
	return nil
}
