package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/grupo16/tutoring-center-api/internal/models"
)

// UserRepository resolves accounts across the three principal tables.
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository constructs the repository.
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// FindPrincipalByEmail resolves an account and its principal kind in one
// query. The three principal tables share the usuario table, so a single
// UNION replaces the per-table runtime dispatch the login used to do.
func (r *UserRepository) FindPrincipalByEmail(ctx context.Context, email string) (*models.PrincipalAccount, error) {
	const query = `SELECT u.id, u.nombre, u.apellido, u.email, u.telefono, u.password, u.activo, u.created_at,
        p.id AS principal_id, 'propietario' AS role
        FROM usuario u JOIN propietario p ON p.user_id = u.id WHERE u.email = $1
        UNION ALL
        SELECT u.id, u.nombre, u.apellido, u.email, u.telefono, u.password, u.activo, u.created_at,
        t.id AS principal_id, 'tutor' AS role
        FROM usuario u JOIN tutor t ON t.user_id = u.id WHERE u.email = $1
        UNION ALL
        SELECT u.id, u.nombre, u.apellido, u.email, u.telefono, u.password, u.activo, u.created_at,
        a.id AS principal_id, 'alumno' AS role
        FROM usuario u JOIN alumno a ON a.user_id = u.id WHERE u.email = $1
        LIMIT 1`
	var account models.PrincipalAccount
	if err := r.db.GetContext(ctx, &account, query, email); err != nil {
		return nil, err
	}
	return &account, nil
}

// StudentExists reports whether the student directory row exists.
func (r *UserRepository) StudentExists(ctx context.Context, id string) (bool, error) {
	return r.exists(ctx, `SELECT 1 FROM alumno WHERE id = $1 LIMIT 1`, id)
}

// TutorExists reports whether the tutor directory row exists.
func (r *UserRepository) TutorExists(ctx context.Context, id string) (bool, error) {
	return r.exists(ctx, `SELECT 1 FROM tutor WHERE id = $1 LIMIT 1`, id)
}

// ServiceExists reports whether the service directory row exists.
func (r *UserRepository) ServiceExists(ctx context.Context, id string) (bool, error) {
	return r.exists(ctx, `SELECT 1 FROM servicio WHERE id = $1 LIMIT 1`, id)
}

func (r *UserRepository) exists(ctx context.Context, query, id string) (bool, error) {
	var one int
	if err := r.db.GetContext(ctx, &one, query, id); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check existence: %w", err)
	}
	return true, nil
}
