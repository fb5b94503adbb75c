package models

import "time"

// ClassReport is the tutor's write-up for one delivered class session.
// At most one report exists per (enrollment, date).
type ClassReport struct {
	ID               string    `db:"id" json:"id"`
	EnrollmentID     string    `db:"inscripcion_id" json:"enrollment_id"`
	Date             time.Time `db:"fecha" json:"date"`
	TopicsCovered    string    `db:"temas_vistos" json:"topics_covered"`
	AssignedHomework *string   `db:"tareas_asignadas" json:"assigned_homework,omitempty"`
	Comprehension    *string   `db:"nivel_comprension" json:"comprehension,omitempty"`
	Participation    *string   `db:"participacion" json:"participation,omitempty"`
	Grade            *float64  `db:"calificacion" json:"grade,omitempty"`
	Summary          *string   `db:"resumen" json:"summary,omitempty"`
	Notes            *string   `db:"observaciones" json:"notes,omitempty"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time `db:"updated_at" json:"updated_at"`
}

// ClassReportFilter scopes report listing queries.
type ClassReportFilter struct {
	EnrollmentID string
	TutorID      string
	DateFrom     *time.Time
	DateTo       *time.Time
	Page         int
	PageSize     int
}
