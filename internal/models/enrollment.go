package models

import "time"

// EnrollmentStatus represents the lifecycle of an enrollment.
type EnrollmentStatus string

// Possible enrollment statuses.
const (
	EnrollmentStatusActive    EnrollmentStatus = "activo"
	EnrollmentStatusWithdrawn EnrollmentStatus = "retirado"
	EnrollmentStatusFinished  EnrollmentStatus = "finalizado"
)

// Valid returns true when the status is a supported value.
func (s EnrollmentStatus) Valid() bool {
	switch s {
	case EnrollmentStatusActive, EnrollmentStatusWithdrawn, EnrollmentStatusFinished:
		return true
	default:
		return false
	}
}

// Enrollment registers a student with a tutor for one service.
type Enrollment struct {
	ID             string           `db:"id" json:"id"`
	ServiceID      string           `db:"id_servicio" json:"service_id"`
	StudentID      string           `db:"alumno_id" json:"student_id"`
	TutorID        string           `db:"tutor_id" json:"tutor_id"`
	EnrollmentDate time.Time        `db:"fecha_inscripcion" json:"enrollment_date"`
	Status         EnrollmentStatus `db:"estado" json:"status"`
	Notes          *string          `db:"observaciones" json:"notes,omitempty"`
	CreatedAt      time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time        `db:"updated_at" json:"updated_at"`
}

// EnrollmentDetail enriches Enrollment with directory names.
type EnrollmentDetail struct {
	Enrollment
	StudentName string `db:"alumno_nombre" json:"student_name"`
	TutorName   string `db:"tutor_nombre" json:"tutor_name"`
	ServiceName string `db:"servicio_nombre" json:"service_name"`
}

// EnrollmentFilter provides filters for listing enrollments.
type EnrollmentFilter struct {
	StudentID string
	TutorID   string
	ServiceID string
	Status    EnrollmentStatus
	Page      int
	PageSize  int
}
