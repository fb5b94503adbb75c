package models

import "time"

// LicenseStatus represents the review state of an absence justification.
type LicenseStatus string

const (
	LicenseStatusPending  LicenseStatus = "pendiente"
	LicenseStatusApproved LicenseStatus = "aprobada"
	LicenseStatusRejected LicenseStatus = "rechazada"
)

// Valid returns true when the status is a supported value.
func (s LicenseStatus) Valid() bool {
	switch s {
	case LicenseStatusPending, LicenseStatusApproved, LicenseStatusRejected:
		return true
	default:
		return false
	}
}

// License is an absence-justification request tied 1:1 to an attendance row.
type License struct {
	ID           string        `db:"id" json:"id"`
	AttendanceID string        `db:"asistencia_id" json:"attendance_id"`
	Reason       string        `db:"motivo" json:"reason"`
	Status       LicenseStatus `db:"estado" json:"status"`
	RequestedAt  time.Time     `db:"fecha_solicitud" json:"requested_at"`
	CreatedAt    time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time     `db:"updated_at" json:"updated_at"`
}

// LicenseDetail extends License with the attendance date and student name.
type LicenseDetail struct {
	License
	AttendanceDate time.Time `db:"fecha" json:"attendance_date"`
	StudentName    string    `db:"alumno_nombre" json:"student_name"`
}

// LicenseFilter scopes license listing queries.
type LicenseFilter struct {
	AttendanceID string
	TutorID      string
	Status       LicenseStatus
	DateFrom     *time.Time
	DateTo       *time.Time
	Page         int
	PageSize     int
}
