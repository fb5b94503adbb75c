package models

import "time"

// AttendanceStatus represents the status of a dated attendance record.
type AttendanceStatus string

const (
	AttendanceStatusPresent   AttendanceStatus = "presente"
	AttendanceStatusAbsent    AttendanceStatus = "ausente"
	AttendanceStatusLate      AttendanceStatus = "tardanza"
	AttendanceStatusExcused   AttendanceStatus = "justificado"
	AttendanceStatusRecovered AttendanceStatus = "recuperada"
)

// Valid returns true when the status is a supported value.
func (s AttendanceStatus) Valid() bool {
	switch s {
	case AttendanceStatusPresent, AttendanceStatusAbsent, AttendanceStatusLate,
		AttendanceStatusExcused, AttendanceStatusRecovered:
		return true
	default:
		return false
	}
}

// Attendance is one presence record per enrollment per calendar date.
type Attendance struct {
	ID           string           `db:"id" json:"id"`
	EnrollmentID string           `db:"inscripcion_id" json:"enrollment_id"`
	Date         time.Time        `db:"fecha" json:"date"`
	Status       AttendanceStatus `db:"estado" json:"status"`
	Notes        *string          `db:"observaciones" json:"notes,omitempty"`
	CreatedAt    time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time        `db:"updated_at" json:"updated_at"`
}

// AttendanceDetail extends Attendance with student and tutor names.
type AttendanceDetail struct {
	Attendance
	StudentName string `db:"alumno_nombre" json:"student_name"`
	TutorName   string `db:"tutor_nombre" json:"tutor_name"`
}

// AttendanceFilter scopes attendance listing queries.
type AttendanceFilter struct {
	EnrollmentID string
	TutorID      string
	Status       AttendanceStatus
	DateFrom     *time.Time
	DateTo       *time.Time
	Page         int
	PageSize     int
}

// AttendancePatch carries the optional fields of an attendance update.
type AttendancePatch struct {
	Date   *time.Time        `json:"date,omitempty"`
	Status *AttendanceStatus `json:"status,omitempty"`
	Notes  *string           `json:"notes,omitempty"`
}
