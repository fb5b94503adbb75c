package models

import "time"

// ReprogrammingStatus represents the state of a rescheduled makeup class.
type ReprogrammingStatus string

const (
	ReprogrammingStatusScheduled ReprogrammingStatus = "programada"
	ReprogrammingStatusDone      ReprogrammingStatus = "realizada"
	ReprogrammingStatusCancelled ReprogrammingStatus = "cancelada"
)

// Valid returns true when the status is a supported value.
func (s ReprogrammingStatus) Valid() bool {
	switch s {
	case ReprogrammingStatusScheduled, ReprogrammingStatusDone, ReprogrammingStatusCancelled:
		return true
	default:
		return false
	}
}

// Reprogramming proposes a new date for the class an approved license covers.
type Reprogramming struct {
	ID           string              `db:"id" json:"id"`
	LicenseID    string              `db:"licencia_id" json:"license_id"`
	OriginalDate time.Time           `db:"fecha_original" json:"original_date"`
	NewDate      time.Time           `db:"fecha_nueva" json:"new_date"`
	Status       ReprogrammingStatus `db:"estado" json:"status"`
	Notes        *string             `db:"observaciones" json:"notes,omitempty"`
	CreatedAt    time.Time           `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time           `db:"updated_at" json:"updated_at"`
}

// ReprogrammingFilter scopes reprogramming listing queries.
type ReprogrammingFilter struct {
	LicenseID string
	Status    ReprogrammingStatus
	DateFrom  *time.Time
	DateTo    *time.Time
	Page      int
	PageSize  int
}
