package models

import "time"

// Schedule is a weekly availability slot offered by a tutor.
type Schedule struct {
	ID        string    `db:"id" json:"id"`
	TutorID   string    `db:"tutor_id" json:"tutor_id"`
	DayOfWeek string    `db:"dia" json:"day_of_week"`
	StartTime string    `db:"hora_inicio" json:"start_time"`
	EndTime   string    `db:"hora_fin" json:"end_time"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// ScheduleFilter scopes schedule listing queries.
type ScheduleFilter struct {
	TutorID   string
	DayOfWeek string
}
