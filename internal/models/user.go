package models

import "time"

// Account is a row of the shared usuario table. Owners, tutors and students
// each reference one account.
type Account struct {
	ID           string    `db:"id" json:"id"`
	FirstName    string    `db:"nombre" json:"first_name"`
	LastName     string    `db:"apellido" json:"last_name"`
	Email        string    `db:"email" json:"email"`
	Phone        *string   `db:"telefono" json:"phone,omitempty"`
	PasswordHash string    `db:"password" json:"-"`
	Active       bool      `db:"activo" json:"active"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// PrincipalAccount joins an account with the principal row that owns it.
// Produced by the login lookup that unions the three principal tables.
type PrincipalAccount struct {
	Account
	PrincipalID string `db:"principal_id"`
	Role        Role   `db:"role"`
}

// FullName returns the display name of the account.
func (a Account) FullName() string {
	if a.LastName == "" {
		return a.FirstName
	}
	return a.FirstName + " " + a.LastName
}

// Student is a student directory row.
type Student struct {
	ID     string  `db:"id" json:"id"`
	UserID string  `db:"user_id" json:"user_id"`
	CI     string  `db:"ci" json:"ci"`
	Code   *string `db:"codigo" json:"code,omitempty"`
}

// StudentBilling carries the student fields the payment gateway needs.
type StudentBilling struct {
	StudentID   string  `db:"student_id"`
	FullName    string  `db:"full_name"`
	CI          string  `db:"ci"`
	Code        *string `db:"codigo"`
	Phone       *string `db:"telefono"`
	Email       string  `db:"email"`
	ServiceName string  `db:"servicio_nombre"`
}

// Tutor is a tutor directory row.
type Tutor struct {
	ID        string  `db:"id" json:"id"`
	UserID    string  `db:"user_id" json:"user_id"`
	Specialty *string `db:"especialidad" json:"specialty,omitempty"`
}

// Owner is an owner directory row.
type Owner struct {
	ID     string `db:"id" json:"id"`
	UserID string `db:"user_id" json:"user_id"`
}
