package models

import "time"

// SaleStatus is derived from the pending balance, never set directly.
type SaleStatus string

const (
	SaleStatusPending SaleStatus = "pendiente"
	SaleStatusPartial SaleStatus = "parcial"
	SaleStatusPaid    SaleStatus = "pagado"
)

// DeriveSaleStatus computes the sale status from its amounts.
func DeriveSaleStatus(paid, pending float64) SaleStatus {
	switch {
	case pending <= 0:
		return SaleStatusPaid
	case paid > 0:
		return SaleStatusPartial
	default:
		return SaleStatusPending
	}
}

// Sale is the billing record of an enrollment for one billing period.
type Sale struct {
	ID             string     `db:"id" json:"id"`
	EnrollmentID   string     `db:"inscripcion_id" json:"enrollment_id"`
	OwnerID        *string    `db:"propietario_id" json:"owner_id,omitempty"`
	SaleType       string     `db:"tipo_venta" json:"sale_type"`
	TotalAmount    float64    `db:"monto_total" json:"total_amount"`
	PaidAmount     float64    `db:"monto_pagado" json:"paid_amount"`
	PendingBalance float64    `db:"saldo_pendiente" json:"pending_balance"`
	BillingPeriod  string     `db:"mes_correspondiente" json:"billing_period"`
	SaleDate       time.Time  `db:"fecha_venta" json:"sale_date"`
	DueDate        *time.Time `db:"fecha_vencimiento" json:"due_date,omitempty"`
	Status         SaleStatus `db:"estado" json:"status"`
	CreatedAt      time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time  `db:"updated_at" json:"updated_at"`
}

// SaleDetail extends Sale with the student and service names.
type SaleDetail struct {
	Sale
	StudentName string `db:"alumno_nombre" json:"student_name"`
	ServiceName string `db:"servicio_nombre" json:"service_name"`
}

// SaleFilter scopes sale listing queries.
type SaleFilter struct {
	EnrollmentID string
	StudentID    string
	Status       SaleStatus
	SaleType     string
	Period       string
	Page         int
	PageSize     int
}

// SaleSummaryRow aggregates sales by status for the owner dashboard.
type SaleSummaryRow struct {
	Status      SaleStatus `db:"estado" json:"status"`
	Count       int        `db:"cantidad" json:"count"`
	TotalAmount float64    `db:"monto_total" json:"total_amount"`
	PaidAmount  float64    `db:"monto_pagado" json:"paid_amount"`
}
