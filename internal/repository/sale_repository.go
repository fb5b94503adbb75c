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

// SaleRepository handles persistence of sales.
type SaleRepository struct {
	db *sqlx.DB
}

// NewSaleRepository constructs the repository.
func NewSaleRepository(db *sqlx.DB) *SaleRepository {
	return &SaleRepository{db: db}
}

// List returns sales filtered by the provided criteria.
func (r *SaleRepository) List(ctx context.Context, filter models.SaleFilter) ([]models.SaleDetail, int, error) {
	base := `FROM venta v
JOIN inscripcion i ON i.id = v.inscripcion_id
JOIN alumno al ON al.id = i.alumno_id
JOIN usuario u ON u.id = al.user_id
JOIN servicio s ON s.id = i.id_servicio`
	var conditions []string
	var args []interface{}

	if filter.EnrollmentID != "" {
		conditions = append(conditions, fmt.Sprintf("v.inscripcion_id = $%d", len(args)+1))
		args = append(args, filter.EnrollmentID)
	}
	if filter.StudentID != "" {
		conditions = append(conditions, fmt.Sprintf("i.alumno_id = $%d", len(args)+1))
		args = append(args, filter.StudentID)
	}
	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("v.estado = $%d", len(args)+1))
		args = append(args, filter.Status)
	}
	if filter.SaleType != "" {
		conditions = append(conditions, fmt.Sprintf("v.tipo_venta = $%d", len(args)+1))
		args = append(args, filter.SaleType)
	}
	if filter.Period != "" {
		conditions = append(conditions, fmt.Sprintf("v.mes_correspondiente = $%d", len(args)+1))
		args = append(args, filter.Period)
	}

	clause := ""
	if len(conditions) > 0 {
		clause = " WHERE " + strings.Join(conditions, " AND ")
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	query := fmt.Sprintf(`SELECT v.id, v.inscripcion_id, v.propietario_id, v.tipo_venta, v.monto_total, v.monto_pagado,
        v.saldo_pendiente, v.mes_correspondiente, v.fecha_venta, v.fecha_vencimiento, v.estado, v.created_at, v.updated_at,
        u.nombre || ' ' || u.apellido AS alumno_nombre, s.nombre AS servicio_nombre
        %s ORDER BY v.fecha_venta DESC LIMIT %d OFFSET %d`, base+clause, size, offset)

	var sales []models.SaleDetail
	if err := r.db.SelectContext(ctx, &sales, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list sales: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base+clause)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count sales: %w", err)
	}
	return sales, total, nil
}

// FindByID returns a sale by its ID.
func (r *SaleRepository) FindByID(ctx context.Context, id string) (*models.Sale, error) {
	const query = `SELECT id, inscripcion_id, propietario_id, tipo_venta, monto_total, monto_pagado, saldo_pendiente,
        mes_correspondiente, fecha_venta, fecha_vencimiento, estado, created_at, updated_at FROM venta WHERE id = $1`
	var sale models.Sale
	if err := r.db.GetContext(ctx, &sale, query, id); err != nil {
		return nil, err
	}
	return &sale, nil
}

// Create persists a new sale.
func (r *SaleRepository) Create(ctx context.Context, sale *models.Sale) error {
	if sale.ID == "" {
		sale.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if sale.SaleDate.IsZero() {
		sale.SaleDate = now
	}
	sale.CreatedAt = now
	sale.UpdatedAt = now
	const query = `INSERT INTO venta (id, inscripcion_id, propietario_id, tipo_venta, monto_total, monto_pagado,
        saldo_pendiente, mes_correspondiente, fecha_venta, fecha_vencimiento, estado, created_at, updated_at)
        VALUES (:id, :inscripcion_id, :propietario_id, :tipo_venta, :monto_total, :monto_pagado,
        :saldo_pendiente, :mes_correspondiente, :fecha_venta, :fecha_vencimiento, :estado, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, sale); err != nil {
		return fmt.Errorf("create sale: %w", err)
	}
	return nil
}

// Summary aggregates sales by status.
func (r *SaleRepository) Summary(ctx context.Context) ([]models.SaleSummaryRow, error) {
	const query = `SELECT estado, COUNT(*) AS cantidad, SUM(monto_total) AS monto_total, SUM(monto_pagado) AS monto_pagado
        FROM venta GROUP BY estado`
	var rows []models.SaleSummaryRow
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("sales summary: %w", err)
	}
	return rows, nil
}

// FindBillingInfo loads the student and service fields the QR gateway needs
// for a sale.
func (r *SaleRepository) FindBillingInfo(ctx context.Context, saleID string) (*models.StudentBilling, error) {
	const query = `SELECT al.id AS student_id, u.nombre || ' ' || u.apellido AS full_name, al.ci, al.codigo, u.telefono,
        u.email, s.nombre AS servicio_nombre
        FROM venta v
        JOIN inscripcion i ON i.id = v.inscripcion_id
        JOIN alumno al ON al.id = i.alumno_id
        JOIN usuario u ON u.id = al.user_id
        JOIN servicio s ON s.id = i.id_servicio
        WHERE v.id = $1`
	var info models.StudentBilling
	if err := r.db.GetContext(ctx, &info, query, saleID); err != nil {
		return nil, err
	}
	return &info, nil
}
