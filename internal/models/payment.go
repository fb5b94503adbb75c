package models

import "time"

// PaymentStatus distinguishes settled payments from QR payments awaiting the
// gateway confirmation. Only "pagado" rows count toward a sale's balance.
type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pendiente"
	PaymentStatusPaid    PaymentStatus = "pagado"
)

// Payment is a single settlement event against a sale.
type Payment struct {
	ID            string        `db:"id" json:"id"`
	SaleID        string        `db:"venta_id" json:"sale_id"`
	Amount        float64       `db:"monto" json:"amount"`
	PaymentDate   time.Time     `db:"fecha_pago" json:"payment_date"`
	Method        *string       `db:"metodo_pago" json:"method,omitempty"`
	Notes         *string       `db:"observaciones" json:"notes,omitempty"`
	Status        PaymentStatus `db:"estado" json:"status"`
	RegisteredBy  *string       `db:"registrado_por" json:"registered_by,omitempty"`
	GatewayTxnID  *string       `db:"pagofacil_transaction_id" json:"gateway_transaction_id,omitempty"`
	CompanyTxnID  *string       `db:"company_transaction_id" json:"company_transaction_id,omitempty"`
	CreatedAt     time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time     `db:"updated_at" json:"updated_at"`
}

// PaymentFilter scopes payment listing queries.
type PaymentFilter struct {
	SaleID   string
	Status   PaymentStatus
	DateFrom *time.Time
	DateTo   *time.Time
	Page     int
	PageSize int
}

// GatewayCallbackRequest is the webhook body PagoFacil posts after a QR scan.
// Field names follow the gateway contract.
type GatewayCallbackRequest struct {
	PedidoID   string `json:"PedidoID" binding:"required"`
	Fecha      string `json:"Fecha" binding:"required"`
	Hora       string `json:"Hora" binding:"required"`
	MetodoPago int    `json:"MetodoPago" binding:"required"`
	Estado     int    `json:"Estado" binding:"required"`
}

// GatewayCallbackAck is the acknowledgement envelope the gateway expects.
// Always error=0/status=1 so the gateway stops retrying.
type GatewayCallbackAck struct {
	Error   int    `json:"error"`
	Status  int    `json:"status"`
	Message string `json:"message"`
	Values  bool   `json:"values"`
}

// GatewayPaymentResult bundles the persisted payment with the QR payload
// returned to the client for display.
type GatewayPaymentResult struct {
	Payment      Payment `json:"payment"`
	QRImage      string  `json:"qr_image"`
	GatewayTxnID string  `json:"gateway_transaction_id"`
	CompanyTxnID string  `json:"company_transaction_id"`
	ExpiresAt    *string `json:"expires_at,omitempty"`
}
