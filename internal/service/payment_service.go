package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math/rand"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/grupo16/tutoring-center-api/internal/gateway"
	"github.com/grupo16/tutoring-center-api/internal/models"
	appErrors "github.com/grupo16/tutoring-center-api/pkg/errors"
	"github.com/grupo16/tutoring-center-api/pkg/export"
)

const companyTxnAttempts = 5

type paymentRepository interface {
	List(ctx context.Context, filter models.PaymentFilter) ([]models.Payment, int, error)
	FindByID(ctx context.Context, id string) (*models.Payment, error)
	FindByCompanyTxn(ctx context.Context, companyTxnID string) (*models.Payment, error)
	CompanyTxnExists(ctx context.Context, companyTxnID string) (bool, error)
	CreateSettled(ctx context.Context, payment *models.Payment) error
	CreatePending(ctx context.Context, payment *models.Payment) error
	Settle(ctx context.Context, companyTxnID, method, notes string) (*models.Payment, bool, error)
}

type saleReader interface {
	FindByID(ctx context.Context, id string) (*models.Sale, error)
	FindBillingInfo(ctx context.Context, saleID string) (*models.StudentBilling, error)
}

type qrGateway interface {
	GenerateQR(ctx context.Context, req gateway.QRRequest) (*gateway.QRResponse, error)
	QueryTransaction(ctx context.Context, gatewayTxnID, companyTxnID string) (*gateway.TransactionStatus, error)
}

// RecordPaymentRequest describes a manual payment payload.
type RecordPaymentRequest struct {
	SaleID       string  `json:"sale_id" validate:"required"`
	Amount       float64 `json:"amount" validate:"required,gt=0"`
	Method       string  `json:"method" validate:"required"`
	Notes        *string `json:"notes,omitempty"`
	RegisteredBy *string `json:"registered_by,omitempty"`
}

// InitiateQRPaymentRequest describes a gateway payment payload.
type InitiateQRPaymentRequest struct {
	SaleID string  `json:"sale_id" validate:"required"`
	Amount float64 `json:"amount" validate:"required,gt=0"`
}

// PaymentService orchestrates manual and QR-gateway payments.
type PaymentService struct {
	repo      paymentRepository
	sales     saleReader
	gateway   qrGateway
	receipts  *export.ReceiptExporter
	metrics   *MetricsService
	txnPrefix string
	callback  string
	validator *validator.Validate
	logger    *zap.Logger
}

// NewPaymentService constructs PaymentService.
func NewPaymentService(repo paymentRepository, sales saleReader, gw qrGateway, receipts *export.ReceiptExporter, txnPrefix, callbackURL string, validate *validator.Validate, logger *zap.Logger) *PaymentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if receipts == nil {
		receipts = export.NewReceiptExporter("")
	}
	return &PaymentService{
		repo:      repo,
		sales:     sales,
		gateway:   gw,
		receipts:  receipts,
		txnPrefix: txnPrefix,
		callback:  callbackURL,
		validator: validate,
		logger:    logger,
	}
}

// WithMetrics attaches the Prometheus instrumentation. Nil-safe observers
// keep the service usable without it.
func (s *PaymentService) WithMetrics(m *MetricsService) *PaymentService {
	s.metrics = m
	return s
}

// List returns payments with pagination metadata.
func (s *PaymentService) List(ctx context.Context, filter models.PaymentFilter) ([]models.Payment, *models.Pagination, error) {
	payments, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list payments")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 {
		size = 20
	}
	pagination := &models.Pagination{Page: page, PageSize: size, TotalCount: total}
	return payments, pagination, nil
}

// Get returns one payment.
func (s *PaymentService) Get(ctx context.Context, id string) (*models.Payment, error) {
	payment, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "payment not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load payment")
	}
	return payment, nil
}

// Record registers an already-collected payment (cash, transfer) and settles
// it immediately against the sale balance.
func (s *PaymentService) Record(ctx context.Context, req RecordPaymentRequest) (*models.Payment, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payment payload")
	}

	sale, err := s.sales.FindByID(ctx, req.SaleID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "sale not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load sale")
	}
	if sale.Status == models.SaleStatusPaid {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "sale is already fully paid")
	}
	if req.Amount > sale.PendingBalance {
		return nil, appErrors.Clone(appErrors.ErrValidation, "amount exceeds the pending balance")
	}

	payment := &models.Payment{
		SaleID:       req.SaleID,
		Amount:       req.Amount,
		Method:       &req.Method,
		Notes:        req.Notes,
		RegisteredBy: req.RegisteredBy,
	}
	if err := s.repo.CreateSettled(ctx, payment); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record payment")
	}
	s.metrics.ObserveSettlement()
	return payment, nil
}

// InitiateQR asks the gateway for a payment QR and persists a pending payment
// only after the gateway accepted the order. A gateway failure leaves no row
// behind.
func (s *PaymentService) InitiateQR(ctx context.Context, req InitiateQRPaymentRequest) (*models.GatewayPaymentResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payment payload")
	}

	sale, err := s.sales.FindByID(ctx, req.SaleID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "sale not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load sale")
	}
	if sale.Status == models.SaleStatusPaid {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "sale is already fully paid")
	}
	if req.Amount > sale.PendingBalance {
		return nil, appErrors.Clone(appErrors.ErrValidation, "amount exceeds the pending balance")
	}

	billing, err := s.sales.FindBillingInfo(ctx, req.SaleID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load billing info")
	}

	companyTxnID, err := s.newCompanyTxnID(ctx)
	if err != nil {
		return nil, err
	}

	phone := ""
	if billing.Phone != nil {
		phone = *billing.Phone
	}
	clientCode := billing.CI
	if billing.Code != nil && *billing.Code != "" {
		clientCode = *billing.Code
	}

	qr, err := s.gateway.GenerateQR(ctx, gateway.QRRequest{
		PaymentMethod: 4,
		ClientName:    billing.FullName,
		DocumentType:  1,
		DocumentID:    billing.CI,
		PhoneNumber:   phone,
		Email:         billing.Email,
		PaymentNumber: companyTxnID,
		Amount:        req.Amount,
		Currency:      2,
		ClientCode:    clientCode,
		CallbackURL:   s.callback,
		OrderDetail: []gateway.OrderDetail{{
			Serial:   1,
			Product:  billing.ServiceName,
			Quantity: 1,
			Price:    req.Amount,
			Total:    req.Amount,
		}},
	})
	s.metrics.ObserveGatewayCall("generate_qr", err)
	if err != nil {
		return nil, err
	}

	method := "QR"
	payment := &models.Payment{
		SaleID:       req.SaleID,
		Amount:       req.Amount,
		Method:       &method,
		GatewayTxnID: &qr.TransactionID,
		CompanyTxnID: &companyTxnID,
	}
	if err := s.repo.CreatePending(ctx, payment); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist pending payment")
	}

	return &models.GatewayPaymentResult{
		Payment:      *payment,
		QRImage:      qr.QRImage,
		GatewayTxnID: qr.TransactionID,
		CompanyTxnID: companyTxnID,
		ExpiresAt:    qr.ExpirationDate,
	}, nil
}

// HandleCallback processes the gateway webhook. The ack is always positive:
// the gateway retries on anything else and a retry cannot make an unknown
// transaction known.
func (s *PaymentService) HandleCallback(ctx context.Context, req models.GatewayCallbackRequest) models.GatewayCallbackAck {
	ack := models.GatewayCallbackAck{Error: 0, Status: 1, Message: "callback received", Values: true}

	payment, err := s.repo.FindByCompanyTxn(ctx, req.PedidoID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			s.logger.Warn("callback for unknown transaction", zap.String("pedido_id", req.PedidoID))
		} else {
			s.logger.Error("callback lookup failed", zap.String("pedido_id", req.PedidoID), zap.Error(err))
		}
		return ack
	}

	if req.Estado != gateway.PaymentStatusCompleted {
		s.logger.Info("callback reported unpaid state",
			zap.String("pedido_id", req.PedidoID),
			zap.Int("estado", req.Estado))
		return ack
	}

	notes := fmt.Sprintf("Pago confirmado por PagoFacil el %s a las %s", req.Fecha, req.Hora)
	settled, changed, err := s.repo.Settle(ctx, req.PedidoID, "QR", notes)
	if err != nil {
		s.logger.Error("callback settlement failed", zap.String("pedido_id", req.PedidoID), zap.Error(err))
		return ack
	}
	if !changed {
		s.logger.Info("callback replay ignored", zap.String("pedido_id", req.PedidoID))
		return ack
	}

	s.metrics.ObserveSettlement()
	s.logger.Info("payment settled via callback",
		zap.String("payment_id", settled.ID),
		zap.String("sale_id", payment.SaleID),
		zap.String("pedido_id", req.PedidoID))
	return ack
}

// QueryGatewayStatus reconciles a pending QR payment by polling the gateway.
// Used when the callback never arrived.
func (s *PaymentService) QueryGatewayStatus(ctx context.Context, paymentID string) (*models.Payment, error) {
	payment, err := s.repo.FindByID(ctx, paymentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "payment not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load payment")
	}
	if payment.Status == models.PaymentStatusPaid {
		return payment, nil
	}
	if payment.CompanyTxnID == nil || payment.GatewayTxnID == nil {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "payment was not initiated through the gateway")
	}

	status, err := s.gateway.QueryTransaction(ctx, *payment.GatewayTxnID, *payment.CompanyTxnID)
	s.metrics.ObserveGatewayCall("query_transaction", err)
	if err != nil {
		return nil, err
	}
	if !status.Paid() {
		return payment, nil
	}

	settled, changed, err := s.repo.Settle(ctx, *payment.CompanyTxnID, "QR", "Pago confirmado por consulta a PagoFacil")
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to settle payment")
	}
	if changed {
		s.metrics.ObserveSettlement()
	}
	return settled, nil
}

// Receipt renders a PDF receipt for a settled payment.
func (s *PaymentService) Receipt(ctx context.Context, paymentID string) ([]byte, error) {
	payment, err := s.repo.FindByID(ctx, paymentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "payment not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load payment")
	}
	if payment.Status != models.PaymentStatusPaid {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "only settled payments have receipts")
	}

	sale, err := s.sales.FindByID(ctx, payment.SaleID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load sale")
	}
	billing, err := s.sales.FindBillingInfo(ctx, payment.SaleID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load billing info")
	}

	method := ""
	if payment.Method != nil {
		method = *payment.Method
	}
	txn := ""
	if payment.CompanyTxnID != nil {
		txn = *payment.CompanyTxnID
	}

	data, err := s.receipts.Render(export.Receipt{
		PaymentID:     payment.ID,
		SaleID:        sale.ID,
		StudentName:   billing.FullName,
		ServiceName:   billing.ServiceName,
		BillingPeriod: sale.BillingPeriod,
		Amount:        payment.Amount,
		Method:        method,
		PaymentDate:   payment.PaymentDate.Format("2006-01-02 15:04"),
		TransactionID: txn,
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render receipt")
	}
	return data, nil
}

// newCompanyTxnID generates a collision-checked order code for the gateway.
func (s *PaymentService) newCompanyTxnID(ctx context.Context) (string, error) {
	for i := 0; i < companyTxnAttempts; i++ {
		candidate := fmt.Sprintf("%s%05d", s.txnPrefix, rand.Intn(100000))
		exists, err := s.repo.CompanyTxnExists(ctx, candidate)
		if err != nil {
			return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to validate transaction code")
		}
		if !exists {
			return candidate, nil
		}
	}
	return "", appErrors.Clone(appErrors.ErrInternal, "could not allocate a transaction code")
}
