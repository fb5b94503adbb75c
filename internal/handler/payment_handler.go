package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/grupo16/tutoring-center-api/internal/models"
	"github.com/grupo16/tutoring-center-api/internal/service"
	appErrors "github.com/grupo16/tutoring-center-api/pkg/errors"
	"github.com/grupo16/tutoring-center-api/pkg/response"
)

// PaymentHandler exposes payment and QR gateway endpoints.
type PaymentHandler struct {
	payments *service.PaymentService
}

// NewPaymentHandler constructs PaymentHandler.
func NewPaymentHandler(payments *service.PaymentService) *PaymentHandler {
	return &PaymentHandler{payments: payments}
}

// List godoc
// @Summary List payments
// @Tags Pagos
// @Produce json
// @Param ventaId query string false "Filter by sale"
// @Param estado query string false "Filter by status"
// @Param from query string false "Start date"
// @Param to query string false "End date"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /pagos [get]
func (h *PaymentHandler) List(c *gin.Context) {
	var filter models.PaymentFilter
	filter.SaleID = c.Query("ventaId")
	filter.Status = models.PaymentStatus(c.Query("estado"))
	filter.DateFrom = parseDateQuery(c, "from")
	filter.DateTo = parseDateQuery(c, "to")
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		filter.Page = page
	}
	if size, err := strconv.Atoi(c.DefaultQuery("limit", "20")); err == nil {
		filter.PageSize = size
	}

	payments, pagination, err := h.payments.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, payments, pagination)
}

// Get godoc
// @Summary Get one payment
// @Tags Pagos
// @Produce json
// @Param id path string true "Payment ID"
// @Success 200 {object} response.Envelope
// @Router /pagos/{id} [get]
func (h *PaymentHandler) Get(c *gin.Context) {
	payment, err := h.payments.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, payment, nil)
}

// Create godoc
// @Summary Record a manual payment against a sale
// @Tags Pagos
// @Accept json
// @Produce json
// @Param payload body service.RecordPaymentRequest true "Payment payload"
// @Success 201 {object} response.Envelope
// @Router /pagos [post]
func (h *PaymentHandler) Create(c *gin.Context) {
	var req service.RecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	if req.RegisteredBy == nil {
		if claims := claimsFromContext(c); claims != nil {
			req.RegisteredBy = &claims.PrincipalID
		}
	}
	payment, err := h.payments.Record(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, payment)
}

// InitiateQR godoc
// @Summary Request a PagoFacil QR for a sale
// @Tags Pagos
// @Accept json
// @Produce json
// @Param payload body service.InitiateQRPaymentRequest true "QR payload"
// @Success 201 {object} response.Envelope
// @Router /pagos/qr [post]
func (h *PaymentHandler) InitiateQR(c *gin.Context) {
	var req service.InitiateQRPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	result, err := h.payments.InitiateQR(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// Callback godoc
// @Summary PagoFacil settlement webhook
// @Tags Pagos
// @Accept json
// @Produce json
// @Param payload body models.GatewayCallbackRequest true "Gateway notification"
// @Success 200 {object} models.GatewayCallbackAck
// @Router /pagos/callback [post]
func (h *PaymentHandler) Callback(c *gin.Context) {
	var req models.GatewayCallbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		// The gateway retries on anything but a positive ack, so even a
		// malformed body gets one.
		c.JSON(http.StatusOK, models.GatewayCallbackAck{
			Error:   0,
			Status:  1,
			Message: "callback received",
			Values:  true,
		})
		return
	}
	ack := h.payments.HandleCallback(c.Request.Context(), req)
	c.JSON(http.StatusOK, ack)
}

// QueryStatus godoc
// @Summary Reconcile a pending QR payment against the gateway
// @Tags Pagos
// @Produce json
// @Param id path string true "Payment ID"
// @Success 200 {object} response.Envelope
// @Router /pagos/{id}/estado [get]
func (h *PaymentHandler) QueryStatus(c *gin.Context) {
	payment, err := h.payments.QueryGatewayStatus(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, payment, nil)
}

// Receipt godoc
// @Summary Download the PDF receipt for a settled payment
// @Tags Pagos
// @Produce application/pdf
// @Param id path string true "Payment ID"
// @Success 200 {string} string "PDF document"
// @Router /pagos/{id}/recibo [get]
func (h *PaymentHandler) Receipt(c *gin.Context) {
	data, err := h.payments.Receipt(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	filename := fmt.Sprintf("recibo_%s.pdf", c.Param("id"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/pdf", data)
}
