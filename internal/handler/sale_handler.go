package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/grupo16/tutoring-center-api/internal/models"
	"github.com/grupo16/tutoring-center-api/internal/service"
	appErrors "github.com/grupo16/tutoring-center-api/pkg/errors"
	"github.com/grupo16/tutoring-center-api/pkg/response"
)

// SaleHandler exposes billing endpoints.
type SaleHandler struct {
	sales *service.SaleService
}

// NewSaleHandler constructs SaleHandler.
func NewSaleHandler(sales *service.SaleService) *SaleHandler {
	return &SaleHandler{sales: sales}
}

func saleFilterFromQuery(c *gin.Context) models.SaleFilter {
	var filter models.SaleFilter
	filter.EnrollmentID = c.Query("inscripcionId")
	filter.StudentID = c.Query("alumnoId")
	filter.Status = models.SaleStatus(c.Query("estado"))
	filter.SaleType = c.Query("tipo")
	filter.Period = c.Query("periodo")
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		filter.Page = page
	}
	if size, err := strconv.Atoi(c.DefaultQuery("limit", "20")); err == nil {
		filter.PageSize = size
	}
	return filter
}

// List godoc
// @Summary List sales
// @Tags Ventas
// @Produce json
// @Param inscripcionId query string false "Filter by enrollment"
// @Param alumnoId query string false "Filter by student"
// @Param estado query string false "Filter by status"
// @Param tipo query string false "Filter by sale type"
// @Param periodo query string false "Filter by billing period"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /ventas [get]
func (h *SaleHandler) List(c *gin.Context) {
	sales, pagination, err := h.sales.List(c.Request.Context(), principalFromContext(c), saleFilterFromQuery(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, sales, pagination)
}

// Get godoc
// @Summary Get one sale
// @Tags Ventas
// @Produce json
// @Param id path string true "Sale ID"
// @Success 200 {object} response.Envelope
// @Router /ventas/{id} [get]
func (h *SaleHandler) Get(c *gin.Context) {
	sale, err := h.sales.Get(c.Request.Context(), principalFromContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, sale, nil)
}

// Create godoc
// @Summary Create a sale for an active enrollment
// @Tags Ventas
// @Accept json
// @Produce json
// @Param payload body service.CreateSaleRequest true "Sale payload"
// @Success 201 {object} response.Envelope
// @Router /ventas [post]
func (h *SaleHandler) Create(c *gin.Context) {
	var req service.CreateSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	sale, err := h.sales.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, sale)
}

// Summary godoc
// @Summary Sales aggregated by status
// @Tags Ventas
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /ventas/resumen [get]
func (h *SaleHandler) Summary(c *gin.Context) {
	rows, err := h.sales.Summary(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rows, nil)
}

// Export godoc
// @Summary Download the filtered sales as CSV
// @Tags Ventas
// @Produce text/csv
// @Success 200 {string} string "CSV document"
// @Router /ventas/export [get]
func (h *SaleHandler) Export(c *gin.Context) {
	data, err := h.sales.ExportCSV(c.Request.Context(), principalFromContext(c), saleFilterFromQuery(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	filename := fmt.Sprintf("ventas_%s.csv", time.Now().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", data)
}
