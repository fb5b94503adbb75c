package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/grupo16/tutoring-center-api/internal/models"
	"github.com/grupo16/tutoring-center-api/internal/service"
	appErrors "github.com/grupo16/tutoring-center-api/pkg/errors"
	"github.com/grupo16/tutoring-center-api/pkg/response"
)

// LicenseHandler exposes license endpoints.
type LicenseHandler struct {
	licenses *service.LicenseService
}

// NewLicenseHandler constructs LicenseHandler.
func NewLicenseHandler(licenses *service.LicenseService) *LicenseHandler {
	return &LicenseHandler{licenses: licenses}
}

// List godoc
// @Summary List license requests
// @Tags Licencias
// @Produce json
// @Param asistenciaId query string false "Filter by attendance"
// @Param estado query string false "Filter by status"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /licencias [get]
func (h *LicenseHandler) List(c *gin.Context) {
	var filter models.LicenseFilter
	filter.AttendanceID = c.Query("asistenciaId")
	filter.Status = models.LicenseStatus(c.Query("estado"))
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		filter.Page = page
	}
	if size, err := strconv.Atoi(c.DefaultQuery("limit", "20")); err == nil {
		filter.PageSize = size
	}

	licenses, pagination, err := h.licenses.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, licenses, pagination)
}

// Get godoc
// @Summary Get one license
// @Tags Licencias
// @Produce json
// @Param id path string true "License ID"
// @Success 200 {object} response.Envelope
// @Router /licencias/{id} [get]
func (h *LicenseHandler) Get(c *gin.Context) {
	license, err := h.licenses.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, license, nil)
}

// Create godoc
// @Summary Request a license for an absence
// @Tags Licencias
// @Accept json
// @Produce json
// @Param payload body service.RequestLicenseRequest true "License payload"
// @Success 201 {object} response.Envelope
// @Router /licencias [post]
func (h *LicenseHandler) Create(c *gin.Context) {
	var req service.RequestLicenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	license, err := h.licenses.Request(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, license)
}

// Approve godoc
// @Summary Approve a pending license
// @Tags Licencias
// @Produce json
// @Param id path string true "License ID"
// @Success 200 {object} response.Envelope
// @Router /licencias/{id}/aprobar [put]
func (h *LicenseHandler) Approve(c *gin.Context) {
	license, err := h.licenses.Approve(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, license, nil)
}

// Reject godoc
// @Summary Reject a pending license
// @Tags Licencias
// @Produce json
// @Param id path string true "License ID"
// @Success 200 {object} response.Envelope
// @Router /licencias/{id}/rechazar [put]
func (h *LicenseHandler) Reject(c *gin.Context) {
	license, err := h.licenses.Reject(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, license, nil)
}

// Delete godoc
// @Summary Delete a license
// @Tags Licencias
// @Produce json
// @Param id path string true "License ID"
// @Success 204
// @Router /licencias/{id} [delete]
func (h *LicenseHandler) Delete(c *gin.Context) {
	if err := h.licenses.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
