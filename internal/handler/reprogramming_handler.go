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

// ReprogrammingHandler exposes make-up class endpoints.
type ReprogrammingHandler struct {
	reprogrammings *service.ReprogrammingService
}

// NewReprogrammingHandler constructs ReprogrammingHandler.
func NewReprogrammingHandler(reprogrammings *service.ReprogrammingService) *ReprogrammingHandler {
	return &ReprogrammingHandler{reprogrammings: reprogrammings}
}

type scheduleMakeupPayload struct {
	LicenseID    string  `json:"license_id" binding:"required"`
	OriginalDate *string `json:"original_date,omitempty"`
	NewDate      string  `json:"new_date" binding:"required"`
	Notes        *string `json:"notes,omitempty"`
}

// List godoc
// @Summary List make-up classes
// @Tags Reprogramaciones
// @Produce json
// @Param licenciaId query string false "Filter by license"
// @Param estado query string false "Filter by status"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /reprogramaciones [get]
func (h *ReprogrammingHandler) List(c *gin.Context) {
	var filter models.ReprogrammingFilter
	filter.LicenseID = c.Query("licenciaId")
	filter.Status = models.ReprogrammingStatus(c.Query("estado"))
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		filter.Page = page
	}
	if size, err := strconv.Atoi(c.DefaultQuery("limit", "20")); err == nil {
		filter.PageSize = size
	}

	reprogrammings, pagination, err := h.reprogrammings.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, reprogrammings, pagination)
}

// Get godoc
// @Summary Get one make-up class
// @Tags Reprogramaciones
// @Produce json
// @Param id path string true "Reprogramming ID"
// @Success 200 {object} response.Envelope
// @Router /reprogramaciones/{id} [get]
func (h *ReprogrammingHandler) Get(c *gin.Context) {
	reprogramming, err := h.reprogrammings.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, reprogramming, nil)
}

// Create godoc
// @Summary Schedule a make-up class for an approved license
// @Tags Reprogramaciones
// @Accept json
// @Produce json
// @Param payload body scheduleMakeupPayload true "Make-up payload"
// @Success 201 {object} response.Envelope
// @Router /reprogramaciones [post]
func (h *ReprogrammingHandler) Create(c *gin.Context) {
	var payload scheduleMakeupPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	newDate, err := parseDate(payload.NewDate)
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid new_date format"))
		return
	}

	req := service.ScheduleMakeupRequest{
		LicenseID: payload.LicenseID,
		NewDate:   newDate,
		Notes:     payload.Notes,
	}
	if payload.OriginalDate != nil {
		originalDate, err := parseDate(*payload.OriginalDate)
		if err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid original_date format"))
			return
		}
		req.OriginalDate = &originalDate
	}

	reprogramming, err := h.reprogrammings.Schedule(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, reprogramming)
}

// MarkDone godoc
// @Summary Mark a make-up class as done
// @Tags Reprogramaciones
// @Produce json
// @Param id path string true "Reprogramming ID"
// @Success 200 {object} response.Envelope
// @Router /reprogramaciones/{id}/realizar [put]
func (h *ReprogrammingHandler) MarkDone(c *gin.Context) {
	reprogramming, err := h.reprogrammings.MarkDone(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, reprogramming, nil)
}

// Cancel godoc
// @Summary Cancel a scheduled make-up class
// @Tags Reprogramaciones
// @Produce json
// @Param id path string true "Reprogramming ID"
// @Success 200 {object} response.Envelope
// @Router /reprogramaciones/{id}/cancelar [put]
func (h *ReprogrammingHandler) Cancel(c *gin.Context) {
	reprogramming, err := h.reprogrammings.Cancel(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, reprogramming, nil)
}

// Delete godoc
// @Summary Delete a make-up class
// @Tags Reprogramaciones
// @Produce json
// @Param id path string true "Reprogramming ID"
// @Success 204
// @Router /reprogramaciones/{id} [delete]
func (h *ReprogrammingHandler) Delete(c *gin.Context) {
	if err := h.reprogrammings.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
