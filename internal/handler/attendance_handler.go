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

// AttendanceHandler exposes attendance endpoints.
type AttendanceHandler struct {
	attendance *service.AttendanceService
}

// NewAttendanceHandler constructs AttendanceHandler.
func NewAttendanceHandler(attendance *service.AttendanceService) *AttendanceHandler {
	return &AttendanceHandler{attendance: attendance}
}

type recordAttendancePayload struct {
	EnrollmentID string  `json:"enrollment_id" binding:"required"`
	Date         string  `json:"date" binding:"required"`
	Status       string  `json:"status" binding:"required"`
	Notes        *string `json:"notes,omitempty"`
}

type updateAttendancePayload struct {
	Date   *string `json:"date,omitempty"`
	Status *string `json:"status,omitempty"`
	Notes  *string `json:"notes,omitempty"`
}

// List godoc
// @Summary List attendance records
// @Tags Asistencias
// @Produce json
// @Param inscripcionId query string false "Filter by enrollment"
// @Param estado query string false "Filter by status"
// @Param from query string false "Start date"
// @Param to query string false "End date"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /asistencias [get]
func (h *AttendanceHandler) List(c *gin.Context) {
	var filter models.AttendanceFilter
	filter.EnrollmentID = c.Query("inscripcionId")
	filter.TutorID = c.Query("tutorId")
	filter.Status = models.AttendanceStatus(c.Query("estado"))
	filter.DateFrom = parseDateQuery(c, "from")
	filter.DateTo = parseDateQuery(c, "to")
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		filter.Page = page
	}
	if size, err := strconv.Atoi(c.DefaultQuery("limit", "20")); err == nil {
		filter.PageSize = size
	}

	records, pagination, err := h.attendance.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, records, pagination)
}

// Get godoc
// @Summary Get one attendance record
// @Tags Asistencias
// @Produce json
// @Param id path string true "Attendance ID"
// @Success 200 {object} response.Envelope
// @Router /asistencias/{id} [get]
func (h *AttendanceHandler) Get(c *gin.Context) {
	record, err := h.attendance.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, record, nil)
}

// Create godoc
// @Summary Record attendance for an enrollment and date
// @Tags Asistencias
// @Accept json
// @Produce json
// @Param payload body recordAttendancePayload true "Attendance payload"
// @Success 201 {object} response.Envelope
// @Router /asistencias [post]
func (h *AttendanceHandler) Create(c *gin.Context) {
	var payload recordAttendancePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	date, err := parseDate(payload.Date)
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid date format"))
		return
	}

	record, err := h.attendance.Record(c.Request.Context(), service.RecordAttendanceRequest{
		EnrollmentID: payload.EnrollmentID,
		Date:         date,
		Status:       models.AttendanceStatus(payload.Status),
		Notes:        payload.Notes,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, record)
}

// Update godoc
// @Summary Update an attendance record
// @Tags Asistencias
// @Accept json
// @Produce json
// @Param id path string true "Attendance ID"
// @Param payload body updateAttendancePayload true "Fields to update"
// @Success 200 {object} response.Envelope
// @Router /asistencias/{id} [put]
func (h *AttendanceHandler) Update(c *gin.Context) {
	var payload updateAttendancePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	var patch models.AttendancePatch
	if payload.Date != nil {
		date, err := parseDate(*payload.Date)
		if err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid date format"))
			return
		}
		patch.Date = &date
	}
	if payload.Status != nil {
		status := models.AttendanceStatus(*payload.Status)
		patch.Status = &status
	}
	patch.Notes = payload.Notes

	record, err := h.attendance.Update(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, record, nil)
}

// Delete godoc
// @Summary Delete an attendance record
// @Tags Asistencias
// @Produce json
// @Param id path string true "Attendance ID"
// @Success 204
// @Router /asistencias/{id} [delete]
func (h *AttendanceHandler) Delete(c *gin.Context) {
	if err := h.attendance.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
