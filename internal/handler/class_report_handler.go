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

// ClassReportHandler exposes per-session report endpoints.
type ClassReportHandler struct {
	reports *service.ClassReportService
}

// NewClassReportHandler constructs ClassReportHandler.
func NewClassReportHandler(reports *service.ClassReportService) *ClassReportHandler {
	return &ClassReportHandler{reports: reports}
}

type createClassReportPayload struct {
	EnrollmentID     string   `json:"enrollment_id" binding:"required"`
	Date             string   `json:"date" binding:"required"`
	TopicsCovered    string   `json:"topics_covered" binding:"required"`
	AssignedHomework *string  `json:"assigned_homework,omitempty"`
	Comprehension    *string  `json:"comprehension,omitempty"`
	Participation    *string  `json:"participation,omitempty"`
	Grade            *float64 `json:"grade,omitempty"`
	Summary          *string  `json:"summary,omitempty"`
	Notes            *string  `json:"notes,omitempty"`
}

// List godoc
// @Summary List class reports
// @Tags Informes
// @Produce json
// @Param inscripcionId query string false "Filter by enrollment"
// @Param tutorId query string false "Filter by tutor"
// @Param from query string false "Start date"
// @Param to query string false "End date"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /informes [get]
func (h *ClassReportHandler) List(c *gin.Context) {
	var filter models.ClassReportFilter
	filter.EnrollmentID = c.Query("inscripcionId")
	filter.TutorID = c.Query("tutorId")
	filter.DateFrom = parseDateQuery(c, "from")
	filter.DateTo = parseDateQuery(c, "to")
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		filter.Page = page
	}
	if size, err := strconv.Atoi(c.DefaultQuery("limit", "20")); err == nil {
		filter.PageSize = size
	}

	reports, pagination, err := h.reports.List(c.Request.Context(), principalFromContext(c), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, reports, pagination)
}

// Get godoc
// @Summary Get one class report
// @Tags Informes
// @Produce json
// @Param id path string true "Report ID"
// @Success 200 {object} response.Envelope
// @Router /informes/{id} [get]
func (h *ClassReportHandler) Get(c *gin.Context) {
	report, err := h.reports.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, report, nil)
}

// Create godoc
// @Summary Record a class report for an enrollment and date
// @Tags Informes
// @Accept json
// @Produce json
// @Param payload body createClassReportPayload true "Report payload"
// @Success 201 {object} response.Envelope
// @Router /informes [post]
func (h *ClassReportHandler) Create(c *gin.Context) {
	var payload createClassReportPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	date, err := parseDate(payload.Date)
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid date format"))
		return
	}

	report, err := h.reports.Create(c.Request.Context(), service.CreateClassReportRequest{
		EnrollmentID:     payload.EnrollmentID,
		Date:             date,
		TopicsCovered:    payload.TopicsCovered,
		AssignedHomework: payload.AssignedHomework,
		Comprehension:    payload.Comprehension,
		Participation:    payload.Participation,
		Grade:            payload.Grade,
		Summary:          payload.Summary,
		Notes:            payload.Notes,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, report)
}
