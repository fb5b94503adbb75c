package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/grupo16/tutoring-center-api/internal/models"
	"github.com/grupo16/tutoring-center-api/internal/service"
	appErrors "github.com/grupo16/tutoring-center-api/pkg/errors"
	"github.com/grupo16/tutoring-center-api/pkg/response"
)

// ScheduleHandler exposes tutor availability endpoints.
type ScheduleHandler struct {
	schedules *service.ScheduleService
}

// NewScheduleHandler constructs ScheduleHandler.
func NewScheduleHandler(schedules *service.ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{schedules: schedules}
}

// List godoc
// @Summary List availability slots
// @Tags Horarios
// @Produce json
// @Param tutorId query string false "Filter by tutor"
// @Param dia query string false "Filter by day of week"
// @Success 200 {object} response.Envelope
// @Router /horarios [get]
func (h *ScheduleHandler) List(c *gin.Context) {
	filter := models.ScheduleFilter{
		TutorID:   c.Query("tutorId"),
		DayOfWeek: c.Query("dia"),
	}
	schedules, err := h.schedules.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, schedules, nil)
}

// Create godoc
// @Summary Create an availability slot for a tutor
// @Tags Horarios
// @Accept json
// @Produce json
// @Param payload body service.CreateScheduleRequest true "Slot payload"
// @Success 201 {object} response.Envelope
// @Router /horarios [post]
func (h *ScheduleHandler) Create(c *gin.Context) {
	var req service.CreateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	schedule, err := h.schedules.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, schedule)
}

// Delete godoc
// @Summary Delete an availability slot
// @Tags Horarios
// @Produce json
// @Param id path string true "Schedule ID"
// @Success 204
// @Router /horarios/{id} [delete]
func (h *ScheduleHandler) Delete(c *gin.Context) {
	if err := h.schedules.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
