package appointment

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ryanolv/doctor-agenda/internal/handler"
	"github.com/ryanolv/doctor-agenda/internal/model"
	appointmentService "github.com/ryanolv/doctor-agenda/internal/service/appointment"
	apperrors "github.com/ryanolv/doctor-agenda/pkg/errors"
)

type Handler struct {
	handler.BaseHandler
	service appointmentService.AppointmentServicer
}

func NewHandler(service appointmentService.AppointmentServicer) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	appointments := r.Group("/appointments")
	{
		appointments.GET("", h.ListAppointments)
		appointments.POST("", h.CreateAppointment)
		appointments.GET("/window", h.AppointmentsInWindow)
		appointments.GET("/:id", h.GetAppointment)
		appointments.PATCH("/:id/status", h.UpdateStatus)
	}
}

func (h *Handler) CreateAppointment(c *gin.Context) {
	var req model.CreateAppointmentRequest
	if !h.BindJSON(c, &req) {
		return
	}

	appointment, err := h.service.CreateAppointment(c.Request.Context(), h.Session(c), &req)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, handler.NewSuccessResponse(appointment))
}

func (h *Handler) GetAppointment(c *gin.Context) {
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}

	appointment, err := h.service.GetAppointment(c.Request.Context(), h.Session(c), id)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(appointment))
}

func (h *Handler) UpdateStatus(c *gin.Context) {
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}

	var req model.UpdateAppointmentStatusRequest
	if !h.BindJSON(c, &req) {
		return
	}

	appointment, err := h.service.UpdateStatus(c.Request.Context(), h.Session(c), id, &req)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(appointment))
}

func (h *Handler) ListAppointments(c *gin.Context) {
	appointments, err := h.service.ListAppointments(c.Request.Context(), h.Session(c))
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(appointments))
}

type windowQuery struct {
	Start  string `form:"start" binding:"required"`
	End    string `form:"end" binding:"required"`
	Status string `form:"status"`
}

// AppointmentsInWindow takes RFC3339 bounds, both inclusive.
func (h *Handler) AppointmentsInWindow(c *gin.Context) {
	var q windowQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		_ = c.Error(apperrors.BadRequest("start and end are required", err))
		return
	}

	start, err := time.Parse(time.RFC3339, q.Start)
	if err != nil {
		_ = c.Error(apperrors.BadRequest("invalid start", err))
		return
	}
	end, err := time.Parse(time.RFC3339, q.End)
	if err != nil {
		_ = c.Error(apperrors.BadRequest("invalid end", err))
		return
	}

	var status *model.AppointmentStatus
	if q.Status != "" {
		s := model.AppointmentStatus(q.Status)
		status = &s
	}

	appointments, err := h.service.AppointmentsInWindow(c.Request.Context(), h.Session(c), start, end, status)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(appointments))
}
