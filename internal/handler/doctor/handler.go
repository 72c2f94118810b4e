package doctor

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ryanolv/doctor-agenda/internal/handler"
	"github.com/ryanolv/doctor-agenda/internal/model"
	doctorService "github.com/ryanolv/doctor-agenda/internal/service/doctor"
)

type Handler struct {
	handler.BaseHandler
	service doctorService.DoctorServicer
}

func NewHandler(service doctorService.DoctorServicer) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	doctors := r.Group("/doctors")
	{
		doctors.GET("", h.ListDoctors)
		doctors.POST("", h.UpsertDoctor)
		doctors.GET("/:id", h.GetDoctor)
		doctors.DELETE("/:id", h.DeleteDoctor)
	}
}

// UpsertDoctor creates a doctor, or updates one when the body carries an id.
func (h *Handler) UpsertDoctor(c *gin.Context) {
	var req model.UpsertDoctorRequest
	if !h.BindJSON(c, &req) {
		return
	}

	doctor, err := h.service.UpsertDoctor(c.Request.Context(), h.Session(c), &req)
	if err != nil {
		_ = c.Error(err)
		return
	}

	status := http.StatusCreated
	if req.ID != nil {
		status = http.StatusOK
	}
	c.JSON(status, handler.NewSuccessResponse(doctor))
}

func (h *Handler) GetDoctor(c *gin.Context) {
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}

	doctor, err := h.service.GetDoctor(c.Request.Context(), h.Session(c), id)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(doctor))
}

func (h *Handler) ListDoctors(c *gin.Context) {
	doctors, err := h.service.ListDoctors(c.Request.Context(), h.Session(c))
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(doctors))
}

func (h *Handler) DeleteDoctor(c *gin.Context) {
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}

	if err := h.service.DeleteDoctor(c.Request.Context(), h.Session(c), id); err != nil {
		_ = c.Error(err)
		return
	}

	c.Status(http.StatusNoContent)
}
