package clinic

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ryanolv/doctor-agenda/internal/handler"
	"github.com/ryanolv/doctor-agenda/internal/model"
	clinicService "github.com/ryanolv/doctor-agenda/internal/service/clinic"
)

type Handler struct {
	handler.BaseHandler
	service clinicService.ClinicServicer
}

func NewHandler(service clinicService.ClinicServicer) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	clinics := r.Group("/clinics")
	{
		clinics.POST("", h.CreateClinic)
		clinics.GET("/current", h.GetCurrentClinic)
		clinics.PUT("/current", h.UpdateCurrentClinic)
	}
}

func (h *Handler) CreateClinic(c *gin.Context) {
	var req model.CreateClinicRequest
	if !h.BindJSON(c, &req) {
		return
	}

	clinic, err := h.service.CreateClinic(c.Request.Context(), h.Session(c), &req)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, handler.NewSuccessResponse(clinic))
}

func (h *Handler) GetCurrentClinic(c *gin.Context) {
	clinic, err := h.service.GetCurrentClinic(c.Request.Context(), h.Session(c))
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(clinic))
}

func (h *Handler) UpdateCurrentClinic(c *gin.Context) {
	var req model.UpdateClinicRequest
	if !h.BindJSON(c, &req) {
		return
	}

	clinic, err := h.service.UpdateCurrentClinic(c.Request.Context(), h.Session(c), &req)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(clinic))
}
