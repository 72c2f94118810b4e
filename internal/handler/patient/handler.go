package patient

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ryanolv/doctor-agenda/internal/handler"
	"github.com/ryanolv/doctor-agenda/internal/model"
	patientService "github.com/ryanolv/doctor-agenda/internal/service/patient"
)

type Handler struct {
	handler.BaseHandler
	service patientService.PatientServicer
}

func NewHandler(service patientService.PatientServicer) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	patients := r.Group("/patients")
	{
		patients.GET("", h.ListPatients)
		patients.POST("", h.UpsertPatient)
		patients.GET("/:id", h.GetPatient)
		patients.DELETE("/:id", h.DeletePatient)
	}
}

func (h *Handler) UpsertPatient(c *gin.Context) {
	var req model.UpsertPatientRequest
	if !h.BindJSON(c, &req) {
		return
	}

	patient, err := h.service.UpsertPatient(c.Request.Context(), h.Session(c), &req)
	if err != nil {
		_ = c.Error(err)
		return
	}

	status := http.StatusCreated
	if req.ID != nil {
		status = http.StatusOK
	}
	c.JSON(status, handler.NewSuccessResponse(patient))
}

func (h *Handler) GetPatient(c *gin.Context) {
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}

	patient, err := h.service.GetPatient(c.Request.Context(), h.Session(c), id)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(patient))
}

func (h *Handler) ListPatients(c *gin.Context) {
	patients, err := h.service.ListPatients(c.Request.Context(), h.Session(c))
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(patients))
}

func (h *Handler) DeletePatient(c *gin.Context) {
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}

	if err := h.service.DeletePatient(c.Request.Context(), h.Session(c), id); err != nil {
		_ = c.Error(err)
		return
	}

	c.Status(http.StatusNoContent)
}
