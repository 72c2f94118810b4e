package dashboard

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ryanolv/doctor-agenda/internal/handler"
	dashboardService "github.com/ryanolv/doctor-agenda/internal/service/dashboard"
)

type Handler struct {
	handler.BaseHandler
	service dashboardService.DashboardServicer
}

func NewHandler(service dashboardService.DashboardServicer) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/dashboard", h.Dashboard)
}

func (h *Handler) Dashboard(c *gin.Context) {
	dashboard, err := h.service.Dashboard(c.Request.Context(), h.Session(c))
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(dashboard))
}
