package session

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ryanolv/doctor-agenda/internal/handler"
	"github.com/ryanolv/doctor-agenda/internal/model"
)

type Handler struct {
	handler.BaseHandler
}

func NewHandler() *Handler {
	return &Handler{}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/session", h.GetSession)
}

type sessionResponse struct {
	User        *model.SessionUser `json:"user"`
	NeedsClinic bool               `json:"needs_clinic"`
}

// GetSession reports who the caller is and whether they still need to create a clinic.
func (h *Handler) GetSession(c *gin.Context) {
	sess := h.Session(c)
	if _, err := sess.RequireUser(); err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(sessionResponse{
		User:        sess.User,
		NeedsClinic: sess.NeedsClinic(),
	}))
}
