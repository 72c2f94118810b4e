package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ryanolv/doctor-agenda/internal/middleware"
	"github.com/ryanolv/doctor-agenda/internal/model"
	apperrors "github.com/ryanolv/doctor-agenda/pkg/errors"
)

// BaseHandler holds the request plumbing shared by the resource handlers.
// Failures are attached with c.Error and rendered by middleware.ErrorHandler.
type BaseHandler struct{}

func (BaseHandler) Session(c *gin.Context) *model.Session {
	return middleware.GetSession(c)
}

// BindJSON decodes the body into dst. Field rules are checked by the services.
func (BaseHandler) BindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		_ = c.Error(apperrors.BadRequest("invalid request body", err))
		return false
	}
	return true
}

// ParamID parses a UUID path parameter.
func (BaseHandler) ParamID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		_ = c.Error(apperrors.BadRequest("invalid "+name, err))
		return uuid.Nil, false
	}
	return id, true
}
