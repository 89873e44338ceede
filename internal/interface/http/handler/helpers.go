package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ignatzorin/designer-studio/internal/domain/entity"
	"github.com/ignatzorin/designer-studio/internal/http/middleware"
	"github.com/ignatzorin/designer-studio/internal/interface/http/response"
)

// currentProfile профиль из RequireProfile. При его отсутствии уже отвечает 401.
func currentProfile(c *gin.Context) (*entity.Profile, bool) {
	profile := middleware.CurrentProfile(c)
	if profile == nil {
		response.Unauthorized(c, "требуется авторизация через Telegram")
		return nil, false
	}
	return profile, true
}

func uuidParam(c *gin.Context, name, message string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		response.BadRequest(c, message)
		return uuid.Nil, false
	}
	return id, true
}
