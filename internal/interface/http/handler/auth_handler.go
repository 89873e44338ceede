package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/designer-studio/internal/domain/entity"
	"github.com/ignatzorin/designer-studio/internal/http/middleware"
	"github.com/ignatzorin/designer-studio/internal/identity"
	"github.com/ignatzorin/designer-studio/internal/interface/http/dto"
	"github.com/ignatzorin/designer-studio/internal/interface/http/response"
	"github.com/ignatzorin/designer-studio/internal/logger"
	"github.com/ignatzorin/designer-studio/internal/usecase/profile"
)

type AuthHandler struct {
	syncUC          *profile.SyncProfileUseCase
	tokens          *identity.TokenManager
	requireIdentity bool
}

// NewAuthHandler requireIdentity: без подписанной init data синхронизация запрещена.
func NewAuthHandler(syncUC *profile.SyncProfileUseCase, tokens *identity.TokenManager, requireIdentity bool) *AuthHandler {
	return &AuthHandler{syncUC: syncUC, tokens: tokens, requireIdentity: requireIdentity}
}

// SyncUser godoc
// @Summary Синхронизировать пользователя Telegram
// @Description Создаёт профиль по telegram_id или обновляет имя и ник
// @Tags auth
// @Accept json
// @Produce json
// @Security TelegramInitData
// @Param input body dto.SyncUserRequest true "Пользователь из WebApp"
// @Success 200 {object} response.Response{data=dto.SyncUserResponse}
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 500 {object} response.Response
// @Router /auth/sync-user [post]
func (h *AuthHandler) SyncUser(c *gin.Context) {
	var req dto.SyncUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "telegram_id и first_name обязательны")
		return
	}

	user, identified := middleware.CurrentUser(c)
	if !identified && h.requireIdentity {
		response.Unauthorized(c, "требуется init data Telegram")
		return
	}
	if identified && user.ID != req.TelegramID {
		response.Forbidden(c, "telegram_id не совпадает с пользователем init data")
		return
	}

	p, err := h.syncUC.Execute(c.Request.Context(), entity.ProfileSync{
		TelegramID: req.TelegramID,
		Username:   req.Username,
		FirstName:  req.FirstName,
		LastName:   req.LastName,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	token, err := h.tokens.Issue(p.ID)
	if err != nil {
		logger.Log.WithFields(logrus.Fields{"profile_id": p.ID}).WithError(err).Error("не удалось выпустить токен")
		response.Error(c, err)
		return
	}

	response.Success(c, dto.SyncUserResponse{ProfileID: p.ID, AccessToken: token})
}
