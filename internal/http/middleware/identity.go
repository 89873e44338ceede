package middleware

import (
	"context"
	"crypto/subtle"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/designer-studio/internal/domain/entity"
	"github.com/ignatzorin/designer-studio/internal/identity"
	"github.com/ignatzorin/designer-studio/internal/interface/http/response"
	"github.com/ignatzorin/designer-studio/internal/logger"
	"github.com/ignatzorin/designer-studio/internal/pkg/apperror"
)

// Context ключи для gin.Context.
const (
	ContextUserKey    = "telegramUser"
	ContextProfileKey = "profile"
)

// ProfileResolver поиск профиля по Telegram id.
type ProfileResolver interface {
	ByTelegramID(ctx context.Context, telegramID int64) (*entity.Profile, error)
}

// Identity кладёт пользователя Telegram в контекст. Без init data запрос
// остаётся анонимным, с невалидной подписью получает 401.
func Identity(provider identity.Provider) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok, err := provider.CurrentUser(c.Request)
		if err != nil {
			response.Unauthorized(c, "init data невалидна")
			return
		}
		if ok {
			c.Set(ContextUserKey, user)
		}
		c.Next()
	}
}

// CurrentUser пользователь из init data, если он есть.
func CurrentUser(c *gin.Context) (identity.User, bool) {
	v, ok := c.Get(ContextUserKey)
	if !ok {
		return identity.User{}, false
	}
	user, ok := v.(identity.User)
	return user, ok
}

// RequireProfile пропускает только пользователей с синхронизированным профилем.
func RequireProfile(profiles ProfileResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			response.Unauthorized(c, "требуется авторизация через Telegram")
			return
		}

		profile, err := profiles.ByTelegramID(c.Request.Context(), user.ID)
		if err != nil {
			if apperror.IsNotFound(err) {
				response.NotFound(c, "профиль не синхронизирован")
				return
			}
			logger.Log.WithFields(logrus.Fields{
				"telegram_id": user.ID,
			}).WithError(err).Error("не удалось загрузить профиль")
			response.Error(c, err)
			c.Abort()
			return
		}

		c.Set(ContextProfileKey, profile)
		c.Next()
	}
}

// CurrentProfile профиль, найденный RequireProfile.
func CurrentProfile(c *gin.Context) *entity.Profile {
	v, ok := c.Get(ContextProfileKey)
	if !ok {
		return nil
	}
	profile, _ := v.(*entity.Profile)
	return profile
}

// AdminToken проверяет Authorization: Bearer <token> для операторских маршрутов.
func AdminToken(token string) gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := c.GetHeader("Authorization")
		if !strings.HasPrefix(auth, "Bearer ") {
			response.Unauthorized(c, "требуется токен администратора")
			return
		}

		raw := strings.TrimPrefix(auth, "Bearer ")
		if subtle.ConstantTimeCompare([]byte(raw), []byte(token)) != 1 {
			response.Forbidden(c, "неверный токен администратора")
			return
		}
		c.Next()
	}
}
