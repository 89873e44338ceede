// Package identity пользователь Mini App из init data Telegram.
package identity

import (
	"errors"
	"net/http"
	"time"

	initdata "github.com/telegram-mini-apps/init-data-golang"
)

const (
	HeaderInitData = "X-Telegram-Init-Data"
	QueryInitData  = "init_data"
)

var ErrInvalidInitData = errors.New("invalid init data")

// User пользователь Telegram, открывший Mini App.
type User struct {
	ID           int64
	FirstName    string
	LastName     string
	Username     string
	LanguageCode string
	IsPremium    bool
}

// Provider источник текущего пользователя запроса.
// (User{}, false, nil) анонимный запрос, ошибка значит, что данные есть, но не прошли проверку.
type Provider interface {
	CurrentUser(r *http.Request) (User, bool, error)
}

// TelegramInitData проверяет подпись init data токеном бота.
type TelegramInitData struct {
	botToken      string
	ttl           time.Duration
	allowUnsigned bool
}

// NewTelegramInitData allowUnsigned разрешает разбор без проверки подписи,
// когда токен бота не задан. Только для разработки.
func NewTelegramInitData(botToken string, ttl time.Duration, allowUnsigned bool) *TelegramInitData {
	return &TelegramInitData{botToken: botToken, ttl: ttl, allowUnsigned: allowUnsigned}
}

func (p *TelegramInitData) CurrentUser(r *http.Request) (User, bool, error) {
	raw := r.Header.Get(HeaderInitData)
	if raw == "" {
		raw = r.URL.Query().Get(QueryInitData)
	}
	if raw == "" {
		return User{}, false, nil
	}

	switch {
	case p.botToken != "":
		if err := initdata.Validate(raw, p.botToken, p.ttl); err != nil {
			return User{}, false, ErrInvalidInitData
		}
	case !p.allowUnsigned:
		return User{}, false, nil
	}

	parsed, err := initdata.Parse(raw)
	if err != nil {
		return User{}, false, ErrInvalidInitData
	}
	if parsed.User.ID == 0 {
		return User{}, false, nil
	}

	return User{
		ID:           parsed.User.ID,
		FirstName:    parsed.User.FirstName,
		LastName:     parsed.User.LastName,
		Username:     parsed.User.Username,
		LanguageCode: parsed.User.LanguageCode,
		IsPremium:    parsed.User.IsPremium,
	}, true, nil
}

// Static провайдер с заранее известным пользователем, для тестов и локальной отладки.
type Static struct {
	User *User
}

func (s Static) CurrentUser(*http.Request) (User, bool, error) {
	if s.User == nil {
		return User{}, false, nil
	}
	return *s.User, true, nil
}
