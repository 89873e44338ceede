package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ignatzorin/designer-studio/internal/pkg/apperror"
	"github.com/ignatzorin/designer-studio/internal/validation"
)

// Profile запись о пользователе Telegram. Создаётся при первой синхронизации,
// дальше только обновляется.
type Profile struct {
	ID         uuid.UUID
	TelegramID int64
	Username   *string
	FirstName  string
	LastName   *string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// ProfileSync данные для upsert профиля.
type ProfileSync struct {
	TelegramID int64
	Username   string
	FirstName  string
	LastName   string
}

func (p ProfileSync) Validate() error {
	if p.TelegramID <= 0 {
		return apperror.New(apperror.ErrCodeValidation, "telegram_id обязателен")
	}
	if strings.TrimSpace(p.FirstName) == "" {
		return apperror.New(apperror.ErrCodeValidation, "first_name обязателен")
	}
	if err := validation.ValidateName("first_name", p.FirstName); err != nil {
		return apperror.New(apperror.ErrCodeValidation, err.Error())
	}
	if err := validation.ValidateName("last_name", p.LastName); err != nil {
		return apperror.New(apperror.ErrCodeValidation, err.Error())
	}
	return nil
}

// DisplayName имя для уведомлений и подписей в ленте.
func (p *Profile) DisplayName() string {
	name := p.FirstName
	if p.LastName != nil && *p.LastName != "" {
		name += " " + *p.LastName
	}
	return name
}

// Handle ник без @, пустая строка если не задан.
func (p *Profile) Handle() string {
	if p.Username == nil {
		return ""
	}
	return *p.Username
}
