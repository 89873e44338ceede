package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/ignatzorin/designer-studio/internal/domain/entity"
)

type ProfileRepository interface {
	// Upsert создаёт профиль или обновляет изменяемые поля по telegram_id.
	Upsert(ctx context.Context, in entity.ProfileSync) (*entity.Profile, error)
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Profile, error)
	FindByTelegramID(ctx context.Context, telegramID int64) (*entity.Profile, error)
}
