package profile

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/ignatzorin/designer-studio/internal/domain/entity"
	"github.com/ignatzorin/designer-studio/internal/domain/repository"
	"github.com/ignatzorin/designer-studio/internal/pkg/apperror"
)

// SyncProfileUseCase upsert профиля по telegram_id. Повторный вызов
// с теми же данными приводит к тому же состоянию.
type SyncProfileUseCase struct {
	profiles repository.ProfileRepository
}

func NewSyncProfileUseCase(profiles repository.ProfileRepository) *SyncProfileUseCase {
	return &SyncProfileUseCase{profiles: profiles}
}

func (uc *SyncProfileUseCase) Execute(ctx context.Context, in entity.ProfileSync) (*entity.Profile, error) {
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.Username = strings.TrimPrefix(strings.TrimSpace(in.Username), "@")

	if err := in.Validate(); err != nil {
		return nil, err
	}

	p, err := uc.profiles.Upsert(ctx, in)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось синхронизировать профиль")
	}
	return p, nil
}

// ResolveProfileUseCase находит профиль текущего пользователя Telegram.
type ResolveProfileUseCase struct {
	profiles repository.ProfileRepository
}

func NewResolveProfileUseCase(profiles repository.ProfileRepository) *ResolveProfileUseCase {
	return &ResolveProfileUseCase{profiles: profiles}
}

func (uc *ResolveProfileUseCase) ByTelegramID(ctx context.Context, telegramID int64) (*entity.Profile, error) {
	return uc.profiles.FindByTelegramID(ctx, telegramID)
}

func (uc *ResolveProfileUseCase) ByID(ctx context.Context, id uuid.UUID) (*entity.Profile, error) {
	return uc.profiles.FindByID(ctx, id)
}
