package dto

import "github.com/google/uuid"

// SyncUserRequest данные пользователя из Telegram WebApp.
type SyncUserRequest struct {
	TelegramID int64  `json:"telegram_id" binding:"required"`
	Username   string `json:"username"`
	FirstName  string `json:"first_name" binding:"required"`
	LastName   string `json:"last_name"`
}

type SyncUserResponse struct {
	ProfileID   uuid.UUID `json:"profile_id"`
	AccessToken string    `json:"access_token"`
}
