package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/ignatzorin/designer-studio/internal/domain/entity"
)

type CommentRepository interface {
	Create(ctx context.Context, comment *entity.OrderComment) error
	// FindByID возвращает комментарий вместе с автором.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.OrderComment, error)
	// ListPublic комментарии заказа без внутренних заметок, по возрастанию created_at.
	ListPublic(ctx context.Context, orderID uuid.UUID) ([]*entity.OrderComment, error)
}
