package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/ignatzorin/designer-studio/internal/domain/entity"
	"github.com/ignatzorin/designer-studio/internal/domain/valueobject"
)

type OrderRepository interface {
	// CreateWithStages пишет заказ и его этапы атомарно.
	CreateWithStages(ctx context.Context, order *entity.Order, stages []entity.OrderStage) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Order, error)
	FindByClientID(ctx context.Context, clientID uuid.UUID) ([]*entity.Order, error)
	FindStages(ctx context.Context, orderID uuid.UUID) ([]entity.OrderStage, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status valueobject.OrderStatus) (*entity.Order, error)
	UpdateStageStatus(ctx context.Context, stageID uuid.UUID, status valueobject.StageStatus) (*entity.OrderStage, error)
}
