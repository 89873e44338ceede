package order

import (
	"context"

	"github.com/google/uuid"

	"github.com/ignatzorin/designer-studio/internal/domain/entity"
	"github.com/ignatzorin/designer-studio/internal/domain/repository"
	"github.com/ignatzorin/designer-studio/internal/domain/valueobject"
)

// UpdateOrderStatusUseCase ручная смена статуса оператором.
// Допустим любой статус из перечисления, переходы не проверяются.
type UpdateOrderStatusUseCase struct {
	orders repository.OrderRepository
}

func NewUpdateOrderStatusUseCase(orders repository.OrderRepository) *UpdateOrderStatusUseCase {
	return &UpdateOrderStatusUseCase{orders: orders}
}

func (uc *UpdateOrderStatusUseCase) Execute(ctx context.Context, orderID uuid.UUID, status string) (*entity.Order, error) {
	s, err := valueobject.NewOrderStatus(status)
	if err != nil {
		return nil, err
	}
	return uc.orders.UpdateStatus(ctx, orderID, s)
}

type UpdateStageStatusUseCase struct {
	orders repository.OrderRepository
}

func NewUpdateStageStatusUseCase(orders repository.OrderRepository) *UpdateStageStatusUseCase {
	return &UpdateStageStatusUseCase{orders: orders}
}

func (uc *UpdateStageStatusUseCase) Execute(ctx context.Context, stageID uuid.UUID, status string) (*entity.OrderStage, error) {
	s, err := valueobject.NewStageStatus(status)
	if err != nil {
		return nil, err
	}
	return uc.orders.UpdateStageStatus(ctx, stageID, s)
}
