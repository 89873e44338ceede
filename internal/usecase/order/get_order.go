package order

import (
	"context"

	"github.com/google/uuid"

	"github.com/ignatzorin/designer-studio/internal/domain/entity"
	"github.com/ignatzorin/designer-studio/internal/domain/repository"
	"github.com/ignatzorin/designer-studio/internal/pkg/apperror"
)

// Details заказ с этапами для экрана заказа.
type Details struct {
	Order    *entity.Order
	Stages   []entity.OrderStage
	Progress *int
	Timeline []entity.TimelineStep
}

func NewDetails(order *entity.Order, stages []entity.OrderStage) *Details {
	d := &Details{
		Order:    order,
		Stages:   stages,
		Timeline: entity.BuildTimeline(stages),
	}
	if p, ok := entity.Progress(stages); ok {
		d.Progress = &p
	}
	return d
}

type GetOrderUseCase struct {
	orders repository.OrderRepository
}

func NewGetOrderUseCase(orders repository.OrderRepository) *GetOrderUseCase {
	return &GetOrderUseCase{orders: orders}
}

// Execute возвращает заказ владельца. Чужой заказ неотличим от несуществующего.
func (uc *GetOrderUseCase) Execute(ctx context.Context, profileID, orderID uuid.UUID) (*Details, error) {
	order, err := uc.Owned(ctx, profileID, orderID)
	if err != nil {
		return nil, err
	}

	stages, err := uc.orders.FindStages(ctx, order.ID)
	if err != nil {
		return nil, err
	}
	return NewDetails(order, stages), nil
}

// Owned загружает заказ и проверяет владельца.
func (uc *GetOrderUseCase) Owned(ctx context.Context, profileID, orderID uuid.UUID) (*entity.Order, error) {
	order, err := uc.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil || !order.IsOwnedBy(profileID) {
		return nil, apperror.ErrOrderNotFound
	}
	return order, nil
}

type ListOrdersUseCase struct {
	orders repository.OrderRepository
}

func NewListOrdersUseCase(orders repository.OrderRepository) *ListOrdersUseCase {
	return &ListOrdersUseCase{orders: orders}
}

// Execute заказы профиля, новые сверху.
func (uc *ListOrdersUseCase) Execute(ctx context.Context, profileID uuid.UUID) ([]*entity.Order, error) {
	orders, err := uc.orders.FindByClientID(ctx, profileID)
	if err != nil {
		return nil, err
	}
	entity.SortNewestFirst(orders)
	return orders, nil
}

// Stats агрегаты для главной и профиля.
func (uc *ListOrdersUseCase) Stats(ctx context.Context, profileID uuid.UUID) (entity.OrderStats, error) {
	orders, err := uc.orders.FindByClientID(ctx, profileID)
	if err != nil {
		return entity.OrderStats{}, err
	}
	return entity.ComputeStats(orders), nil
}
