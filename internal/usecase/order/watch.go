package order

import (
	"context"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/designer-studio/internal/domain/entity"
	"github.com/ignatzorin/designer-studio/internal/logger"
	"github.com/ignatzorin/designer-studio/internal/pkg/apperror"
	"github.com/ignatzorin/designer-studio/internal/realtime"
)

// WatchOrdersUseCase живой список заказов профиля: вставки и обновления
// приходят целой строкой, клиент заменяет её по id.
type WatchOrdersUseCase struct {
	get *GetOrderUseCase
}

func NewWatchOrdersUseCase(get *GetOrderUseCase) *WatchOrdersUseCase {
	return &WatchOrdersUseCase{get: get}
}

// Orders читает events до отмены ctx или закрытия канала.
func (uc *WatchOrdersUseCase) Orders(ctx context.Context, profileID uuid.UUID, events <-chan realtime.Event, emit func(realtime.Op, *entity.Order) error) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			orderID, err := uuid.Parse(ev.ID)
			if err != nil {
				continue
			}
			order, err := uc.get.Owned(ctx, profileID, orderID)
			if err != nil {
				if !apperror.IsNotFound(err) {
					logger.Log.WithError(err).WithField("order_id", ev.ID).Warn("watch: не удалось загрузить заказ")
				}
				continue
			}
			if err := emit(ev.Op, order); err != nil {
				return err
			}
		}
	}
}

// Order живой экран заказа: любое изменение заказа или его этапов
// перечитывает заказ целиком.
func (uc *WatchOrdersUseCase) Order(ctx context.Context, profileID, orderID uuid.UUID, orderEvents, stageEvents <-chan realtime.Event, emit func(*Details) error) error {
	for orderEvents != nil || stageEvents != nil {
		select {
		case <-ctx.Done():
			return nil
		case _, ok := <-orderEvents:
			if !ok {
				orderEvents = nil
				continue
			}
		case _, ok := <-stageEvents:
			if !ok {
				stageEvents = nil
				continue
			}
		}

		details, err := uc.get.Execute(ctx, profileID, orderID)
		if err != nil {
			logger.Log.WithFields(logrus.Fields{
				"order_id": orderID,
			}).WithError(err).Warn("watch: не удалось перечитать заказ")
			continue
		}
		if err := emit(details); err != nil {
			return err
		}
	}
	return nil
}
