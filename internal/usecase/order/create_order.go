package order

import (
	"context"
	"time"

	"github.com/ignatzorin/designer-studio/internal/domain/entity"
	"github.com/ignatzorin/designer-studio/internal/domain/repository"
	"github.com/ignatzorin/designer-studio/internal/domain/valueobject"
	"github.com/ignatzorin/designer-studio/internal/goroutine"
	"github.com/ignatzorin/designer-studio/internal/pkg/apperror"
	"github.com/ignatzorin/designer-studio/internal/usecase/notify"
)

const notifyTimeout = 15 * time.Second

// Notifier уведомление администратора о новом заказе.
type Notifier interface {
	OrderCreated(ctx context.Context, n notify.OrderNotification) notify.Outcome
}

// Runner запускает фоновую работу, не привязанную к отмене запроса.
type Runner func(ctx context.Context, fn func(context.Context))

func detachedRunner(ctx context.Context, fn func(context.Context)) {
	goroutine.Detached(ctx, notifyTimeout, fn)
}

type CreateOrderInput struct {
	Client      *entity.Profile
	Title       string
	Description string
	ServiceType string
	Budget      *float64
	Deadline    *time.Time
}

type CreateOrderUseCase struct {
	orders   repository.OrderRepository
	notifier Notifier
	run      Runner
}

func NewCreateOrderUseCase(orders repository.OrderRepository, notifier Notifier) *CreateOrderUseCase {
	return &CreateOrderUseCase{
		orders:   orders,
		notifier: notifier,
		run:      detachedRunner,
	}
}

// WithRunner заменяет способ запуска уведомления, в тестах синхронный.
func (uc *CreateOrderUseCase) WithRunner(run Runner) *CreateOrderUseCase {
	uc.run = run
	return uc
}

// Execute сохраняет заказ с шестью этапами и после фиксации уведомляет администратора.
// Результат уведомления на ответ не влияет.
func (uc *CreateOrderUseCase) Execute(ctx context.Context, in CreateOrderInput) (*Details, error) {
	if in.Client == nil {
		return nil, apperror.ErrUnauthorized
	}

	serviceType, err := valueobject.NewServiceType(in.ServiceType)
	if err != nil {
		return nil, err
	}

	order, err := entity.NewOrder(in.Client.ID, in.Title, in.Description, serviceType, in.Budget, in.Deadline)
	if err != nil {
		return nil, err
	}

	stages := entity.NewCanonicalStages(order.ID)
	if err := uc.orders.CreateWithStages(ctx, order, stages); err != nil {
		return nil, err
	}

	if uc.notifier != nil {
		n := notify.OrderNotification{
			OrderID:        order.ID.String(),
			Title:          order.Title,
			ClientName:     in.Client.DisplayName(),
			ClientUsername: in.Client.Handle(),
		}
		uc.run(ctx, func(ctx context.Context) {
			uc.notifier.OrderCreated(ctx, n)
		})
	}

	return NewDetails(order, stages), nil
}
