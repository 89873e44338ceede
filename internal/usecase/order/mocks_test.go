package order_test

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/ignatzorin/designer-studio/internal/domain/entity"
	"github.com/ignatzorin/designer-studio/internal/domain/valueobject"
	"github.com/ignatzorin/designer-studio/internal/pkg/apperror"
	"github.com/ignatzorin/designer-studio/internal/usecase/notify"
)

type mockOrderRepository struct {
	mu        sync.Mutex
	orders    map[uuid.UUID]*entity.Order
	stages    map[uuid.UUID][]entity.OrderStage
	createErr error
}

func newMockOrderRepository() *mockOrderRepository {
	return &mockOrderRepository{
		orders: make(map[uuid.UUID]*entity.Order),
		stages: make(map[uuid.UUID][]entity.OrderStage),
	}
}

func (m *mockOrderRepository) CreateWithStages(ctx context.Context, o *entity.Order, stages []entity.OrderStage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	m.orders[o.ID] = o
	m.stages[o.ID] = append([]entity.OrderStage(nil), stages...)
	return nil
}

func (m *mockOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if o, ok := m.orders[id]; ok {
		return o, nil
	}
	return nil, apperror.ErrOrderNotFound
}

func (m *mockOrderRepository) FindByClientID(ctx context.Context, clientID uuid.UUID) ([]*entity.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []*entity.Order
	for _, o := range m.orders {
		if o.ClientID == clientID {
			result = append(result, o)
		}
	}
	return result, nil
}

func (m *mockOrderRepository) FindStages(ctx context.Context, orderID uuid.UUID) ([]entity.OrderStage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]entity.OrderStage(nil), m.stages[orderID]...), nil
}

func (m *mockOrderRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status valueobject.OrderStatus) (*entity.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return nil, apperror.ErrOrderNotFound
	}
	o.Status = status
	return o, nil
}

func (m *mockOrderRepository) UpdateStageStatus(ctx context.Context, stageID uuid.UUID, status valueobject.StageStatus) (*entity.OrderStage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for orderID, stages := range m.stages {
		for i := range stages {
			if stages[i].ID == stageID {
				m.stages[orderID][i].Status = status
				s := m.stages[orderID][i]
				return &s, nil
			}
		}
	}
	return nil, apperror.ErrStageNotFound
}

type recordingNotifier struct {
	mu      sync.Mutex
	calls   []notify.OrderNotification
	outcome notify.Outcome
}

func (n *recordingNotifier) OrderCreated(ctx context.Context, in notify.OrderNotification) notify.Outcome {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls = append(n.calls, in)
	if n.outcome == "" {
		return notify.OutcomeSent
	}
	return n.outcome
}

func syncRunner(ctx context.Context, fn func(context.Context)) {
	fn(ctx)
}

var errDB = errors.New("db down")
