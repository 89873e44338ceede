package entity

import (
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ignatzorin/designer-studio/internal/domain/valueobject"
	"github.com/ignatzorin/designer-studio/internal/pkg/apperror"
	"github.com/ignatzorin/designer-studio/internal/validation"
)

type Order struct {
	ID          uuid.UUID
	ClientID    uuid.UUID
	Title       string
	Description string
	ServiceType *valueobject.ServiceType
	Budget      *float64
	Deadline    *time.Time
	Status      valueobject.OrderStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func NewOrder(clientID uuid.UUID, title, description string, serviceType *valueobject.ServiceType, budget *float64, deadline *time.Time) (*Order, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, apperror.New(apperror.ErrCodeValidation, "название заказа обязательно")
	}
	for _, err := range []error{
		validation.ValidateOrderTitle(title),
		validation.ValidateOrderDescription(description),
		validation.ValidateBudget(budget),
	} {
		if err != nil {
			return nil, apperror.New(apperror.ErrCodeValidation, err.Error())
		}
	}

	now := time.Now().UTC()
	return &Order{
		ID:          uuid.New(),
		ClientID:    clientID,
		Title:       title,
		Description: strings.TrimSpace(description),
		ServiceType: serviceType,
		Budget:      budget,
		Deadline:    deadline,
		Status:      valueobject.OrderStatusBriefReceived,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

func (o *Order) IsOwnedBy(profileID uuid.UUID) bool {
	return o.ClientID == profileID
}

// SortNewestFirst сортирует заказы по дате создания, новые сверху.
func SortNewestFirst(orders []*Order) {
	sort.SliceStable(orders, func(i, j int) bool {
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})
}

// OrderStats сводка для главной и профиля.
type OrderStats struct {
	Total           int
	Active          int
	Completed       int
	TotalBudget     float64
	CompletedBudget float64
	Recent          []*Order
}

const recentOrdersLimit = 3

// ComputeStats считает агрегаты. Заказы без бюджета в суммы не входят.
func ComputeStats(orders []*Order) OrderStats {
	sorted := make([]*Order, len(orders))
	copy(sorted, orders)
	SortNewestFirst(sorted)

	stats := OrderStats{Total: len(sorted)}
	for _, o := range sorted {
		if o.Status.IsActive() {
			stats.Active++
		}
		if o.Status == valueobject.OrderStatusCompleted {
			stats.Completed++
		}
		if o.Budget == nil {
			continue
		}
		stats.TotalBudget += *o.Budget
		if o.Status == valueobject.OrderStatusCompleted {
			stats.CompletedBudget += *o.Budget
		}
	}

	if len(sorted) > recentOrdersLimit {
		sorted = sorted[:recentOrdersLimit]
	}
	stats.Recent = sorted
	return stats
}
