package dto

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ignatzorin/designer-studio/internal/domain/entity"
	"github.com/ignatzorin/designer-studio/internal/domain/valueobject"
	"github.com/ignatzorin/designer-studio/internal/pkg/apperror"
	"github.com/ignatzorin/designer-studio/internal/usecase/order"
)

// FlexibleNumber бюджет из формы: число, строка с числом или null.
type FlexibleNumber struct {
	Value *float64
}

func (n *FlexibleNumber) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		n.Value = nil
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var raw string
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
		v, err := valueobject.ParseBudget(raw)
		if err != nil {
			return err
		}
		n.Value = v
		return nil
	}

	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return apperror.New(apperror.ErrCodeValidation, "бюджет должен быть числом")
	}
	n.Value = &v
	return nil
}

type CreateOrderRequest struct {
	Title       string         `json:"title" binding:"required"`
	Description string         `json:"description"`
	ServiceType string         `json:"service_type"`
	Budget      FlexibleNumber `json:"budget" swaggertype:"number"`
	Deadline    *string        `json:"deadline" example:"2025-03-01"`
}

// ParseDeadline принимает YYYY-MM-DD или RFC3339. Пустое значение означает "без срока".
func ParseDeadline(value *string) (*time.Time, error) {
	if value == nil {
		return nil, nil
	}
	raw := strings.TrimSpace(*value)
	if raw == "" {
		return nil, nil
	}

	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return &t, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, apperror.New(apperror.ErrCodeValidation, "некорректный формат срока, ожидается YYYY-MM-DD")
	}
	t = t.UTC()
	return &t, nil
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type OrderResponse struct {
	ID           uuid.UUID          `json:"id"`
	ClientID     uuid.UUID          `json:"client_id"`
	Title        string             `json:"title"`
	Description  string             `json:"description"`
	ServiceType  *string            `json:"service_type"`
	ServiceBadge *valueobject.Badge `json:"service_badge,omitempty"`
	Budget       *float64           `json:"budget"`
	Deadline     *string            `json:"deadline"`
	Status       string             `json:"status"`
	StatusBadge  valueobject.Badge  `json:"status_badge"`
	CreatedAt    time.Time          `json:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at"`
}

func ToOrderResponse(o *entity.Order) OrderResponse {
	resp := OrderResponse{
		ID:          o.ID,
		ClientID:    o.ClientID,
		Title:       o.Title,
		Description: o.Description,
		Budget:      o.Budget,
		Status:      string(o.Status),
		StatusBadge: valueobject.OrderStatusBadge(o.Status),
		CreatedAt:   o.CreatedAt,
		UpdatedAt:   o.UpdatedAt,
	}

	if o.ServiceType != nil {
		st := string(*o.ServiceType)
		badge := valueobject.ServiceTypeBadge(*o.ServiceType)
		resp.ServiceType = &st
		resp.ServiceBadge = &badge
	}
	if o.Deadline != nil {
		d := o.Deadline.Format("2006-01-02")
		resp.Deadline = &d
	}

	return resp
}

func ToOrderResponses(orders []*entity.Order) []OrderResponse {
	out := make([]OrderResponse, 0, len(orders))
	for _, o := range orders {
		out = append(out, ToOrderResponse(o))
	}
	return out
}

type StageResponse struct {
	ID          uuid.UUID         `json:"id"`
	OrderID     uuid.UUID         `json:"order_id"`
	Name        string            `json:"stage_name"`
	Description *string           `json:"stage_description"`
	Status      string            `json:"status"`
	Badge       valueobject.Badge `json:"badge"`
	Marker      string            `json:"marker"`
	IsNext      bool              `json:"is_next"`
	OrderIndex  int               `json:"order_index"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

func ToStageResponse(s entity.OrderStage) StageResponse {
	return StageResponse{
		ID:          s.ID,
		OrderID:     s.OrderID,
		Name:        s.Name,
		Description: s.Description,
		Status:      string(s.Status),
		Badge:       valueobject.StageStatusBadge(s.Status),
		Marker:      valueobject.StageMarker(s.Status, s.Index),
		OrderIndex:  s.Index,
		UpdatedAt:   s.UpdatedAt,
	}
}

type OrderDetailsResponse struct {
	Order    OrderResponse   `json:"order"`
	Stages   []StageResponse `json:"stages"`
	Progress *int            `json:"progress"`
}

// ToOrderDetailsResponse этапы отдаются в порядке таймлайна.
func ToOrderDetailsResponse(d *order.Details) OrderDetailsResponse {
	stages := make([]StageResponse, 0, len(d.Timeline))
	for _, step := range d.Timeline {
		s := ToStageResponse(step.Stage)
		s.IsNext = step.IsNext
		stages = append(stages, s)
	}

	return OrderDetailsResponse{
		Order:    ToOrderResponse(d.Order),
		Stages:   stages,
		Progress: d.Progress,
	}
}

type StatsResponse struct {
	Total           int             `json:"total"`
	Active          int             `json:"active"`
	Completed       int             `json:"completed"`
	TotalBudget     float64         `json:"total_budget"`
	CompletedBudget float64         `json:"completed_budget"`
	Recent          []OrderResponse `json:"recent"`
}

func ToStatsResponse(s entity.OrderStats) StatsResponse {
	return StatsResponse{
		Total:           s.Total,
		Active:          s.Active,
		Completed:       s.Completed,
		TotalBudget:     s.TotalBudget,
		CompletedBudget: s.CompletedBudget,
		Recent:          ToOrderResponses(s.Recent),
	}
}
