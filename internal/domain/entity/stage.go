package entity

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/ignatzorin/designer-studio/internal/domain/valueobject"
)

// CanonicalStageNames этапы, создаваемые для каждого заказа, в порядке выполнения.
var CanonicalStageNames = [...]string{
	"Обсуждение брифа",
	"Анализ и исследование",
	"Концепция и скетчи",
	"Дизайн и визуализация",
	"Презентация и правки",
	"Финальная сдача",
}

type OrderStage struct {
	ID          uuid.UUID
	OrderID     uuid.UUID
	Name        string
	Description *string
	Status      valueobject.StageStatus
	Index       int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewCanonicalStages шесть ожидающих этапов с индексами 0..5.
func NewCanonicalStages(orderID uuid.UUID) []OrderStage {
	now := time.Now().UTC()
	stages := make([]OrderStage, 0, len(CanonicalStageNames))
	for i, name := range CanonicalStageNames {
		stages = append(stages, OrderStage{
			ID:        uuid.New(),
			OrderID:   orderID,
			Name:      name,
			Status:    valueobject.StageStatusPending,
			Index:     i,
			CreatedAt: now,
			UpdatedAt: now,
		})
	}
	return stages
}

// Progress процент завершённых этапов, округлённый вниз.
// ok=false, если этапов нет.
func Progress(stages []OrderStage) (percent int, ok bool) {
	if len(stages) == 0 {
		return 0, false
	}
	completed := 0
	for _, s := range stages {
		if s.Status == valueobject.StageStatusCompleted {
			completed++
		}
	}
	return completed * 100 / len(stages), true
}

// TimelineStep визуальное состояние одного этапа.
type TimelineStep struct {
	Stage  OrderStage
	Badge  valueobject.Badge
	Marker string
	IsNext bool
}

// BuildTimeline раскладывает этапы по индексу. Следующим считается первый
// этап, который не завершён и не заблокирован.
func BuildTimeline(stages []OrderStage) []TimelineStep {
	sorted := make([]OrderStage, len(stages))
	copy(sorted, stages)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Index < sorted[j].Index })

	steps := make([]TimelineStep, 0, len(sorted))
	nextFound := false
	for _, s := range sorted {
		step := TimelineStep{
			Stage:  s,
			Badge:  valueobject.StageStatusBadge(s.Status),
			Marker: valueobject.StageMarker(s.Status, s.Index),
		}
		if !nextFound && s.Status != valueobject.StageStatusCompleted && s.Status != valueobject.StageStatusBlocked {
			step.IsNext = true
			nextFound = true
		}
		steps = append(steps, step)
	}
	return steps
}
