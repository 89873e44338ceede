package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ignatzorin/designer-studio/internal/domain/valueobject"
)

// PortfolioItem кейс из портфолио, только чтение.
type PortfolioItem struct {
	ID           uuid.UUID
	Title        string
	Description  string
	Category     valueobject.PortfolioCategory
	ClientName   string
	ProjectURL   *string
	Duration     string
	Budget       *float64
	Technologies []string
	Images       []string
	BeforeImages []string
	AfterImages  []string
	Featured     bool
	OrderIndex   int
	CreatedAt    time.Time
}

// HasBeforeAfter есть пары "до/после".
func (p *PortfolioItem) HasBeforeAfter() bool {
	return len(p.BeforeImages) > 0 && len(p.AfterImages) > 0
}

// Cover первое изображение кейса.
func (p *PortfolioItem) Cover() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0]
}

// MatchesQuery регистронезависимый поиск по названию, описанию и клиенту.
func (p *PortfolioItem) MatchesQuery(q string) bool {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(p.Title), q) ||
		strings.Contains(strings.ToLower(p.Description), q) ||
		strings.Contains(strings.ToLower(p.ClientName), q)
}
