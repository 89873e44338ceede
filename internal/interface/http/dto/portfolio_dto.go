package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/ignatzorin/designer-studio/internal/domain/entity"
	"github.com/ignatzorin/designer-studio/internal/domain/valueobject"
)

type PortfolioItemResponse struct {
	ID             uuid.UUID         `json:"id"`
	Title          string            `json:"title"`
	Description    string            `json:"description"`
	Category       string            `json:"category"`
	CategoryBadge  valueobject.Badge `json:"category_badge"`
	ClientName     string            `json:"client_name"`
	ProjectURL     *string           `json:"project_url"`
	Duration       string            `json:"duration"`
	Budget         *float64          `json:"budget"`
	Technologies   []string          `json:"technologies"`
	Images         []string          `json:"images"`
	BeforeImages   []string          `json:"before_images"`
	AfterImages    []string          `json:"after_images"`
	HasBeforeAfter bool              `json:"has_before_after"`
	Cover          string            `json:"cover,omitempty"`
	Featured       bool              `json:"featured"`
	OrderIndex     int               `json:"order_index"`
	CreatedAt      time.Time         `json:"created_at"`
}

func ToPortfolioItemResponse(p *entity.PortfolioItem) PortfolioItemResponse {
	return PortfolioItemResponse{
		ID:             p.ID,
		Title:          p.Title,
		Description:    p.Description,
		Category:       string(p.Category),
		CategoryBadge:  valueobject.CategoryBadge(p.Category),
		ClientName:     p.ClientName,
		ProjectURL:     p.ProjectURL,
		Duration:       p.Duration,
		Budget:         p.Budget,
		Technologies:   nonNil(p.Technologies),
		Images:         nonNil(p.Images),
		BeforeImages:   nonNil(p.BeforeImages),
		AfterImages:    nonNil(p.AfterImages),
		HasBeforeAfter: p.HasBeforeAfter(),
		Cover:          p.Cover(),
		Featured:       p.Featured,
		OrderIndex:     p.OrderIndex,
		CreatedAt:      p.CreatedAt,
	}
}

func ToPortfolioItemResponses(items []*entity.PortfolioItem) []PortfolioItemResponse {
	out := make([]PortfolioItemResponse, 0, len(items))
	for _, p := range items {
		out = append(out, ToPortfolioItemResponse(p))
	}
	return out
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
