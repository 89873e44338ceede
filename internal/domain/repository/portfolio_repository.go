package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/ignatzorin/designer-studio/internal/domain/entity"
	"github.com/ignatzorin/designer-studio/internal/domain/valueobject"
)

type PortfolioRepository interface {
	List(ctx context.Context, filter PortfolioFilter) ([]*entity.PortfolioItem, error)
	FindByID(ctx context.Context, id uuid.UUID) (*entity.PortfolioItem, error)
}

type PortfolioFilter struct {
	Category *valueobject.PortfolioCategory
	Search   string
}

// CacheKey ключ для кэша списка.
func (f PortfolioFilter) CacheKey() string {
	category := "all"
	if f.Category != nil {
		category = string(*f.Category)
	}
	return "portfolio:list:" + category + ":" + f.Search
}
