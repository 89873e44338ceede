package portfolio

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ignatzorin/designer-studio/internal/domain/entity"
	"github.com/ignatzorin/designer-studio/internal/domain/repository"
	"github.com/ignatzorin/designer-studio/internal/domain/valueobject"
	"github.com/ignatzorin/designer-studio/internal/logger"
	"github.com/ignatzorin/designer-studio/internal/metrics"
)

const maxSearchLength = 100

// Cache кэш списков портфолио. Ошибки кэша не прерывают запрос.
type Cache interface {
	GetList(ctx context.Context, key string) ([]*entity.PortfolioItem, bool, error)
	SetList(ctx context.Context, key string, items []*entity.PortfolioItem, ttl time.Duration) error
}

type ListPortfolioInput struct {
	Category string
	Search   string
}

type ListPortfolioUseCase struct {
	repo  repository.PortfolioRepository
	cache Cache
	ttl   time.Duration
}

// NewListPortfolioUseCase cache может быть nil.
func NewListPortfolioUseCase(repo repository.PortfolioRepository, cache Cache, ttl time.Duration) *ListPortfolioUseCase {
	return &ListPortfolioUseCase{repo: repo, cache: cache, ttl: ttl}
}

// Execute featured первыми, затем по order_index.
func (uc *ListPortfolioUseCase) Execute(ctx context.Context, in ListPortfolioInput) ([]*entity.PortfolioItem, error) {
	filter, err := newFilter(in)
	if err != nil {
		return nil, err
	}

	key := filter.CacheKey()
	log := logger.Component("portfolio").WithField("key", key)

	if uc.cache != nil {
		items, ok, err := uc.cache.GetList(ctx, key)
		switch {
		case err != nil:
			metrics.PortfolioCache.WithLabelValues("error").Inc()
			log.WithError(err).Warn("кэш недоступен, читаем из БД")
		case ok:
			metrics.PortfolioCache.WithLabelValues("hit").Inc()
			return items, nil
		default:
			metrics.PortfolioCache.WithLabelValues("miss").Inc()
		}
	}

	items, err := uc.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []*entity.PortfolioItem{}
	}

	if uc.cache != nil {
		if err := uc.cache.SetList(ctx, key, items, uc.ttl); err != nil {
			log.WithError(err).Warn("не удалось сохранить в кэш")
		}
	}

	return items, nil
}

func newFilter(in ListPortfolioInput) (repository.PortfolioFilter, error) {
	var filter repository.PortfolioFilter

	if category := strings.TrimSpace(in.Category); category != "" && category != "all" {
		c, err := valueobject.NewPortfolioCategory(category)
		if err != nil {
			return filter, err
		}
		filter.Category = &c
	}

	search := strings.ToLower(strings.TrimSpace(in.Search))
	if r := []rune(search); len(r) > maxSearchLength {
		search = string(r[:maxSearchLength])
	}
	filter.Search = search

	return filter, nil
}

type GetPortfolioItemUseCase struct {
	repo repository.PortfolioRepository
}

func NewGetPortfolioItemUseCase(repo repository.PortfolioRepository) *GetPortfolioItemUseCase {
	return &GetPortfolioItemUseCase{repo: repo}
}

func (uc *GetPortfolioItemUseCase) Execute(ctx context.Context, id uuid.UUID) (*entity.PortfolioItem, error) {
	return uc.repo.FindByID(ctx, id)
}
