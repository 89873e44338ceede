package router_test

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ignatzorin/designer-studio/internal/domain/entity"
	"github.com/ignatzorin/designer-studio/internal/domain/repository"
	"github.com/ignatzorin/designer-studio/internal/domain/valueobject"
	"github.com/ignatzorin/designer-studio/internal/pkg/apperror"
)

// memStore репозитории в памяти для тестов обработчиков.
type memStore struct {
	mu        sync.Mutex
	profiles  map[uuid.UUID]*entity.Profile
	orders    map[uuid.UUID]*entity.Order
	stages    map[uuid.UUID][]entity.OrderStage
	comments  []*entity.OrderComment
	portfolio []*entity.PortfolioItem
	clock     time.Time
}

func newMemStore() *memStore {
	return &memStore{
		profiles: make(map[uuid.UUID]*entity.Profile),
		orders:   make(map[uuid.UUID]*entity.Order),
		stages:   make(map[uuid.UUID][]entity.OrderStage),
		clock:    time.Date(2025, 2, 1, 9, 0, 0, 0, time.UTC),
	}
}

func (s *memStore) tick() time.Time {
	s.clock = s.clock.Add(time.Second)
	return s.clock
}

type memProfiles struct{ *memStore }

func (r memProfiles) Upsert(ctx context.Context, in entity.ProfileSync) (*entity.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var username, lastName *string
	if in.Username != "" {
		username = &in.Username
	}
	if in.LastName != "" {
		lastName = &in.LastName
	}

	for _, p := range r.profiles {
		if p.TelegramID == in.TelegramID {
			p.FirstName, p.Username, p.LastName = in.FirstName, username, lastName
			p.UpdatedAt = r.tick()
			return p, nil
		}
	}

	now := r.tick()
	p := &entity.Profile{
		ID:         uuid.New(),
		TelegramID: in.TelegramID,
		FirstName:  in.FirstName,
		Username:   username,
		LastName:   lastName,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	r.profiles[p.ID] = p
	return p, nil
}

func (r memProfiles) FindByID(ctx context.Context, id uuid.UUID) (*entity.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.profiles[id]; ok {
		return p, nil
	}
	return nil, apperror.ErrProfileNotFound
}

func (r memProfiles) FindByTelegramID(ctx context.Context, telegramID int64) (*entity.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.profiles {
		if p.TelegramID == telegramID {
			return p, nil
		}
	}
	return nil, apperror.ErrProfileNotFound
}

type memOrders struct{ *memStore }

func (r memOrders) CreateWithStages(ctx context.Context, o *entity.Order, stages []entity.OrderStage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	o.CreatedAt = r.tick()
	r.orders[o.ID] = o
	r.stages[o.ID] = append([]entity.OrderStage(nil), stages...)
	return nil
}

func (r memOrders) FindByID(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if o, ok := r.orders[id]; ok {
		cp := *o
		return &cp, nil
	}
	return nil, apperror.ErrOrderNotFound
}

func (r memOrders) FindByClientID(ctx context.Context, clientID uuid.UUID) ([]*entity.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Order
	for _, o := range r.orders {
		if o.ClientID == clientID {
			cp := *o
			out = append(out, &cp)
		}
	}
	entity.SortNewestFirst(out)
	return out, nil
}

func (r memOrders) FindStages(ctx context.Context, orderID uuid.UUID) ([]entity.OrderStage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]entity.OrderStage(nil), r.stages[orderID]...), nil
}

func (r memOrders) UpdateStatus(ctx context.Context, id uuid.UUID, status valueobject.OrderStatus) (*entity.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok {
		return nil, apperror.ErrOrderNotFound
	}
	o.Status = status
	cp := *o
	return &cp, nil
}

func (r memOrders) UpdateStageStatus(ctx context.Context, stageID uuid.UUID, status valueobject.StageStatus) (*entity.OrderStage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for orderID, stages := range r.stages {
		for i := range stages {
			if stages[i].ID == stageID {
				r.stages[orderID][i].Status = status
				s := r.stages[orderID][i]
				return &s, nil
			}
		}
	}
	return nil, apperror.ErrStageNotFound
}

type memComments struct{ *memStore }

func (r memComments) Create(ctx context.Context, c *entity.OrderComment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c.CreatedAt = r.tick()
	cp := *c
	r.comments = append(r.comments, &cp)
	return nil
}

func (r memComments) withAuthor(c *entity.OrderComment) *entity.OrderComment {
	out := *c
	if p, ok := r.profiles[c.AuthorID]; ok {
		out.Author = &entity.CommentAuthor{FirstName: p.FirstName, Username: p.Username}
	}
	return &out
}

func (r memComments) FindByID(ctx context.Context, id uuid.UUID) (*entity.OrderComment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.comments {
		if c.ID == id {
			return r.withAuthor(c), nil
		}
	}
	return nil, apperror.ErrCommentNotFound
}

func (r memComments) ListPublic(ctx context.Context, orderID uuid.UUID) ([]*entity.OrderComment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.OrderComment
	for _, c := range r.comments {
		if c.OrderID == orderID && !c.IsInternal {
			out = append(out, r.withAuthor(c))
		}
	}
	return out, nil
}

type memPortfolio struct{ *memStore }

func (r memPortfolio) List(ctx context.Context, filter repository.PortfolioFilter) ([]*entity.PortfolioItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.PortfolioItem
	for _, p := range r.portfolio {
		if filter.Category != nil && p.Category != *filter.Category {
			continue
		}
		if !p.MatchesQuery(filter.Search) {
			continue
		}
		out = append(out, p)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].OrderIndex < out[j].OrderIndex })
	return out, nil
}

func (r memPortfolio) FindByID(ctx context.Context, id uuid.UUID) (*entity.PortfolioItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.portfolio {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, apperror.ErrPortfolioNotFound
}
