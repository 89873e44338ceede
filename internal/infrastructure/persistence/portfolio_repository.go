package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/ignatzorin/designer-studio/internal/domain/entity"
	"github.com/ignatzorin/designer-studio/internal/domain/repository"
	"github.com/ignatzorin/designer-studio/internal/domain/valueobject"
	"github.com/ignatzorin/designer-studio/internal/pkg/apperror"
)

const portfolioColumns = `id, title, description, category, client_name, project_url, duration, budget,
	technologies, images, before_images, after_images, featured, order_index, created_at`

type portfolioRow struct {
	ID           uuid.UUID       `db:"id"`
	Title        string          `db:"title"`
	Description  string          `db:"description"`
	Category     string          `db:"category"`
	ClientName   string          `db:"client_name"`
	ProjectURL   sql.NullString  `db:"project_url"`
	Duration     string          `db:"duration"`
	Budget       sql.NullFloat64 `db:"budget"`
	Technologies pq.StringArray  `db:"technologies"`
	Images       pq.StringArray  `db:"images"`
	BeforeImages pq.StringArray  `db:"before_images"`
	AfterImages  pq.StringArray  `db:"after_images"`
	Featured     bool            `db:"featured"`
	OrderIndex   int             `db:"order_index"`
	CreatedAt    time.Time       `db:"created_at"`
}

func (r portfolioRow) toEntity() *entity.PortfolioItem {
	item := &entity.PortfolioItem{
		ID:           r.ID,
		Title:        r.Title,
		Description:  r.Description,
		Category:     valueobject.PortfolioCategory(r.Category),
		ClientName:   r.ClientName,
		ProjectURL:   nullableString(r.ProjectURL),
		Duration:     r.Duration,
		Technologies: []string(r.Technologies),
		Images:       []string(r.Images),
		BeforeImages: []string(r.BeforeImages),
		AfterImages:  []string(r.AfterImages),
		Featured:     r.Featured,
		OrderIndex:   r.OrderIndex,
		CreatedAt:    r.CreatedAt,
	}
	if r.Budget.Valid {
		b := r.Budget.Float64
		item.Budget = &b
	}
	return item
}

type PortfolioRepository struct {
	db *sqlx.DB
}

func NewPortfolioRepository(db *sqlx.DB) *PortfolioRepository {
	return &PortfolioRepository{db: db}
}

var _ repository.PortfolioRepository = (*PortfolioRepository)(nil)

func (r *PortfolioRepository) List(ctx context.Context, filter repository.PortfolioFilter) ([]*entity.PortfolioItem, error) {
	query, args := buildPortfolioQuery(filter)

	var rows []portfolioRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось получить портфолио")
	}

	items := make([]*entity.PortfolioItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *PortfolioRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.PortfolioItem, error) {
	var row portfolioRow
	if err := r.db.GetContext(ctx, &row, `SELECT `+portfolioColumns+` FROM portfolio_items WHERE id = $1`, id); err != nil {
		if err = notFound(err, apperror.ErrPortfolioNotFound); apperror.IsNotFound(err) {
			return nil, err
		}
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось получить работу")
	}
	return row.toEntity(), nil
}

// buildPortfolioQuery собирает SELECT с необязательными фильтрами.
func buildPortfolioQuery(filter repository.PortfolioFilter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	if filter.Category != nil {
		args = append(args, string(*filter.Category))
		conds = append(conds, fmt.Sprintf("category = $%d", len(args)))
	}
	if q := strings.TrimSpace(filter.Search); q != "" {
		args = append(args, "%"+escapeLike(q)+"%")
		n := len(args)
		conds = append(conds, fmt.Sprintf("(title ILIKE $%d OR description ILIKE $%d OR client_name ILIKE $%d)", n, n, n))
	}

	query := `SELECT ` + portfolioColumns + ` FROM portfolio_items`
	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, " AND ")
	}
	query += ` ORDER BY order_index ASC, created_at DESC`
	return query, args
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
