package persistence

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/ignatzorin/designer-studio/internal/domain/entity"
	"github.com/ignatzorin/designer-studio/internal/domain/repository"
	"github.com/ignatzorin/designer-studio/internal/domain/valueobject"
	"github.com/ignatzorin/designer-studio/internal/pkg/apperror"
)

const orderColumns = `id, client_id, title, description, service_type, budget, deadline, status, created_at, updated_at`

const stageColumns = `id, order_id, name, description, status, order_index, created_at, updated_at`

type orderRow struct {
	ID          uuid.UUID       `db:"id"`
	ClientID    uuid.UUID       `db:"client_id"`
	Title       string          `db:"title"`
	Description string          `db:"description"`
	ServiceType sql.NullString  `db:"service_type"`
	Budget      sql.NullFloat64 `db:"budget"`
	Deadline    sql.NullTime    `db:"deadline"`
	Status      string          `db:"status"`
	CreatedAt   time.Time       `db:"created_at"`
	UpdatedAt   time.Time       `db:"updated_at"`
}

func (r orderRow) toEntity() *entity.Order {
	o := &entity.Order{
		ID:          r.ID,
		ClientID:    r.ClientID,
		Title:       r.Title,
		Description: r.Description,
		Status:      valueobject.OrderStatus(r.Status),
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
	if r.ServiceType.Valid {
		st := valueobject.ServiceType(r.ServiceType.String)
		o.ServiceType = &st
	}
	if r.Budget.Valid {
		b := r.Budget.Float64
		o.Budget = &b
	}
	if r.Deadline.Valid {
		d := r.Deadline.Time
		o.Deadline = &d
	}
	return o
}

type stageRow struct {
	ID          uuid.UUID      `db:"id"`
	OrderID     uuid.UUID      `db:"order_id"`
	Name        string         `db:"name"`
	Description sql.NullString `db:"description"`
	Status      string         `db:"status"`
	OrderIndex  int            `db:"order_index"`
	CreatedAt   time.Time      `db:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at"`
}

func (r stageRow) toEntity() entity.OrderStage {
	s := entity.OrderStage{
		ID:        r.ID,
		OrderID:   r.OrderID,
		Name:      r.Name,
		Status:    valueobject.StageStatus(r.Status),
		Index:     r.OrderIndex,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
	if r.Description.Valid {
		d := r.Description.String
		s.Description = &d
	}
	return s
}

type OrderRepository struct {
	db *sqlx.DB
}

func NewOrderRepository(db *sqlx.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

var _ repository.OrderRepository = (*OrderRepository)(nil)

func (r *OrderRepository) CreateWithStages(ctx context.Context, order *entity.Order, stages []entity.OrderStage) error {
	err := withTransaction(ctx, r.db, func(tx *sqlx.Tx) error {
		var serviceType *string
		if order.ServiceType != nil {
			v := string(*order.ServiceType)
			serviceType = &v
		}

		query := `
			INSERT INTO orders (` + orderColumns + `)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		`
		if _, err := tx.ExecContext(ctx, query,
			order.ID,
			order.ClientID,
			order.Title,
			order.Description,
			serviceType,
			order.Budget,
			order.Deadline,
			string(order.Status),
			order.CreatedAt,
			order.UpdatedAt,
		); err != nil {
			return err
		}

		rows := make([][]any, 0, len(stages))
		for _, s := range stages {
			rows = append(rows, []any{s.ID, s.OrderID, s.Name, s.Description, string(s.Status), s.Index, s.CreatedAt, s.UpdatedAt})
		}
		return batchInsert(ctx, tx, `INSERT INTO order_stages (`+stageColumns+`)`, 8, rows)
	})
	if err != nil {
		return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось создать заказ")
	}
	return nil
}

func (r *OrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	var row orderRow
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if err = notFound(err, apperror.ErrOrderNotFound); apperror.IsNotFound(err) {
			return nil, err
		}
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось получить заказ")
	}
	return row.toEntity(), nil
}

func (r *OrderRepository) FindByClientID(ctx context.Context, clientID uuid.UUID) ([]*entity.Order, error) {
	var rows []orderRow
	query := `SELECT ` + orderColumns + ` FROM orders WHERE client_id = $1 ORDER BY created_at DESC`
	if err := r.db.SelectContext(ctx, &rows, query, clientID); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось получить заказы")
	}

	orders := make([]*entity.Order, 0, len(rows))
	for _, row := range rows {
		orders = append(orders, row.toEntity())
	}
	return orders, nil
}

func (r *OrderRepository) FindStages(ctx context.Context, orderID uuid.UUID) ([]entity.OrderStage, error) {
	var rows []stageRow
	query := `SELECT ` + stageColumns + ` FROM order_stages WHERE order_id = $1 ORDER BY order_index ASC`
	if err := r.db.SelectContext(ctx, &rows, query, orderID); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось получить этапы заказа")
	}

	stages := make([]entity.OrderStage, 0, len(rows))
	for _, row := range rows {
		stages = append(stages, row.toEntity())
	}
	return stages, nil
}

func (r *OrderRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status valueobject.OrderStatus) (*entity.Order, error) {
	var row orderRow
	query := `
		UPDATE orders SET status = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + orderColumns
	if err := r.db.GetContext(ctx, &row, query, id, string(status)); err != nil {
		if err = notFound(err, apperror.ErrOrderNotFound); apperror.IsNotFound(err) {
			return nil, err
		}
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось обновить статус заказа")
	}
	return row.toEntity(), nil
}

func (r *OrderRepository) UpdateStageStatus(ctx context.Context, stageID uuid.UUID, status valueobject.StageStatus) (*entity.OrderStage, error) {
	var row stageRow
	query := `
		UPDATE order_stages SET status = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + stageColumns
	if err := r.db.GetContext(ctx, &row, query, stageID, string(status)); err != nil {
		if err = notFound(err, apperror.ErrStageNotFound); apperror.IsNotFound(err) {
			return nil, err
		}
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось обновить статус этапа")
	}
	stage := row.toEntity()
	return &stage, nil
}
