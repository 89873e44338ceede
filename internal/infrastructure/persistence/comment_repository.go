package persistence

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/ignatzorin/designer-studio/internal/domain/entity"
	"github.com/ignatzorin/designer-studio/internal/domain/repository"
	"github.com/ignatzorin/designer-studio/internal/pkg/apperror"
)

const commentSelect = `
	SELECT c.id, c.order_id, c.author_id, c.content, c.attachment_url, c.is_internal, c.created_at,
	       p.first_name AS author_first_name, p.username AS author_username
	FROM order_comments c
	LEFT JOIN profiles p ON p.id = c.author_id
`

type commentRow struct {
	ID              uuid.UUID      `db:"id"`
	OrderID         uuid.UUID      `db:"order_id"`
	AuthorID        uuid.UUID      `db:"author_id"`
	Content         string         `db:"content"`
	AttachmentURL   sql.NullString `db:"attachment_url"`
	IsInternal      bool           `db:"is_internal"`
	CreatedAt       time.Time      `db:"created_at"`
	AuthorFirstName sql.NullString `db:"author_first_name"`
	AuthorUsername  sql.NullString `db:"author_username"`
}

func (r commentRow) toEntity() *entity.OrderComment {
	c := &entity.OrderComment{
		ID:            r.ID,
		OrderID:       r.OrderID,
		AuthorID:      r.AuthorID,
		Content:       r.Content,
		AttachmentURL: nullableString(r.AttachmentURL),
		IsInternal:    r.IsInternal,
		CreatedAt:     r.CreatedAt,
	}
	if r.AuthorFirstName.Valid {
		c.Author = &entity.CommentAuthor{
			FirstName: r.AuthorFirstName.String,
			Username:  nullableString(r.AuthorUsername),
		}
	}
	return c
}

type CommentRepository struct {
	db *sqlx.DB
}

func NewCommentRepository(db *sqlx.DB) *CommentRepository {
	return &CommentRepository{db: db}
}

var _ repository.CommentRepository = (*CommentRepository)(nil)

func (r *CommentRepository) Create(ctx context.Context, c *entity.OrderComment) error {
	query := `
		INSERT INTO order_comments (id, order_id, author_id, content, attachment_url, is_internal, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	if _, err := r.db.ExecContext(ctx, query,
		c.ID, c.OrderID, c.AuthorID, c.Content, c.AttachmentURL, c.IsInternal, c.CreatedAt,
	); err != nil {
		return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось сохранить комментарий")
	}
	return nil
}

func (r *CommentRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.OrderComment, error) {
	var row commentRow
	if err := r.db.GetContext(ctx, &row, commentSelect+` WHERE c.id = $1`, id); err != nil {
		if err = notFound(err, apperror.ErrCommentNotFound); apperror.IsNotFound(err) {
			return nil, err
		}
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось получить комментарий")
	}
	return row.toEntity(), nil
}

func (r *CommentRepository) ListPublic(ctx context.Context, orderID uuid.UUID) ([]*entity.OrderComment, error) {
	var rows []commentRow
	query := commentSelect + `
		WHERE c.order_id = $1 AND c.is_internal = FALSE
		ORDER BY c.created_at ASC, c.id ASC
	`
	if err := r.db.SelectContext(ctx, &rows, query, orderID); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось получить комментарии")
	}

	comments := make([]*entity.OrderComment, 0, len(rows))
	for _, row := range rows {
		comments = append(comments, row.toEntity())
	}
	return comments, nil
}
