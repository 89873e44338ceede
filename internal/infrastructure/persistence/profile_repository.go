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

const profileColumns = `id, telegram_id, username, first_name, last_name, created_at, updated_at`

type profileRow struct {
	ID         uuid.UUID      `db:"id"`
	TelegramID int64          `db:"telegram_id"`
	Username   sql.NullString `db:"username"`
	FirstName  string         `db:"first_name"`
	LastName   sql.NullString `db:"last_name"`
	CreatedAt  time.Time      `db:"created_at"`
	UpdatedAt  time.Time      `db:"updated_at"`
}

func (r profileRow) toEntity() *entity.Profile {
	return &entity.Profile{
		ID:         r.ID,
		TelegramID: r.TelegramID,
		Username:   nullableString(r.Username),
		FirstName:  r.FirstName,
		LastName:   nullableString(r.LastName),
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}
}

type ProfileRepository struct {
	db *sqlx.DB
}

func NewProfileRepository(db *sqlx.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

var _ repository.ProfileRepository = (*ProfileRepository)(nil)

func (r *ProfileRepository) Upsert(ctx context.Context, in entity.ProfileSync) (*entity.Profile, error) {
	var row profileRow
	query := `
		INSERT INTO profiles (telegram_id, username, first_name, last_name)
		VALUES ($1, NULLIF($2, ''), $3, NULLIF($4, ''))
		ON CONFLICT (telegram_id) DO UPDATE
		SET username = EXCLUDED.username,
		    first_name = EXCLUDED.first_name,
		    last_name = EXCLUDED.last_name,
		    updated_at = NOW()
		RETURNING ` + profileColumns
	if err := r.db.GetContext(ctx, &row, query, in.TelegramID, in.Username, in.FirstName, in.LastName); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось сохранить профиль")
	}
	return row.toEntity(), nil
}

func (r *ProfileRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Profile, error) {
	return r.findOne(ctx, `SELECT `+profileColumns+` FROM profiles WHERE id = $1`, id)
}

func (r *ProfileRepository) FindByTelegramID(ctx context.Context, telegramID int64) (*entity.Profile, error) {
	return r.findOne(ctx, `SELECT `+profileColumns+` FROM profiles WHERE telegram_id = $1`, telegramID)
}

func (r *ProfileRepository) findOne(ctx context.Context, query string, arg any) (*entity.Profile, error) {
	var row profileRow
	if err := r.db.GetContext(ctx, &row, query, arg); err != nil {
		if err = notFound(err, apperror.ErrProfileNotFound); apperror.IsNotFound(err) {
			return nil, err
		}
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось получить профиль")
	}
	return row.toEntity(), nil
}

func nullableString(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}
