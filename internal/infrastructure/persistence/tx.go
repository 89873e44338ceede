package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
)

// withTransaction выполняет fn внутри транзакции, откатывая её при ошибке или панике.
func withTransaction(ctx context.Context, db *sqlx.DB, fn func(*sqlx.Tx) error) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("tx error: %w, rollback error: %v", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// batchInsert вставляет все строки одним INSERT ... VALUES (...), (...).
func batchInsert(ctx context.Context, tx *sqlx.Tx, baseQuery string, fieldsCount int, rows [][]any) error {
	if len(rows) == 0 {
		return nil
	}

	args := make([]any, 0, len(rows)*fieldsCount)
	for i, row := range rows {
		if len(row) != fieldsCount {
			return fmt.Errorf("batch insert: строка %d: ожидалось %d полей, получено %d", i, fieldsCount, len(row))
		}
		args = append(args, row...)
	}

	query := baseQuery + " VALUES " + batchPlaceholders(len(rows), fieldsCount)
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("batch insert: %w", err)
	}
	return nil
}

// batchPlaceholders генерирует ($1, $2), ($3, $4), ...
func batchPlaceholders(rows, fields int) string {
	var b strings.Builder
	for i := 0; i < rows; i++ {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteByte('(')
		for j := 0; j < fields; j++ {
			if j > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(&b, "$%d", i*fields+j+1)
		}
		b.WriteByte(')')
	}
	return b.String()
}

// notFound подменяет sql.ErrNoRows на доменную ошибку.
func notFound(err, domainErr error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return domainErr
	}
	return err
}
