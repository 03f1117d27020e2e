package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

var (
	// ErrChainConflict means the predecessor was superseded by someone else
	// between being read and being linked.
	ErrChainConflict = errors.New("part record already superseded")
	// ErrUnknownColumn is returned for distinct queries on columns that are
	// not whitelisted.
	ErrUnknownColumn = errors.New("unknown column")
)

// Transactor runs fn inside one database transaction. Repository methods that
// take a tx run on it; a nil tx means the repository's own connection.
type Transactor interface {
	Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type gormTransactor struct {
	db *gorm.DB
}

func NewTransactor(db *gorm.DB) Transactor {
	return &gormTransactor{db}
}

func (t *gormTransactor) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return t.db.WithContext(ctx).Transaction(fn)
}

// conn picks tx when the caller is inside a transaction.
func conn(ctx context.Context, db *gorm.DB, tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx.WithContext(ctx)
	}
	return db.WithContext(ctx)
}

// scanColumn collects one column of rows, skipping NULLs.
func scanColumn(q *gorm.DB) ([]interface{}, error) {
	rows, err := q.Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	values := []interface{}{}
	for rows.Next() {
		var v interface{}
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		if v != nil {
			values = append(values, v)
		}
	}
	return values, rows.Err()
}
