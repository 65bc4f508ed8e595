// Package store is the gorm-backed persistence layer for projects, tasks,
// labels and annotations.
package store

import (
	"context"
	"errors"

	"github.com/Liyulingyue/PaddleLabel/internal/apperr"

	"gorm.io/gorm"
)

// Store wraps a gorm handle. A Store obtained inside Transaction writes through the transaction.
type Store struct {
	db *gorm.DB
}

// New returns a Store over db.
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// DB exposes the underlying handle.
func (s *Store) DB() *gorm.DB {
	return s.db
}

// Transaction runs fn against a Store bound to a single database transaction.
// The transaction commits when fn returns nil and rolls back otherwise.
func (s *Store) Transaction(ctx context.Context, fn func(tx *Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Store{db: tx})
	})
}

func notFoundOr(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.New(apperr.CodeNotFound, what+" not found")
	}
	return apperr.Wrap(err, apperr.CodeInternal, "query "+what)
}
