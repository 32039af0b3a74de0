// Package repository provides a generic gorm-backed store shared by the
// feature services.
package repository

import (
	"context"

	"gorm.io/gorm"
)

type Repository[T any] interface {
	WithTrx(tx *gorm.DB) Repository[T]
	Find(ctx context.Context, query *T, opts ...QueryOption) ([]*T, error)
	FindOne(ctx context.Context, query *T) (*T, error)
	Create(ctx context.Context, resource *T) error
	BatchCreate(ctx context.Context, resources []*T) error
	Update(ctx context.Context, resourceID string, resource any) error
	Delete(ctx context.Context, resourceID string) error
	DeleteWhere(ctx context.Context, query *T, opts ...QueryOption) (int64, error)
	Count(ctx context.Context, query *T) (int64, error)
}

// QueryOption narrows or orders a Find beyond the exact-match filter struct.
type QueryOption interface {
	Apply(db *gorm.DB) *gorm.DB
}

type queryOptionFunc func(db *gorm.DB) *gorm.DB

func (f queryOptionFunc) Apply(db *gorm.DB) *gorm.DB { return f(db) }

// WithTimeRange adds an inclusive [start, end] bound on the given column.
// Zero-valued bounds are skipped.
func WithTimeRange(column string, start, end any) QueryOption {
	return queryOptionFunc(func(db *gorm.DB) *gorm.DB {
		if start != nil {
			db = db.Where(column+" >= ?", start)
		}
		if end != nil {
			db = db.Where(column+" <= ?", end)
		}
		return db
	})
}

// WithOrderBy applies an ORDER BY expression.
func WithOrderBy(expr string) QueryOption {
	return queryOptionFunc(func(db *gorm.DB) *gorm.DB {
		return db.Order(expr)
	})
}

// WithLimit caps the result size when positive.
func WithLimit(limit int) QueryOption {
	return queryOptionFunc(func(db *gorm.DB) *gorm.DB {
		if limit > 0 {
			return db.Limit(limit)
		}
		return db
	})
}
