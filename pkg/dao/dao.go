// Package dao exposes the entity-access objects used by the fixture.
//
// Every DAO satisfies the DAO contract (FindAll, Count, Remove) on top of
// a shared gorm connection. Each Remove runs in its own transaction and
// commits on return.
package dao

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"geostore/pkg/model"
)

// Filter restricts Count to rows whose columns equal the given values.
// A nil or empty Filter counts every row.
type Filter map[string]any

// DAO is the capability set the teardown engine relies on.
type DAO[E model.Entity] interface {
	FindAll(ctx context.Context) ([]E, error)
	Count(ctx context.Context, filter Filter) (int64, error)
	// Remove deletes the row. It reports false when nothing was deleted.
	Remove(ctx context.Context, entity *E) (bool, error)
}

// Base implements DAO for any entity with gorm.
type Base[E model.Entity] struct {
	db *gorm.DB
}

// NewBase binds a Base to db.
func NewBase[E model.Entity](db *gorm.DB) *Base[E] {
	return &Base[E]{db: db}
}

// Persist inserts entity and fills its generated ID.
func (b *Base[E]) Persist(ctx context.Context, entity *E) error {
	return b.db.WithContext(ctx).Create(entity).Error
}

// Find returns the row with the given id, or nil when there is none.
func (b *Base[E]) Find(ctx context.Context, id int64) (*E, error) {
	var e E
	err := b.db.WithContext(ctx).First(&e, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// FindAll returns every row ordered by id.
func (b *Base[E]) FindAll(ctx context.Context) ([]E, error) {
	var out []E
	if err := b.db.WithContext(ctx).Order("id").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// Count returns the number of rows matching filter.
func (b *Base[E]) Count(ctx context.Context, filter Filter) (int64, error) {
	q := b.db.WithContext(ctx).Model(new(E))
	if len(filter) > 0 {
		q = q.Where(map[string]any(filter))
	}
	var n int64
	if err := q.Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

// Remove deletes entity by primary key.
func (b *Base[E]) Remove(ctx context.Context, entity *E) (bool, error) {
	return b.removeWith(ctx, entity, nil)
}

// removeWith deletes entity after running before in the same transaction.
func (b *Base[E]) removeWith(ctx context.Context, entity *E, before func(tx *gorm.DB, id int64) error) (bool, error) {
	if entity == nil {
		return false, errors.New("dao: remove of nil entity")
	}
	id := (*entity).Key()
	if id == 0 {
		return false, nil
	}
	var removed bool
	err := b.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if before != nil {
			if err := before(tx, id); err != nil {
				return err
			}
		}
		res := tx.Delete(new(E), id)
		if res.Error != nil {
			return res.Error
		}
		removed = res.RowsAffected > 0
		return nil
	})
	return removed, err
}
