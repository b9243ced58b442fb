package models

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormRepository stores one entity kind in a SQL table through gorm. Column
// names follow gorm's snake_case naming, which matches the json names.
type GormRepository[T any] struct {
	db *gorm.DB
}

func NewGormRepository[T any](db *gorm.DB) *GormRepository[T] {
	return &GormRepository[T]{db: db}
}

// AutoMigrate creates the tables for all stored entity kinds.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&Guest{}, &Photo{}, &PartyInfo{}, &TimelineItem{})
}

func (r *GormRepository[T]) Insert(ctx context.Context, rec *T) error {
	if err := r.db.WithContext(ctx).Create(rec).Error; err != nil {
		return fmt.Errorf("failed to insert row: %w", err)
	}
	return nil
}

func (r *GormRepository[T]) FindByID(ctx context.Context, id string) (*T, error) {
	rec := new(T)
	err := r.db.WithContext(ctx).Where("id = ?", id).Take(rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNoRecord
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get row: %w", err)
	}
	return rec, nil
}

func (r *GormRepository[T]) Find(ctx context.Context, filter Filter, order Order) ([]*T, error) {
	query := r.db.WithContext(ctx).Model(new(T))
	if len(filter) > 0 {
		query = query.Where(map[string]interface{}(filter))
	}
	if order.Field != "" {
		query = query.Order(clause.OrderByColumn{Column: clause.Column{Name: order.Field}, Desc: order.Desc})
		if order.Field != "created_at" {
			query = query.Order(clause.OrderByColumn{Column: clause.Column{Name: "created_at"}})
		}
	}

	var out []*T
	if err := query.Find(&out).Error; err != nil {
		return nil, fmt.Errorf("failed to list rows: %w", err)
	}
	return out, nil
}

func (r *GormRepository[T]) Replace(ctx context.Context, id string, rec *T) error {
	res := r.db.WithContext(ctx).Model(new(T)).Where("id = ?", id).Select("*").Updates(rec)
	if res.Error != nil {
		return fmt.Errorf("failed to update row: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNoRecord
	}
	return nil
}

func (r *GormRepository[T]) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(new(T))
	if res.Error != nil {
		return fmt.Errorf("failed to delete row: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNoRecord
	}
	return nil
}
