package repository

import (
	"context"

	"gorm.io/gorm"
)

// Repository is a minimal generic store over a gorm model.
type Repository[T any] interface {
	Create(ctx context.Context, entity *T) error
	Save(ctx context.Context, entity *T) error
	Find(ctx context.Context, conds ...any) ([]T, error)
	First(ctx context.Context, conds ...any) (*T, error)
	Delete(ctx context.Context, conds ...any) error
}

type store[T any] struct {
	db *gorm.DB
}

// ProvideStore builds a Repository bound to the given connection.
func ProvideStore[T any](db *gorm.DB) Repository[T] {
	return &store[T]{db: db}
}

func (s *store[T]) Create(ctx context.Context, entity *T) error {
	return s.db.WithContext(ctx).Create(entity).Error
}

func (s *store[T]) Save(ctx context.Context, entity *T) error {
	return s.db.WithContext(ctx).Save(entity).Error
}

func (s *store[T]) Find(ctx context.Context, conds ...any) ([]T, error) {
	var entities []T
	if err := s.db.WithContext(ctx).Find(&entities, conds...).Error; err != nil {
		return nil, err
	}
	return entities, nil
}

func (s *store[T]) First(ctx context.Context, conds ...any) (*T, error) {
	var entity T
	err := s.db.WithContext(ctx).First(&entity, conds...).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &entity, nil
}

func (s *store[T]) Delete(ctx context.Context, conds ...any) error {
	var entity T
	return s.db.WithContext(ctx).Delete(&entity, conds...).Error
}
