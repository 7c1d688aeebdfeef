package repository

import (
	"context"
	"errors"

	currencydomain "github.com/tallybook/tallybook/internal/currency/domain"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) currencydomain.Repository {
	return &repository{db: db}
}

func (r *repository) FindByCode(ctx context.Context, code string) (*currencydomain.Currency, error) {
	var cur currencydomain.Currency
	err := r.db.WithContext(ctx).
		Where("code = ?", code).
		First(&cur).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &cur, nil
}

func (r *repository) List(ctx context.Context) ([]currencydomain.Currency, error) {
	var items []currencydomain.Currency
	if err := r.db.WithContext(ctx).Order("code ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repository) Upsert(ctx context.Context, cur *currencydomain.Currency) error {
	return r.db.WithContext(ctx).Save(cur).Error
}
