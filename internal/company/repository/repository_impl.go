package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	companydomain "github.com/tallybook/tallybook/internal/company/domain"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) companydomain.Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, company *companydomain.Company) error {
	return r.db.WithContext(ctx).Create(company).Error
}

func (r *repository) FindByID(ctx context.Context, id snowflake.ID) (*companydomain.Company, error) {
	var company companydomain.Company
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&company).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &company, nil
}

func (r *repository) FindBySlug(ctx context.Context, slug string) (*companydomain.Company, error) {
	var company companydomain.Company
	err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&company).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &company, nil
}

func (r *repository) List(ctx context.Context) ([]companydomain.Company, error) {
	var companies []companydomain.Company
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&companies).Error; err != nil {
		return nil, err
	}
	return companies, nil
}

func (r *repository) Update(ctx context.Context, company *companydomain.Company) error {
	return r.db.WithContext(ctx).Save(company).Error
}
