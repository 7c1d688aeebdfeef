package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	clientdomain "github.com/tallybook/tallybook/internal/client/domain"
	"github.com/tallybook/tallybook/pkg/db/option"
	"github.com/tallybook/tallybook/pkg/db/pagination"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) clientdomain.Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, client *clientdomain.Client) error {
	return r.db.WithContext(ctx).Create(client).Error
}

func (r *repository) FindByID(ctx context.Context, companyID, id snowflake.ID) (*clientdomain.Client, error) {
	var client clientdomain.Client
	err := r.db.WithContext(ctx).
		Where("company_id = ? AND id = ?", companyID, id).
		First(&client).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &client, nil
}

func (r *repository) List(ctx context.Context, companyID snowflake.ID, filter clientdomain.ListFilter, page pagination.Pagination) ([]clientdomain.Client, error) {
	var clients []clientdomain.Client
	stmt := r.db.WithContext(ctx).
		Model(&clientdomain.Client{}).
		Where("company_id = ?", companyID)

	if filter.Name != "" {
		stmt = stmt.Where("name LIKE ?", "%"+filter.Name+"%")
	}
	if filter.Email != "" {
		stmt = stmt.Where("email = ?", filter.Email)
	}
	if !filter.IncludeArchived {
		stmt = stmt.Where("archived_at IS NULL")
	}

	stmt = option.WithSortBy(option.WithQuerySortBy(filter.SortBy, filter.OrderBy, map[string]bool{
		"created_at": true,
		"updated_at": true,
		"name":       true,
	})).Apply(stmt)
	stmt = option.ApplyPagination(page).Apply(stmt)

	if err := stmt.Find(&clients).Error; err != nil {
		return nil, err
	}
	return clients, nil
}

func (r *repository) Update(ctx context.Context, client *clientdomain.Client) error {
	return r.db.WithContext(ctx).Save(client).Error
}
