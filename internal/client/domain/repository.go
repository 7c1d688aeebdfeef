package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/tallybook/tallybook/pkg/db/pagination"
)

type Repository interface {
	Create(ctx context.Context, client *Client) error
	FindByID(ctx context.Context, companyID, id snowflake.ID) (*Client, error)
	List(ctx context.Context, companyID snowflake.ID, filter ListFilter, page pagination.Pagination) ([]Client, error)
	Update(ctx context.Context, client *Client) error
}

type ListFilter struct {
	Name            string
	Email           string
	IncludeArchived bool
	SortBy          string
	OrderBy         string
}
