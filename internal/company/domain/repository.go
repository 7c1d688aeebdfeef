package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

type Repository interface {
	Create(ctx context.Context, company *Company) error
	FindByID(ctx context.Context, id snowflake.ID) (*Company, error)
	FindBySlug(ctx context.Context, slug string) (*Company, error)
	List(ctx context.Context) ([]Company, error)
	Update(ctx context.Context, company *Company) error
}
