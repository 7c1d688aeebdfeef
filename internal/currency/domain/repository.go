package domain

import "context"

type Repository interface {
	FindByCode(ctx context.Context, code string) (*Currency, error)
	List(ctx context.Context) ([]Currency, error)
	Upsert(ctx context.Context, cur *Currency) error
}
