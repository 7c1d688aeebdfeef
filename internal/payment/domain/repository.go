package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	WithTrx(tx *gorm.DB) Repository

	Create(ctx context.Context, payment *Payment) error
	FindByID(ctx context.Context, companyID, id snowflake.ID) (*Payment, error)
	ListByDocument(ctx context.Context, companyID, documentID snowflake.ID) ([]Payment, error)
	Delete(ctx context.Context, companyID, id snowflake.ID) error
}
