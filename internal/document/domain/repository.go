package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/tallybook/tallybook/pkg/db/pagination"
	"gorm.io/gorm"
)

type Repository interface {
	WithTrx(tx *gorm.DB) Repository

	Create(ctx context.Context, doc *Document) error
	FindByID(ctx context.Context, companyID, id snowflake.ID) (*Document, error)
	List(ctx context.Context, companyID snowflake.ID, filter ListFilter, page pagination.Pagination) ([]Document, error)
	Update(ctx context.Context, doc *Document) error

	// ReplaceDerived persists the totals engine output: the document's
	// computed columns, every line's derived columns, and a full
	// delete-and-insert of the tax breakdown rows.
	ReplaceDerived(ctx context.Context, doc *Document) error

	UpsertLineItem(ctx context.Context, line *LineItem) error
	DeleteLineItem(ctx context.Context, documentID, lineID snowflake.ID) error

	FindDueRecurring(ctx context.Context, cutoff time.Time, limit int) ([]Document, error)

	// NextSequence returns the next monotonic number sequence for a
	// company and document type. Call inside a transaction to keep
	// numbers gapless under concurrent creates.
	NextSequence(ctx context.Context, companyID snowflake.ID, docType DocType) (int64, error)
}

type ListFilter struct {
	DocType  DocType
	Status   Status
	ClientID snowflake.ID
	SortBy   string
	OrderBy  string
}
