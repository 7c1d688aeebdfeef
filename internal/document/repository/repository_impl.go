package repository

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	documentdomain "github.com/tallybook/tallybook/internal/document/domain"
	"github.com/tallybook/tallybook/pkg/db/option"
	"github.com/tallybook/tallybook/pkg/db/pagination"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) documentdomain.Repository {
	return &repository{db: db}
}

func (r *repository) WithTrx(tx *gorm.DB) documentdomain.Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, doc *documentdomain.Document) error {
	// Tax breakdown rows are written by ReplaceDerived only.
	return r.db.WithContext(ctx).Omit("TaxLines").Create(doc).Error
}

func (r *repository) FindByID(ctx context.Context, companyID, id snowflake.ID) (*documentdomain.Document, error) {
	var doc documentdomain.Document
	err := r.db.WithContext(ctx).
		Preload("LineItems", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC, id ASC")
		}).
		Preload("TaxLines", func(db *gorm.DB) *gorm.DB {
			return db.Order("name ASC, rate ASC")
		}).
		Where("company_id = ? AND id = ?", companyID, id).
		First(&doc).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &doc, nil
}

func (r *repository) List(ctx context.Context, companyID snowflake.ID, filter documentdomain.ListFilter, page pagination.Pagination) ([]documentdomain.Document, error) {
	var docs []documentdomain.Document
	stmt := r.db.WithContext(ctx).
		Model(&documentdomain.Document{}).
		Preload("LineItems", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC, id ASC")
		}).
		Preload("TaxLines").
		Where("company_id = ?", companyID)

	if filter.DocType != "" {
		stmt = stmt.Where("doc_type = ?", filter.DocType)
	}
	if filter.Status != "" {
		stmt = stmt.Where("status = ?", filter.Status)
	}
	if filter.ClientID != 0 {
		stmt = stmt.Where("client_id = ?", filter.ClientID)
	}

	stmt = option.WithSortBy(option.WithQuerySortBy(filter.SortBy, filter.OrderBy, map[string]bool{
		"created_at": true,
		"updated_at": true,
		"doc_date":   true,
		"number":     true,
	})).Apply(stmt)
	stmt = option.ApplyPagination(page).Apply(stmt)

	if err := stmt.Find(&docs).Error; err != nil {
		return nil, err
	}
	return docs, nil
}

func (r *repository) Update(ctx context.Context, doc *documentdomain.Document) error {
	return r.db.WithContext(ctx).
		Session(&gorm.Session{FullSaveAssociations: false}).
		Omit("LineItems", "TaxLines").
		Save(doc).Error
}

// ReplaceDerived writes the computed columns and swaps the tax breakdown
// rows inside the caller's transaction.
func (r *repository) ReplaceDerived(ctx context.Context, doc *documentdomain.Document) error {
	tx := r.db.WithContext(ctx)

	err := tx.Exec(
		`UPDATE documents
		 SET subtotal = ?, total_taxes = ?, amount = ?, balance = ?, updated_at = ?
		 WHERE id = ?`,
		doc.Subtotal,
		doc.TotalTaxes,
		doc.Amount,
		doc.Balance,
		time.Now().UTC(),
		doc.ID,
	).Error
	if err != nil {
		return err
	}

	for i := range doc.LineItems {
		line := &doc.LineItems[i]
		err = tx.Exec(
			`UPDATE document_line_items
			 SET line_total = ?, gross_line_total = ?, updated_at = ?
			 WHERE id = ? AND document_id = ?`,
			line.LineTotal,
			line.GrossLineTotal,
			time.Now().UTC(),
			line.ID,
			doc.ID,
		).Error
		if err != nil {
			return err
		}
	}

	if err := tx.Where("document_id = ?", doc.ID).Delete(&documentdomain.TaxLine{}).Error; err != nil {
		return err
	}
	for i := range doc.TaxLines {
		doc.TaxLines[i].DocumentID = doc.ID
	}
	if len(doc.TaxLines) > 0 {
		if err := tx.Create(&doc.TaxLines).Error; err != nil {
			return err
		}
	}
	return nil
}

func (r *repository) UpsertLineItem(ctx context.Context, line *documentdomain.LineItem) error {
	return r.db.WithContext(ctx).Save(line).Error
}

func (r *repository) DeleteLineItem(ctx context.Context, documentID, lineID snowflake.ID) error {
	result := r.db.WithContext(ctx).
		Where("document_id = ? AND id = ?", documentID, lineID).
		Delete(&documentdomain.LineItem{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return documentdomain.ErrLineItemNotFound
	}
	return nil
}

func (r *repository) NextSequence(ctx context.Context, companyID snowflake.ID, docType documentdomain.DocType) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&documentdomain.Document{}).
		Where("company_id = ? AND doc_type = ?", companyID, docType).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count + 1, nil
}

func (r *repository) FindDueRecurring(ctx context.Context, cutoff time.Time, limit int) ([]documentdomain.Document, error) {
	if limit <= 0 {
		limit = 50
	}
	var docs []documentdomain.Document
	err := r.db.WithContext(ctx).
		Preload("LineItems", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC, id ASC")
		}).
		Where("doc_type = ?", documentdomain.DocTypeRecurringInvoice).
		Where("status = ?", documentdomain.StatusActive).
		Where("next_send_at IS NOT NULL AND next_send_at <= ?", cutoff).
		Order("next_send_at ASC").
		Limit(limit).
		Find(&docs).Error
	if err != nil {
		return nil, err
	}
	return docs, nil
}
