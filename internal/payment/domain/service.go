package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type Service interface {
	// Record applies a payment against a document: the payment row is
	// created and the document's paid_to_date, totals, and status are
	// updated in one transaction.
	Record(ctx context.Context, req RecordRequest) (*Payment, error)

	// Delete removes a payment and reverses its effect on the document.
	Delete(ctx context.Context, req DeleteRequest) error

	List(ctx context.Context, req ListRequest) ([]Payment, error)
}

type RecordRequest struct {
	CompanyID  string          `json:"company_id"`
	DocumentID string          `json:"document_id"`
	Amount     decimal.Decimal `json:"amount"`
	Method     string          `json:"method"`
	Notes      string          `json:"notes"`
	PaidAt     *time.Time      `json:"paid_at,omitempty"`
}

type DeleteRequest struct {
	CompanyID string `json:"company_id"`
	ID        string `json:"id"`
}

type ListRequest struct {
	CompanyID  string `json:"company_id"`
	DocumentID string `json:"document_id"`
}
