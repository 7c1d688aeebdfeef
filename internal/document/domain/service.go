package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tallybook/tallybook/pkg/db/pagination"
)

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Document, error)
	Get(ctx context.Context, req GetRequest) (*Document, error)
	List(ctx context.Context, req ListRequest) (*ListResponse, error)
	Update(ctx context.Context, req UpdateRequest) (*Document, error)

	UpsertLineItem(ctx context.Context, req UpsertLineItemRequest) (*Document, error)
	DeleteLineItem(ctx context.Context, req DeleteLineItemRequest) (*Document, error)

	MarkSent(ctx context.Context, req TransitionRequest) (*Document, error)
	VoidDocument(ctx context.Context, req TransitionRequest) (*Document, error)
	ConvertQuote(ctx context.Context, req TransitionRequest) (*Document, error)

	// Recompute re-derives totals for a stored document and persists the
	// result. Exposed for callers that change paid_to_date out of band.
	Recompute(ctx context.Context, req GetRequest) (*Document, error)

	// ApplyPayment shifts paid_to_date by delta (negative for refunds or
	// deleted payments), recomputes totals, and moves the status between
	// sent, partial, and paid based on the resulting balance.
	ApplyPayment(ctx context.Context, req ApplyPaymentRequest) (*Document, error)
}

type ApplyPaymentRequest struct {
	CompanyID string          `json:"company_id"`
	ID        string          `json:"id"`
	Delta     decimal.Decimal `json:"delta"`
}

// LineItemInput carries caller-authored line fields. Derived columns in
// the stored row are ignored on input.
type LineItemInput struct {
	ID         string          `json:"id,omitempty"`
	SortOrder  int             `json:"sort_order"`
	ProductKey string          `json:"product_key"`
	Notes      string          `json:"notes"`
	Quantity   decimal.Decimal `json:"quantity"`
	Cost       decimal.Decimal `json:"cost"`

	Discount         decimal.Decimal `json:"discount"`
	IsAmountDiscount bool            `json:"is_amount_discount"`

	TaxName1 string          `json:"tax_name1"`
	TaxRate1 decimal.Decimal `json:"tax_rate1"`
	TaxName2 string          `json:"tax_name2"`
	TaxRate2 decimal.Decimal `json:"tax_rate2"`
	TaxName3 string          `json:"tax_name3"`
	TaxRate3 decimal.Decimal `json:"tax_rate3"`
}

type CreateRequest struct {
	CompanyID string  `json:"company_id"`
	ClientID  string  `json:"client_id"`
	DocType   DocType `json:"doc_type"`

	CurrencyCode string     `json:"currency_code"`
	Date         *time.Time `json:"date,omitempty"`
	DueDate      *time.Time `json:"due_date,omitempty"`

	Discount         decimal.Decimal `json:"discount"`
	IsAmountDiscount bool            `json:"is_amount_discount"`

	TaxName1 string          `json:"tax_name1"`
	TaxRate1 decimal.Decimal `json:"tax_rate1"`
	TaxName2 string          `json:"tax_name2"`
	TaxRate2 decimal.Decimal `json:"tax_rate2"`
	TaxName3 string          `json:"tax_name3"`
	TaxRate3 decimal.Decimal `json:"tax_rate3"`

	UsesInclusiveTaxes bool `json:"uses_inclusive_taxes"`

	CustomSurcharge1    decimal.Decimal `json:"custom_surcharge1"`
	CustomSurcharge2    decimal.Decimal `json:"custom_surcharge2"`
	CustomSurcharge3    decimal.Decimal `json:"custom_surcharge3"`
	CustomSurcharge4    decimal.Decimal `json:"custom_surcharge4"`
	CustomSurchargeTax1 bool            `json:"custom_surcharge_tax1"`
	CustomSurchargeTax2 bool            `json:"custom_surcharge_tax2"`
	CustomSurchargeTax3 bool            `json:"custom_surcharge_tax3"`
	CustomSurchargeTax4 bool            `json:"custom_surcharge_tax4"`

	FrequencyDays   int        `json:"frequency_days,omitempty"`
	RemainingCycles *int       `json:"remaining_cycles,omitempty"`
	NextSendAt      *time.Time `json:"next_send_at,omitempty"`

	Notes string `json:"notes"`
	Terms string `json:"terms"`

	LineItems []LineItemInput `json:"line_items"`
}

type GetRequest struct {
	CompanyID string `json:"company_id"`
	ID        string `json:"id"`
}

type ListRequest struct {
	CompanyID string  `json:"company_id"`
	DocType   DocType `json:"doc_type"`
	Status    Status  `json:"status"`
	ClientID  string  `json:"client_id"`
	SortBy    string  `json:"sort_by"`
	OrderBy   string  `json:"order_by"`

	Pagination pagination.Pagination `json:"pagination"`
}

type ListResponse struct {
	Documents []Document          `json:"documents"`
	PageInfo  pagination.PageInfo `json:"page_info"`
}

// UpdateRequest uses pointers so absent fields keep their stored values.
type UpdateRequest struct {
	CompanyID string `json:"company_id"`
	ID        string `json:"id"`

	ClientID     *string    `json:"client_id,omitempty"`
	CurrencyCode *string    `json:"currency_code,omitempty"`
	Date         *time.Time `json:"date,omitempty"`
	DueDate      *time.Time `json:"due_date,omitempty"`

	Discount         *decimal.Decimal `json:"discount,omitempty"`
	IsAmountDiscount *bool            `json:"is_amount_discount,omitempty"`

	TaxName1 *string          `json:"tax_name1,omitempty"`
	TaxRate1 *decimal.Decimal `json:"tax_rate1,omitempty"`
	TaxName2 *string          `json:"tax_name2,omitempty"`
	TaxRate2 *decimal.Decimal `json:"tax_rate2,omitempty"`
	TaxName3 *string          `json:"tax_name3,omitempty"`
	TaxRate3 *decimal.Decimal `json:"tax_rate3,omitempty"`

	UsesInclusiveTaxes *bool `json:"uses_inclusive_taxes,omitempty"`

	CustomSurcharge1    *decimal.Decimal `json:"custom_surcharge1,omitempty"`
	CustomSurcharge2    *decimal.Decimal `json:"custom_surcharge2,omitempty"`
	CustomSurcharge3    *decimal.Decimal `json:"custom_surcharge3,omitempty"`
	CustomSurcharge4    *decimal.Decimal `json:"custom_surcharge4,omitempty"`
	CustomSurchargeTax1 *bool            `json:"custom_surcharge_tax1,omitempty"`
	CustomSurchargeTax2 *bool            `json:"custom_surcharge_tax2,omitempty"`
	CustomSurchargeTax3 *bool            `json:"custom_surcharge_tax3,omitempty"`
	CustomSurchargeTax4 *bool            `json:"custom_surcharge_tax4,omitempty"`

	FrequencyDays   *int       `json:"frequency_days,omitempty"`
	RemainingCycles *int       `json:"remaining_cycles,omitempty"`
	NextSendAt      *time.Time `json:"next_send_at,omitempty"`

	Notes *string `json:"notes,omitempty"`
	Terms *string `json:"terms,omitempty"`
}

type UpsertLineItemRequest struct {
	CompanyID  string        `json:"company_id"`
	DocumentID string        `json:"document_id"`
	Line       LineItemInput `json:"line"`
}

type DeleteLineItemRequest struct {
	CompanyID  string `json:"company_id"`
	DocumentID string `json:"document_id"`
	LineID     string `json:"line_id"`
}

type TransitionRequest struct {
	CompanyID string `json:"company_id"`
	ID        string `json:"id"`
}
