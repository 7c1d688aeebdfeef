package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// DocType discriminates the billing document kinds. All four share one
// table and one totals computation.
type DocType string

const (
	DocTypeInvoice          DocType = "invoice"
	DocTypeQuote            DocType = "quote"
	DocTypeCredit           DocType = "credit"
	DocTypeRecurringInvoice DocType = "recurring_invoice"
)

func (t DocType) Valid() bool {
	switch t {
	case DocTypeInvoice, DocTypeQuote, DocTypeCredit, DocTypeRecurringInvoice:
		return true
	default:
		return false
	}
}

// Status tracks the document lifecycle.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusSent      Status = "sent"
	StatusPartial   Status = "partial"
	StatusPaid      Status = "paid"
	StatusVoid      Status = "void"
	StatusApproved  Status = "approved"
	StatusConverted Status = "converted"
	StatusActive    Status = "active" // recurring invoices only
	StatusCompleted Status = "completed"
)

// Document is an invoice, quote, credit, or recurring invoice.
//
// Subtotal, TotalTaxes, Amount, and Balance are derived by the totals
// engine and overwritten on every recompute. Callers never author them.
type Document struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id,string"`
	CompanyID snowflake.ID `gorm:"column:company_id;not null;index" json:"company_id,string"`
	ClientID  snowflake.ID `gorm:"column:client_id;not null;index" json:"client_id,string"`

	DocType DocType `gorm:"column:doc_type;type:text;not null;index" json:"doc_type"`
	Status  Status  `gorm:"type:text;not null;default:'draft'" json:"status"`
	Number  string  `gorm:"type:text" json:"number"`

	CurrencyCode string `gorm:"column:currency_code;type:text;not null;default:'USD'" json:"currency_code"`

	Date    *time.Time `gorm:"column:doc_date" json:"date,omitempty"`
	DueDate *time.Time `gorm:"column:due_date" json:"due_date,omitempty"`

	Discount         decimal.Decimal `gorm:"type:numeric(20,6);not null;default:0" json:"discount"`
	IsAmountDiscount bool            `gorm:"column:is_amount_discount;not null;default:false" json:"is_amount_discount"`

	TaxName1 string          `gorm:"column:tax_name1;type:text" json:"tax_name1"`
	TaxRate1 decimal.Decimal `gorm:"column:tax_rate1;type:numeric(10,4);not null;default:0" json:"tax_rate1"`
	TaxName2 string          `gorm:"column:tax_name2;type:text" json:"tax_name2"`
	TaxRate2 decimal.Decimal `gorm:"column:tax_rate2;type:numeric(10,4);not null;default:0" json:"tax_rate2"`
	TaxName3 string          `gorm:"column:tax_name3;type:text" json:"tax_name3"`
	TaxRate3 decimal.Decimal `gorm:"column:tax_rate3;type:numeric(10,4);not null;default:0" json:"tax_rate3"`

	UsesInclusiveTaxes bool `gorm:"column:uses_inclusive_taxes;not null;default:false" json:"uses_inclusive_taxes"`

	CustomSurcharge1    decimal.Decimal `gorm:"column:custom_surcharge1;type:numeric(20,6);not null;default:0" json:"custom_surcharge1"`
	CustomSurcharge2    decimal.Decimal `gorm:"column:custom_surcharge2;type:numeric(20,6);not null;default:0" json:"custom_surcharge2"`
	CustomSurcharge3    decimal.Decimal `gorm:"column:custom_surcharge3;type:numeric(20,6);not null;default:0" json:"custom_surcharge3"`
	CustomSurcharge4    decimal.Decimal `gorm:"column:custom_surcharge4;type:numeric(20,6);not null;default:0" json:"custom_surcharge4"`
	CustomSurchargeTax1 bool            `gorm:"column:custom_surcharge_tax1;not null;default:false" json:"custom_surcharge_tax1"`
	CustomSurchargeTax2 bool            `gorm:"column:custom_surcharge_tax2;not null;default:false" json:"custom_surcharge_tax2"`
	CustomSurchargeTax3 bool            `gorm:"column:custom_surcharge_tax3;not null;default:false" json:"custom_surcharge_tax3"`
	CustomSurchargeTax4 bool            `gorm:"column:custom_surcharge_tax4;not null;default:false" json:"custom_surcharge_tax4"`

	PaidToDate decimal.Decimal `gorm:"column:paid_to_date;type:numeric(20,6);not null;default:0" json:"paid_to_date"`

	// Derived fields, recomputed on every write.
	Subtotal   decimal.Decimal `gorm:"type:numeric(20,6);not null;default:0" json:"subtotal"`
	TotalTaxes decimal.Decimal `gorm:"column:total_taxes;type:numeric(20,6);not null;default:0" json:"total_taxes"`
	Amount     decimal.Decimal `gorm:"type:numeric(20,6);not null;default:0" json:"amount"`
	Balance    decimal.Decimal `gorm:"type:numeric(20,6);not null;default:0" json:"balance"`

	// Recurring schedule; only meaningful when DocType is recurring_invoice.
	FrequencyDays   int        `gorm:"column:frequency_days;not null;default:0" json:"frequency_days,omitempty"`
	RemainingCycles int        `gorm:"column:remaining_cycles;not null;default:-1" json:"remaining_cycles,omitempty"`
	NextSendAt      *time.Time `gorm:"column:next_send_at;index" json:"next_send_at,omitempty"`

	Notes string `gorm:"type:text" json:"notes,omitempty"`
	Terms string `gorm:"type:text" json:"terms,omitempty"`

	Metadata datatypes.JSONMap `gorm:"type:jsonb" json:"metadata,omitempty"`

	LineItems []LineItem `gorm:"foreignKey:DocumentID;constraint:OnDelete:CASCADE" json:"line_items"`
	TaxLines  []TaxLine  `gorm:"foreignKey:DocumentID;constraint:OnDelete:CASCADE" json:"tax_lines"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Document) TableName() string { return "documents" }

// LineItem is one row of a document. LineTotal and GrossLineTotal are
// derived and overwritten on every recompute.
type LineItem struct {
	ID         snowflake.ID `gorm:"primaryKey" json:"id,string"`
	DocumentID snowflake.ID `gorm:"column:document_id;not null;index" json:"document_id,string"`
	SortOrder  int          `gorm:"column:sort_order;not null;default:0" json:"sort_order"`

	ProductKey string `gorm:"column:product_key;type:text" json:"product_key"`
	Notes      string `gorm:"type:text" json:"notes"`

	Quantity decimal.Decimal `gorm:"type:numeric(20,6);not null;default:0" json:"quantity"`
	Cost     decimal.Decimal `gorm:"type:numeric(20,6);not null;default:0" json:"cost"`

	Discount         decimal.Decimal `gorm:"type:numeric(20,6);not null;default:0" json:"discount"`
	IsAmountDiscount bool            `gorm:"column:is_amount_discount;not null;default:false" json:"is_amount_discount"`

	TaxName1 string          `gorm:"column:tax_name1;type:text" json:"tax_name1"`
	TaxRate1 decimal.Decimal `gorm:"column:tax_rate1;type:numeric(10,4);not null;default:0" json:"tax_rate1"`
	TaxName2 string          `gorm:"column:tax_name2;type:text" json:"tax_name2"`
	TaxRate2 decimal.Decimal `gorm:"column:tax_rate2;type:numeric(10,4);not null;default:0" json:"tax_rate2"`
	TaxName3 string          `gorm:"column:tax_name3;type:text" json:"tax_name3"`
	TaxRate3 decimal.Decimal `gorm:"column:tax_rate3;type:numeric(10,4);not null;default:0" json:"tax_rate3"`

	LineTotal      decimal.Decimal `gorm:"column:line_total;type:numeric(20,6);not null;default:0" json:"line_total"`
	GrossLineTotal decimal.Decimal `gorm:"column:gross_line_total;type:numeric(20,6);not null;default:0" json:"gross_line_total"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (LineItem) TableName() string { return "document_line_items" }

// TaxLine is one row of the aggregated tax breakdown, keyed by tax name
// and rate. Rows are replaced wholesale on every recompute.
type TaxLine struct {
	ID         int64           `gorm:"primaryKey;autoIncrement" json:"-"`
	DocumentID snowflake.ID    `gorm:"column:document_id;not null;index" json:"document_id,string"`
	Name       string          `gorm:"type:text;not null" json:"name"`
	Rate       decimal.Decimal `gorm:"type:numeric(10,4);not null" json:"rate"`
	Amount     decimal.Decimal `gorm:"type:numeric(20,6);not null" json:"amount"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (TaxLine) TableName() string { return "document_tax_lines" }
