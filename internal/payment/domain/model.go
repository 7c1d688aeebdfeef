package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// Payment records money applied against a document. Reference is a ULID
// handed to the payer, sortable by creation time.
type Payment struct {
	ID         snowflake.ID `gorm:"primaryKey" json:"id,string"`
	CompanyID  snowflake.ID `gorm:"column:company_id;not null;index" json:"company_id,string"`
	ClientID   snowflake.ID `gorm:"column:client_id;not null;index" json:"client_id,string"`
	DocumentID snowflake.ID `gorm:"column:document_id;not null;index" json:"document_id,string"`

	Reference    string          `gorm:"type:text;not null;uniqueIndex" json:"reference"`
	Amount       decimal.Decimal `gorm:"type:numeric(20,6);not null" json:"amount"`
	CurrencyCode string          `gorm:"column:currency_code;type:text;not null" json:"currency_code"`

	Method string `gorm:"type:text" json:"method"`
	Notes  string `gorm:"type:text" json:"notes"`

	PaidAt    time.Time `gorm:"column:paid_at;not null" json:"paid_at"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (Payment) TableName() string { return "payments" }

func (p *Payment) Validate() error {
	if p.DocumentID == 0 {
		return ErrMissingDocument
	}
	if p.Amount.IsZero() {
		return ErrZeroAmount
	}
	return nil
}
