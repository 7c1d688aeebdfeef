package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// Client is the billed party on documents. Its currency code, when set,
// overrides the company default.
type Client struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id,string"`
	CompanyID snowflake.ID `gorm:"column:company_id;not null;index" json:"company_id,string"`

	Name         string `gorm:"type:text;not null" json:"name"`
	ContactName  string `gorm:"column:contact_name;type:text" json:"contact_name"`
	Email        string `gorm:"type:text" json:"email"`
	Phone        string `gorm:"type:text" json:"phone"`
	CurrencyCode string `gorm:"column:currency_code;type:text" json:"currency_code"`

	AddressLine1 string `gorm:"column:address_line1;type:text" json:"address_line1"`
	AddressLine2 string `gorm:"column:address_line2;type:text" json:"address_line2"`
	City         string `gorm:"type:text" json:"city"`
	State        string `gorm:"type:text" json:"state"`
	PostalCode   string `gorm:"column:postal_code;type:text" json:"postal_code"`
	CountryCode  string `gorm:"column:country_code;type:text" json:"country_code"`

	VATNumber       string `gorm:"column:vat_number;type:text" json:"vat_number"`
	PaymentTermDays int    `gorm:"column:payment_term_days;not null;default:0" json:"payment_term_days"`

	Metadata datatypes.JSONMap `gorm:"type:jsonb" json:"metadata,omitempty"`

	ArchivedAt *time.Time `gorm:"column:archived_at" json:"archived_at,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Client) TableName() string { return "clients" }

func (c *Client) Validate() error {
	if c.Name == "" {
		return ErrInvalidClientName
	}
	if c.CompanyID == 0 {
		return ErrMissingCompany
	}
	return nil
}
