package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// Company is the issuing entity on documents. Its currency code is the
// fallback when a client does not set one.
type Company struct {
	ID   snowflake.ID `gorm:"primaryKey" json:"id,string"`
	Name string       `gorm:"type:text;not null" json:"name"`
	Slug string       `gorm:"type:text;not null;uniqueIndex" json:"slug"`

	Email        string `gorm:"type:text" json:"email"`
	CurrencyCode string `gorm:"column:currency_code;type:text;not null;default:'USD'" json:"currency_code"`

	AddressLine1 string `gorm:"column:address_line1;type:text" json:"address_line1"`
	AddressLine2 string `gorm:"column:address_line2;type:text" json:"address_line2"`
	City         string `gorm:"type:text" json:"city"`
	State        string `gorm:"type:text" json:"state"`
	PostalCode   string `gorm:"column:postal_code;type:text" json:"postal_code"`
	CountryCode  string `gorm:"column:country_code;type:text" json:"country_code"`

	VATNumber string `gorm:"column:vat_number;type:text" json:"vat_number"`

	Settings datatypes.JSONMap `gorm:"type:jsonb" json:"settings,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Company) TableName() string { return "companies" }

func (c *Company) Validate() error {
	if c.Name == "" {
		return ErrInvalidCompanyName
	}
	return nil
}
