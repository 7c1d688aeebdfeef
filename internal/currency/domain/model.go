package domain

import "time"

// Currency is reference data describing how amounts in a currency are
// rounded and displayed. Precision drives all monetary rounding, so rows
// are seeded at migration time and treated as read-mostly.
type Currency struct {
	Code              string    `gorm:"primaryKey;type:text" json:"code"`
	Name              string    `gorm:"type:text;not null" json:"name"`
	Symbol            string    `gorm:"type:text;not null" json:"symbol"`
	Precision         int32     `gorm:"not null;default:2" json:"precision"`
	ThousandSeparator string    `gorm:"column:thousand_separator;type:text;not null;default:','" json:"thousand_separator"`
	DecimalSeparator  string    `gorm:"column:decimal_separator;type:text;not null;default:'.'" json:"decimal_separator"`
	CreatedAt         time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt         time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Currency) TableName() string { return "currencies" }

// DefaultPrecision applies when a document references an unknown currency.
const DefaultPrecision int32 = 2

func (c *Currency) Validate() error {
	if c.Code == "" {
		return ErrInvalidCurrencyCode
	}
	if c.Precision < 0 || c.Precision > 4 {
		return ErrInvalidPrecision
	}
	return nil
}
