package domain

import "context"

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Company, error)
	Get(ctx context.Context, id string) (*Company, error)
	GetBySlug(ctx context.Context, slug string) (*Company, error)
	List(ctx context.Context) ([]Company, error)
	Update(ctx context.Context, req UpdateRequest) (*Company, error)
}

type CreateRequest struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	CurrencyCode string `json:"currency_code"`

	AddressLine1 string `json:"address_line1"`
	AddressLine2 string `json:"address_line2"`
	City         string `json:"city"`
	State        string `json:"state"`
	PostalCode   string `json:"postal_code"`
	CountryCode  string `json:"country_code"`
	VATNumber    string `json:"vat_number"`
}

type UpdateRequest struct {
	ID string `json:"id"`

	Name         *string `json:"name,omitempty"`
	Email        *string `json:"email,omitempty"`
	CurrencyCode *string `json:"currency_code,omitempty"`

	AddressLine1 *string `json:"address_line1,omitempty"`
	AddressLine2 *string `json:"address_line2,omitempty"`
	City         *string `json:"city,omitempty"`
	State        *string `json:"state,omitempty"`
	PostalCode   *string `json:"postal_code,omitempty"`
	CountryCode  *string `json:"country_code,omitempty"`
	VATNumber    *string `json:"vat_number,omitempty"`
}
