package domain

import (
	"context"

	"github.com/tallybook/tallybook/pkg/db/pagination"
)

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Client, error)
	Get(ctx context.Context, companyID, id string) (*Client, error)
	List(ctx context.Context, req ListRequest) (*ListResponse, error)
	Update(ctx context.Context, req UpdateRequest) (*Client, error)
	Archive(ctx context.Context, companyID, id string) (*Client, error)
}

type CreateRequest struct {
	CompanyID string `json:"company_id"`

	Name         string `json:"name"`
	ContactName  string `json:"contact_name"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	CurrencyCode string `json:"currency_code"`

	AddressLine1 string `json:"address_line1"`
	AddressLine2 string `json:"address_line2"`
	City         string `json:"city"`
	State        string `json:"state"`
	PostalCode   string `json:"postal_code"`
	CountryCode  string `json:"country_code"`

	VATNumber       string `json:"vat_number"`
	PaymentTermDays int    `json:"payment_term_days"`
}

type ListRequest struct {
	CompanyID       string `json:"company_id"`
	Name            string `json:"name"`
	Email           string `json:"email"`
	IncludeArchived bool   `json:"include_archived"`
	SortBy          string `json:"sort_by"`
	OrderBy         string `json:"order_by"`

	Pagination pagination.Pagination `json:"pagination"`
}

type ListResponse struct {
	Clients  []Client            `json:"clients"`
	PageInfo pagination.PageInfo `json:"page_info"`
}

type UpdateRequest struct {
	CompanyID string `json:"company_id"`
	ID        string `json:"id"`

	Name         *string `json:"name,omitempty"`
	ContactName  *string `json:"contact_name,omitempty"`
	Email        *string `json:"email,omitempty"`
	Phone        *string `json:"phone,omitempty"`
	CurrencyCode *string `json:"currency_code,omitempty"`

	AddressLine1 *string `json:"address_line1,omitempty"`
	AddressLine2 *string `json:"address_line2,omitempty"`
	City         *string `json:"city,omitempty"`
	State        *string `json:"state,omitempty"`
	PostalCode   *string `json:"postal_code,omitempty"`
	CountryCode  *string `json:"country_code,omitempty"`

	VATNumber       *string `json:"vat_number,omitempty"`
	PaymentTermDays *int    `json:"payment_term_days,omitempty"`
}
