package domain

import "errors"

var (
	ErrInvalidClientName = errors.New("client: name is required")
	ErrMissingCompany    = errors.New("client: company id is required")
	ErrClientNotFound    = errors.New("client: not found")
	ErrClientArchived    = errors.New("client: archived")
)
