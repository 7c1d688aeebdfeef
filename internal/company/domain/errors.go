package domain

import "errors"

var (
	ErrInvalidCompanyName = errors.New("company: name is required")
	ErrCompanyNotFound    = errors.New("company: not found")
	ErrSlugTaken          = errors.New("company: slug already in use")
)
