package domain

import "errors"

var (
	ErrInvalidCurrencyCode = errors.New("currency: invalid code")
	ErrInvalidPrecision    = errors.New("currency: precision out of range")
	ErrCurrencyNotFound    = errors.New("currency: not found")
)
