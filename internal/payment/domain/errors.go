package domain

import "errors"

var (
	ErrPaymentNotFound = errors.New("payment: not found")
	ErrMissingDocument = errors.New("payment: document id is required")
	ErrZeroAmount      = errors.New("payment: amount cannot be zero")
)
