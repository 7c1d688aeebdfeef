package domain

import "errors"

var (
	ErrDocumentNotFound  = errors.New("document: not found")
	ErrLineItemNotFound  = errors.New("document: line item not found")
	ErrInvalidDocType    = errors.New("document: invalid doc type")
	ErrInvalidStatus     = errors.New("document: invalid status transition")
	ErrDocumentVoided    = errors.New("document: voided documents are immutable")
	ErrNotAQuote         = errors.New("document: only quotes can be converted")
	ErrAlreadyConverted  = errors.New("document: quote already converted")
	ErrInvalidClient     = errors.New("document: unknown client")
	ErrInvalidFrequency  = errors.New("document: recurring frequency must be positive")
	ErrNumberConflict    = errors.New("document: number already assigned")
	ErrMissingDocumentID = errors.New("document: id is required")
)
