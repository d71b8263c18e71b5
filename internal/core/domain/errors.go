package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotImplemented indicates functionality is not yet available.
	ErrNotImplemented = errors.New("not implemented")

	// ErrUnsupportedType indicates an input format no adapter can handle.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrEmptyDocument indicates the input produced no pages.
	ErrEmptyDocument = errors.New("empty document")

	// ErrOCRUnavailable indicates the OCR service is not configured.
	// PDF inputs cannot be processed without it; markdown inputs still work.
	ErrOCRUnavailable = errors.New("OCR service unavailable")

	// ErrAuthRequired indicates the OCR service rejected or lacks credentials.
	ErrAuthRequired = errors.New("authentication required")

	// ErrRateLimited indicates the OCR API rate limit was exceeded.
	ErrRateLimited = errors.New("rate limited")
)
