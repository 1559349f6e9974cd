package rag

import "errors"

var (
	// ErrProjectNotFound marks a missing or inactive project.
	ErrProjectNotFound = errors.New("project not found")

	// ErrDocumentNotFound marks a missing or already-deleted document.
	ErrDocumentNotFound = errors.New("document not found")

	// ErrImageNotFound marks a missing or already-deleted image.
	ErrImageNotFound = errors.New("image not found")

	// ErrEmptyInput marks a request without usable payload.
	ErrEmptyInput = errors.New("empty input")
)
