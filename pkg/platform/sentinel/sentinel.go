// Package sentinel defines infrastructure-level sentinel errors.
//
// Stores return these (optionally wrapped) so services can translate them
// into coded domain errors without inspecting driver-specific failures.
// They represent factual states about resources, not validation failures:
//
//   - ErrNotFound: entity does not exist in the store
//   - ErrConflict: uniqueness constraint hit (case number, employee id)
//   - ErrInvalidState: entity in wrong state for the requested operation
//   - ErrUnavailable: backing service temporarily unreachable
//
// For validation errors use pkg/domain-errors directly.
package sentinel

import "errors"

var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrInvalidState = errors.New("invalid state")
	ErrUnavailable  = errors.New("unavailable")
)
