package errors

import (
	"fmt"
	"strings"
)

// ErrorCode represents a huntbot error code.
type ErrorCode string

const (
	ErrValidation     ErrorCode = "VALIDATION"      // 400: bad input, rejected before any side effect
	ErrAmbiguousRound ErrorCode = "AMBIGUOUS_ROUND" // 400: round prefix matches more than one round
	ErrNotFound       ErrorCode = "NOT_FOUND"       // 404
	ErrConflict       ErrorCode = "CONFLICT"        // 409: duplicate puzzle, already solved, not a puzzle channel
	ErrCapacity       ErrorCode = "CAPACITY"        // 409: solved category at the platform channel ceiling
	ErrBusy           ErrorCode = "BUSY"            // 423: voice room occupied; informational, not fatal
	ErrExternal       ErrorCode = "EXTERNAL"        // 502: chat platform or document store call failed
)

// HuntError represents a structured error with code, status, and details.
type HuntError struct {
	Code    ErrorCode
	Status  int
	Message string
	Details map[string]any
}

// Error implements the error interface.
func (e *HuntError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewValidation creates a 400 error for invalid user input.
func NewValidation(msg string) *HuntError {
	return &HuntError{
		Code:    ErrValidation,
		Status:  400,
		Message: msg,
	}
}

// NewAmbiguousRound creates a 400 error listing every round the prefix matched.
// The candidates are surfaced so the user can disambiguate by typing more
// characters; no closest-match heuristic is applied.
func NewAmbiguousRound(prefix string, candidates []string) *HuntError {
	return &HuntError{
		Code:    ErrAmbiguousRound,
		Status:  400,
		Message: fmt.Sprintf("round %q matches several rounds: %s", prefix, strings.Join(candidates, ", ")),
		Details: map[string]any{"prefix": prefix, "candidates": candidates},
	}
}

// NewRoundNotFound creates a 404 error for an unknown round prefix.
func NewRoundNotFound(prefix string) *HuntError {
	return &HuntError{
		Code:    ErrNotFound,
		Status:  404,
		Message: fmt.Sprintf("no round matches %q; create it first", prefix),
		Details: map[string]any{"prefix": prefix},
	}
}

// NewNotFound creates a 404 error for a missing resource.
func NewNotFound(kind, identifier string) *HuntError {
	return &HuntError{
		Code:    ErrNotFound,
		Status:  404,
		Message: fmt.Sprintf("%s not found: %s", kind, identifier),
		Details: map[string]any{"kind": kind, "identifier": identifier},
	}
}

// NewConflict creates a 409 error for general conflicts.
func NewConflict(msg string) *HuntError {
	return &HuntError{
		Code:    ErrConflict,
		Status:  409,
		Message: msg,
	}
}

// NewCapacity creates a 409 error for a solved category at the channel ceiling.
func NewCapacity(category string, limit int) *HuntError {
	return &HuntError{
		Code:    ErrCapacity,
		Status:  409,
		Message: fmt.Sprintf("category %q is full (%d channels)", category, limit),
		Details: map[string]any{"category": category, "limit": limit},
	}
}

// NewBusy creates a 423 error for a voice room with active occupants.
// Callers treat this as informational: the surrounding operation proceeds
// and the removal is deferred instead of forced.
func NewBusy(room string) *HuntError {
	return &HuntError{
		Code:    ErrBusy,
		Status:  423,
		Message: fmt.Sprintf("voice room %q is in use", room),
		Details: map[string]any{"room": room},
	}
}

// NewExternal creates a 502 error wrapping a failed chat-platform or
// document-store call. Side effects already performed are left in place;
// there is no automatic retry or rollback.
func NewExternal(op string, err error) *HuntError {
	msg := "external call failed"
	if err != nil {
		msg = err.Error()
	}
	return &HuntError{
		Code:    ErrExternal,
		Status:  502,
		Message: fmt.Sprintf("%s: %s", op, msg),
		Details: map[string]any{"op": op},
	}
}

// Is checks if an error is a HuntError with the given code.
func Is(err error, code ErrorCode) bool {
	if hErr, ok := err.(*HuntError); ok {
		return hErr.Code == code
	}
	return false
}
