package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrStoreUnavailable means the store could not be reached or answered too late.
	// The operation may be retried; it never means "no conflicts".
	ErrStoreUnavailable = errors.New("store unavailable")
	ErrConflict         = errors.New("items already reserved for this period")
	ErrValidation       = errors.New("invalid input")
	ErrNotFound         = errors.New("not found")
	ErrDuplicate        = errors.New("already exists")
)

type BusyItem struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type ConflictError struct {
	Items []BusyItem
}

func (e *ConflictError) Error() string {
	if len(e.Items) == 0 {
		return ErrConflict.Error()
	}

	names := make([]string, 0, len(e.Items))
	for _, item := range e.Items {
		names = append(names, item.Name)
	}

	return fmt.Sprintf("%s: %s", ErrConflict.Error(), strings.Join(names, ", "))
}

func (e *ConflictError) Is(target error) bool {
	return target == ErrConflict
}

type ValidationError struct {
	Fields map[string]string
}

func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: reason}}
}

func (e *ValidationError) Add(field, reason string) {
	if e.Fields == nil {
		e.Fields = make(map[string]string)
	}
	e.Fields[field] = reason
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+" "+e.Fields[k])
	}

	return fmt.Sprintf("%s: %s", ErrValidation.Error(), strings.Join(parts, "; "))
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}
