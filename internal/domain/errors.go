package domain

import (
	"errors"
	"fmt"
)

var (
	ErrOrderNotFound        = errors.New("order not found")
	ErrCustomerNotFound     = errors.New("customer not found")
	ErrSpecialistNotFound   = errors.New("specialist not found")
	ErrWalletNotFound       = errors.New("wallet not found")
	ErrNoSpecialistAssigned = errors.New("no specialist assigned to order")
)

// ValidationError - входные данные нарушают предусловие. В хранилище ничего не пишется.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "validation failed: " + e.Message
	}
	return fmt.Sprintf("validation failed: %s: %s", e.Field, e.Message)
}

// ConflictError - состояние строки уже не то, которое ожидает операция.
// Caller should re-fetch and decide whether to retry.
type ConflictError struct {
	Entity string
	ID     string
	Reason string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("conflict on %s %s: %s", e.Entity, e.ID, e.Reason)
}

// ReconciliationError - commit sequence failed; nothing was persisted.
type ReconciliationError struct {
	OrderID string
	Step    string
	Err     error
}

func (e *ReconciliationError) Error() string {
	return fmt.Sprintf("payment reconciliation for order %s failed at %s: %v", e.OrderID, e.Step, e.Err)
}

func (e *ReconciliationError) Unwrap() error { return e.Err }

// StoreError - хранилище недоступно или отклонило запрос. Считается временной ошибкой.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store: %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

func NewConflict(entity, id, reason string) error {
	return &ConflictError{Entity: entity, ID: id, Reason: reason}
}

func NewValidation(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

func IsConflict(err error) bool {
	var c *ConflictError
	return errors.As(err, &c)
}

func IsReconciliation(err error) bool {
	var r *ReconciliationError
	return errors.As(err, &r)
}

func IsStore(err error) bool {
	var s *StoreError
	return errors.As(err, &s)
}

// IsNotFound reports whether err wraps one of the not-found sentinels.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrOrderNotFound) ||
		errors.Is(err, ErrCustomerNotFound) ||
		errors.Is(err, ErrSpecialistNotFound) ||
		errors.Is(err, ErrWalletNotFound)
}

// ErrorKind is a short label for metrics and API error codes.
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return ""
	case IsValidation(err):
		return "validation"
	case IsNotFound(err):
		return "not_found"
	case IsConflict(err), errors.Is(err, ErrNoSpecialistAssigned):
		return "conflict"
	case IsReconciliation(err):
		return "reconciliation"
	case IsStore(err):
		return "store"
	}
	return "internal"
}
