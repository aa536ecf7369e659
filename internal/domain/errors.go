package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a referenced word does not exist
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists is returned when a word is already in the catalog
	ErrAlreadyExists = errors.New("already exists")

	// ErrInsufficientData is returned when there are not enough words for an operation
	ErrInsufficientData = errors.New("insufficient data")

	// ErrInvalidState is returned when an operation does not fit the current session mode
	ErrInvalidState = errors.New("invalid session state")

	// ErrTranslationNotFound is returned when no translation could be looked up
	ErrTranslationNotFound = errors.New("translation not found")

	// ErrValidation is returned for malformed input
	ErrValidation = errors.New("validation failed")

	// ErrAllLearned is returned when every active word is already learned
	ErrAllLearned = errors.New("all words learned")
)

// InsufficientDataError carries how many words were needed and how many exist
type InsufficientDataError struct {
	Required  int
	Available int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("%s: need %d words, have %d", ErrInsufficientData, e.Required, e.Available)
}

// Is makes errors.Is(err, ErrInsufficientData) match
func (e *InsufficientDataError) Is(target error) bool {
	return target == ErrInsufficientData
}

// NewInsufficientDataError builds an InsufficientDataError
func NewInsufficientDataError(required, available int) error {
	return &InsufficientDataError{Required: required, Available: available}
}
