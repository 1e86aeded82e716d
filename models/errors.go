package models

import (
	"errors"
	"fmt"
)

// Error kinds. Handlers map these to HTTP status codes with errors.Is.
var (
	ErrValidation   = errors.New("validation error")
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("unauthorized")
	ErrConflict     = errors.New("conflict")
)

var (
	ErrMissingFields      = fmt.Errorf("%w: name, category, brand, price, description and tags are required", ErrValidation)
	ErrInvalidBrand       = fmt.Errorf("%w: invalid brand", ErrValidation)
	ErrInvalidCategory    = fmt.Errorf("%w: invalid category", ErrValidation)
	ErrMissingCredentials = fmt.Errorf("%w: email and password are required", ErrValidation)
	ErrProductNotFound    = fmt.Errorf("product %w", ErrNotFound)
	ErrEmailTaken         = fmt.Errorf("%w: email already registered", ErrConflict)

	// ErrInvalidCredentials covers both an unknown email and a wrong password.
	ErrInvalidCredentials = errors.New("invalid email or password")
)
