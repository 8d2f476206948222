package domain

import "errors"

// Common domain errors
var (
	ErrNotFound           = errors.New("resource not found")
	ErrInvalidInput       = errors.New("invalid input")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrInternalServer     = errors.New("internal server error")
	ErrDuplicateEntry     = errors.New("duplicate entry")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("token invalid")
)

// Profile errors
var (
	ErrProfileNotFound   = errors.New("profile not found")
	ErrEmailAlreadyUsed  = errors.New("email already registered")
	ErrInvalidMemberType = errors.New("invalid member type")
	ErrInvalidStatus     = errors.New("invalid profile status")
)

// Cotisation errors
var (
	ErrCotisationNotFound      = errors.New("cotisation not found")
	ErrInvalidCotisationStatus = errors.New("invalid cotisation status")
	ErrInvalidYear             = errors.New("invalid cotisation year")
)

// Logo upload errors
var (
	ErrLogoTooLarge        = errors.New("logo exceeds maximum size of 5MB")
	ErrLogoUnsupportedType = errors.New("logo must be a jpeg, png, webp or gif image")
)
