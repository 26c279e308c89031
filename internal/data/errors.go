package data

import "errors"

// Shared sentinel errors for data-layer repositories.
var (
	ErrProfileNotFound = errors.New("profile not found")

	ErrTrainingSessionNotFound = errors.New("training session not found")

	ErrPreregistrationNotFound  = errors.New("pre-registration not found")
	ErrPreregistrationReviewed  = errors.New("pre-registration was already reviewed")
	ErrPreregistrationDuplicate = errors.New("a pending pre-registration already exists for this email")
)
