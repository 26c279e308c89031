//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import (
	"errors"
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"
)

const maxPlayerNameLen = 120

// PreregistrationStatus tracks the review state of a player pre-registration.
type PreregistrationStatus string

const (
	PreregistrationPending  PreregistrationStatus = "pending"
	PreregistrationApproved PreregistrationStatus = "approved"
	PreregistrationRejected PreregistrationStatus = "rejected"
)

// Valid reports whether the status is supported.
func (s PreregistrationStatus) Valid() bool {
	switch s {
	case PreregistrationPending, PreregistrationApproved, PreregistrationRejected:
		return true
	default:
		return false
	}
}

// Reviewed reports whether an admin has decided on the pre-registration.
func (s PreregistrationStatus) Reviewed() bool {
	return s == PreregistrationApproved || s == PreregistrationRejected
}

// Preregistration is a player's request to join the club, awaiting admin approval.
type Preregistration struct {
	ID          string                `json:"id"                    db:"id"`
	PlayerName  string                `json:"player_name"           db:"player_name"`
	PlayerEmail string                `json:"player_email"          db:"player_email"`
	BirthDate   *time.Time            `json:"birth_date,omitempty"  db:"birth_date"`
	Position    *string               `json:"position,omitempty"    db:"position"`
	Status      PreregistrationStatus `json:"status"                db:"status"`
	SubmittedBy *string               `json:"submitted_by,omitempty" db:"submitted_by"`
	ReviewedBy  *string               `json:"reviewed_by,omitempty" db:"reviewed_by"`
	ReviewedAt  *time.Time            `json:"reviewed_at,omitempty" db:"reviewed_at"`
	CreatedAt   time.Time             `json:"created_at"            db:"created_at"`
}

// CreatePreregistrationRequest represents parameters to submit a Preregistration.
type CreatePreregistrationRequest struct {
	PlayerName  string     `json:"player_name"`
	PlayerEmail string     `json:"player_email"`
	BirthDate   *time.Time `json:"birth_date,omitempty"`
	Position    *string    `json:"position,omitempty"`
	SubmittedBy *string    `json:"-"`
}

// Validate trims inputs and checks required fields.
func (r *CreatePreregistrationRequest) Validate() error {
	r.PlayerName = strings.TrimSpace(r.PlayerName)
	r.PlayerEmail = strings.ToLower(strings.TrimSpace(r.PlayerEmail))
	if r.PlayerName == "" {
		return errors.New("player_name is required")
	}
	if utf8.RuneCountInString(r.PlayerName) > maxPlayerNameLen {
		return errors.New("player_name cannot exceed 120 characters")
	}
	if r.PlayerEmail == "" {
		return errors.New("player_email is required")
	}
	if addr, err := mail.ParseAddress(r.PlayerEmail); err != nil || addr.Address != r.PlayerEmail {
		return errors.New("player_email must be a valid email address")
	}
	if r.BirthDate != nil && r.BirthDate.After(time.Now()) {
		return errors.New("birth_date cannot be in the future")
	}
	if r.Position != nil {
		p := strings.TrimSpace(*r.Position)
		if p == "" {
			r.Position = nil
		} else {
			r.Position = &p
		}
	}
	return nil
}

// PreregistrationListOptions controls listing. An empty Status lists every pre-registration.
type PreregistrationListOptions struct {
	Status PreregistrationStatus
	Limit  int
	Offset int
}
