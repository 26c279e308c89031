//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	maxTrainingTitleLen   = 120
	maxTrainingNotesLen   = 2000
	maxTrainingDurationMn = 8 * 60
)

// TrainingSession is one scheduled practice.
type TrainingSession struct {
	ID              string    `json:"id"               db:"id"`
	Title           string    `json:"title"            db:"title"`
	Location        string    `json:"location"         db:"location"`
	StartsAt        time.Time `json:"starts_at"        db:"starts_at"`
	DurationMinutes int       `json:"duration_minutes" db:"duration_minutes"`
	Notes           *string   `json:"notes,omitempty"  db:"notes"`
	CreatedBy       string    `json:"created_by"       db:"created_by"`
	CreatedAt       time.Time `json:"created_at"       db:"created_at"`
}

// EndsAt returns the scheduled end of the session.
func (s TrainingSession) EndsAt() time.Time {
	return s.StartsAt.Add(time.Duration(s.DurationMinutes) * time.Minute)
}

// CreateTrainingSessionRequest represents parameters to create a TrainingSession.
// CreatedBy is filled from the signed-in identity, never from user input.
type CreateTrainingSessionRequest struct {
	Title           string    `json:"title"`
	Location        string    `json:"location"`
	StartsAt        time.Time `json:"starts_at"`
	DurationMinutes int       `json:"duration_minutes"`
	Notes           *string   `json:"notes,omitempty"`
	CreatedBy       string    `json:"-"`
}

// Validate trims inputs and checks required fields.
func (r *CreateTrainingSessionRequest) Validate() error {
	r.Title = strings.TrimSpace(r.Title)
	r.Location = strings.TrimSpace(r.Location)
	if r.Title == "" {
		return errors.New("title is required")
	}
	if utf8.RuneCountInString(r.Title) > maxTrainingTitleLen {
		return errors.New("title cannot exceed 120 characters")
	}
	if r.Location == "" {
		return errors.New("location is required")
	}
	if r.StartsAt.IsZero() {
		return errors.New("starts_at is required")
	}
	if r.DurationMinutes <= 0 || r.DurationMinutes > maxTrainingDurationMn {
		return errors.New("duration_minutes must be between 1 and 480")
	}
	if r.Notes != nil {
		n := strings.TrimSpace(*r.Notes)
		if n == "" {
			r.Notes = nil
		} else if utf8.RuneCountInString(n) > maxTrainingNotesLen {
			return errors.New("notes cannot exceed 2000 characters")
		} else {
			r.Notes = &n
		}
	}
	if strings.TrimSpace(r.CreatedBy) == "" {
		return errors.New("created_by is required")
	}
	return nil
}

// TrainingSessionListOptions controls listing. From limits results to sessions starting at or after it.
type TrainingSessionListOptions struct {
	From   *time.Time
	Limit  int
	Offset int
}
