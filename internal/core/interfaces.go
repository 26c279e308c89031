// Package core holds the repository contracts the service layer depends on.
package core

import (
	"context"

	"github.com/target/clubdesk/internal/domain/model"
)

// This file contains repository interface definitions (ports in hexagonal architecture).
// Service implementations depend on these interfaces, not on internal/data.

// TrainingSessionRepository defines the interface for training session data operations.
type TrainingSessionRepository interface {
	Create(ctx context.Context, req *model.CreateTrainingSessionRequest) (*model.TrainingSession, error)
	GetByID(ctx context.Context, id string) (*model.TrainingSession, error)
	List(ctx context.Context, opts model.TrainingSessionListOptions) ([]*model.TrainingSession, error)
}

// PreregistrationRepository defines the interface for player pre-registration data operations.
type PreregistrationRepository interface {
	Create(ctx context.Context, req *model.CreatePreregistrationRequest) (*model.Preregistration, error)
	GetByID(ctx context.Context, id string) (*model.Preregistration, error)
	List(ctx context.Context, opts model.PreregistrationListOptions) ([]*model.Preregistration, error)
	Review(
		ctx context.Context,
		id string,
		status model.PreregistrationStatus,
		reviewerID string,
	) (*model.Preregistration, error)
}
