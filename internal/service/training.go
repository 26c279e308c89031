package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/target/clubdesk/internal/core"
	"github.com/target/clubdesk/internal/data"
	domainauth "github.com/target/clubdesk/internal/domain/auth"
	"github.com/target/clubdesk/internal/domain/model"
	apperrors "github.com/target/clubdesk/internal/errors"
)

// TrainingServiceOptions groups dependencies for TrainingService.
type TrainingServiceOptions struct {
	Repo     core.TrainingSessionRepository
	Sessions SessionReader
	Logger   *slog.Logger
}

// TrainingService lists and schedules training sessions.
type TrainingService struct {
	repo     core.TrainingSessionRepository
	sessions SessionReader
	logger   *slog.Logger
}

// NewTrainingService constructs a new TrainingService.
func NewTrainingService(opts TrainingServiceOptions) *TrainingService {
	if opts.Repo == nil || opts.Sessions == nil {
		panic("training service requires a repository and a session store")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &TrainingService{
		repo:     opts.Repo,
		sessions: opts.Sessions,
		logger:   logger.With("component", "training_service"),
	}
}

// List returns sessions for any signed-in user.
func (s *TrainingService) List(
	ctx context.Context,
	opts model.TrainingSessionListOptions,
) ([]*model.TrainingSession, error) {
	if _, err := requireRole(s.sessions, domainauth.RoleViewer); err != nil {
		return nil, err
	}
	out, err := s.repo.List(ctx, opts)
	if err != nil {
		return nil, apperrors.MapDBError(err)
	}
	return out, nil
}

// Get returns one session.
func (s *TrainingService) Get(ctx context.Context, id string) (*model.TrainingSession, error) {
	if _, err := requireRole(s.sessions, domainauth.RoleViewer); err != nil {
		return nil, err
	}
	if err := validateID(id); err != nil {
		return nil, err
	}
	out, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, data.ErrTrainingSessionNotFound) {
			return nil, apperrors.NotFound("training session not found")
		}
		return nil, apperrors.MapDBError(err)
	}
	return out, nil
}

// Create schedules a session. Coaches and admins only; the creator is the signed-in user.
func (s *TrainingService) Create(
	ctx context.Context,
	req model.CreateTrainingSessionRequest,
) (*model.TrainingSession, error) {
	current, err := requireRole(s.sessions, domainauth.RoleCoach)
	if err != nil {
		return nil, err
	}

	req.CreatedBy = current.UserID()
	if err := req.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error())
	}

	out, err := s.repo.Create(ctx, &req)
	if err != nil {
		return nil, apperrors.MapDBError(err)
	}
	s.logger.InfoContext(ctx, "training session created",
		"training_session_id", out.ID,
		"created_by", out.CreatedBy,
	)
	return out, nil
}
