package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/target/clubdesk/internal/core"
	"github.com/target/clubdesk/internal/data"
	domainauth "github.com/target/clubdesk/internal/domain/auth"
	"github.com/target/clubdesk/internal/domain/model"
	apperrors "github.com/target/clubdesk/internal/errors"
)

// PreregistrationServiceOptions groups dependencies for PreregistrationService.
type PreregistrationServiceOptions struct {
	Repo     core.PreregistrationRepository
	Sessions SessionReader
	Logger   *slog.Logger
}

// PreregistrationService handles player pre-registrations and their admin review.
type PreregistrationService struct {
	repo     core.PreregistrationRepository
	sessions SessionReader
	logger   *slog.Logger
}

// NewPreregistrationService constructs a new PreregistrationService.
func NewPreregistrationService(opts PreregistrationServiceOptions) *PreregistrationService {
	if opts.Repo == nil || opts.Sessions == nil {
		panic("pre-registration service requires a repository and a session store")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &PreregistrationService{
		repo:     opts.Repo,
		sessions: opts.Sessions,
		logger:   logger.With("component", "preregistration_service"),
	}
}

// Submit records a pending pre-registration on behalf of the signed-in user.
func (s *PreregistrationService) Submit(
	ctx context.Context,
	req model.CreatePreregistrationRequest,
) (*model.Preregistration, error) {
	current, err := requireRole(s.sessions, domainauth.RoleViewer)
	if err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error())
	}
	submitter := current.UserID()
	req.SubmittedBy = &submitter

	out, err := s.repo.Create(ctx, &req)
	if err != nil {
		return nil, mapPreregistrationErr(err)
	}
	s.logger.InfoContext(ctx, "pre-registration submitted", "preregistration_id", out.ID)
	return out, nil
}

// ListPending returns pre-registrations awaiting review. Admins only.
func (s *PreregistrationService) ListPending(
	ctx context.Context,
	opts model.PreregistrationListOptions,
) ([]*model.Preregistration, error) {
	if _, err := requireRole(s.sessions, domainauth.RoleAdmin); err != nil {
		return nil, err
	}
	opts.Status = model.PreregistrationPending
	out, err := s.repo.List(ctx, opts)
	if err != nil {
		return nil, apperrors.MapDBError(err)
	}
	return out, nil
}

// Approve accepts a pending pre-registration. Admins only.
func (s *PreregistrationService) Approve(ctx context.Context, id string) (*model.Preregistration, error) {
	return s.review(ctx, id, model.PreregistrationApproved)
}

// Reject declines a pending pre-registration. Admins only.
func (s *PreregistrationService) Reject(ctx context.Context, id string) (*model.Preregistration, error) {
	return s.review(ctx, id, model.PreregistrationRejected)
}

func (s *PreregistrationService) review(
	ctx context.Context,
	id string,
	status model.PreregistrationStatus,
) (*model.Preregistration, error) {
	current, err := requireRole(s.sessions, domainauth.RoleAdmin)
	if err != nil {
		return nil, err
	}
	if err := validateID(id); err != nil {
		return nil, err
	}

	out, err := s.repo.Review(ctx, id, status, current.UserID())
	if err != nil {
		return nil, mapPreregistrationErr(err)
	}
	s.logger.InfoContext(ctx, "pre-registration reviewed",
		"preregistration_id", out.ID,
		"status", string(out.Status),
		"reviewed_by", current.UserID(),
	)
	return out, nil
}

func mapPreregistrationErr(err error) error {
	switch {
	case errors.Is(err, data.ErrPreregistrationNotFound):
		return apperrors.NotFound("pre-registration not found")
	case errors.Is(err, data.ErrPreregistrationReviewed):
		return apperrors.Conflict("pre-registration was already reviewed")
	case errors.Is(err, data.ErrPreregistrationDuplicate):
		return &apperrors.AppError{
			Code:    apperrors.ErrCodeConflict,
			Message: data.ErrPreregistrationDuplicate.Error(),
			Field:   "player_email",
		}
	default:
		return apperrors.MapDBError(err)
	}
}

func validateID(id string) error {
	if _, err := uuid.Parse(strings.TrimSpace(id)); err != nil {
		return apperrors.ValidationField("id", "invalid id")
	}
	return nil
}
