package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/target/clubdesk/internal/data"
	domainauth "github.com/target/clubdesk/internal/domain/auth"
	"github.com/target/clubdesk/internal/domain/model"
	apperrors "github.com/target/clubdesk/internal/errors"
	"github.com/target/clubdesk/internal/mocks"
	"go.uber.org/mock/gomock"
)

func validTrainingRequest() model.CreateTrainingSessionRequest {
	return model.CreateTrainingSessionRequest{
		Title:           "Passing",
		Location:        "Pitch 1",
		StartsAt:        time.Date(2026, 11, 2, 18, 0, 0, 0, time.UTC),
		DurationMinutes: 60,
	}
}

func TestTrainingService_CreateRequiresCoach(t *testing.T) {
	tests := []struct {
		name    string
		role    domainauth.Role
		userID  string
		wantErr func(error) bool
	}{
		{"signed out", domainauth.RoleViewer, "", apperrors.IsUnauthorized},
		{"viewer", domainauth.RoleViewer, "u-viewer", apperrors.IsForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			repo := mocks.NewMockTrainingSessionRepository(ctrl)
			svc := NewTrainingService(TrainingServiceOptions{Repo: repo, Sessions: storeWithRole(tt.role, tt.userID)})

			_, err := svc.Create(context.Background(), validTrainingRequest())
			require.Error(t, err)
			assert.True(t, tt.wantErr(err), "unexpected error %v", err)
		})
	}
}

func TestTrainingService_CreateUsesSessionUser(t *testing.T) {
	for _, role := range []domainauth.Role{domainauth.RoleCoach, domainauth.RoleAdmin} {
		t.Run(role.String(), func(t *testing.T) {
			ctrl := gomock.NewController(t)
			repo := mocks.NewMockTrainingSessionRepository(ctrl)
			svc := NewTrainingService(TrainingServiceOptions{Repo: repo, Sessions: storeWithRole(role, "u-staff")})

			req := validTrainingRequest()
			req.CreatedBy = "someone-else"

			repo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
				func(_ context.Context, got *model.CreateTrainingSessionRequest) (*model.TrainingSession, error) {
					assert.Equal(t, "u-staff", got.CreatedBy)
					return &model.TrainingSession{ID: uuid.NewString(), Title: got.Title, CreatedBy: got.CreatedBy}, nil
				},
			)

			out, err := svc.Create(context.Background(), req)
			require.NoError(t, err)
			assert.Equal(t, "u-staff", out.CreatedBy)
		})
	}
}

func TestTrainingService_CreateValidatesBeforeRepo(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockTrainingSessionRepository(ctrl)
	svc := NewTrainingService(TrainingServiceOptions{Repo: repo, Sessions: storeWithRole(domainauth.RoleCoach, "u1")})

	req := validTrainingRequest()
	req.Title = " "
	_, err := svc.Create(context.Background(), req)
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
}

func TestTrainingService_List(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockTrainingSessionRepository(ctrl)
	svc := NewTrainingService(TrainingServiceOptions{Repo: repo, Sessions: storeWithRole(domainauth.RoleViewer, "u1")})

	opts := model.TrainingSessionListOptions{Limit: 10}
	repo.EXPECT().List(gomock.Any(), opts).Return([]*model.TrainingSession{{ID: "a"}}, nil)

	out, err := svc.List(context.Background(), opts)
	require.NoError(t, err)
	assert.Len(t, out, 1)

	signedOut := NewTrainingService(TrainingServiceOptions{Repo: repo, Sessions: storeWithRole(domainauth.RoleViewer, "")})
	_, err = signedOut.List(context.Background(), opts)
	assert.True(t, apperrors.IsUnauthorized(err))
}

func TestTrainingService_Get(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockTrainingSessionRepository(ctrl)
	svc := NewTrainingService(TrainingServiceOptions{Repo: repo, Sessions: storeWithRole(domainauth.RoleViewer, "u1")})
	ctx := context.Background()

	_, err := svc.Get(ctx, "not-a-uuid")
	assert.True(t, apperrors.IsValidation(err))

	id := uuid.NewString()
	repo.EXPECT().GetByID(gomock.Any(), id).Return(nil, data.ErrTrainingSessionNotFound)
	_, err = svc.Get(ctx, id)
	assert.True(t, apperrors.IsNotFound(err))
}
