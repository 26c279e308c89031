package data

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	domainauth "github.com/target/clubdesk/internal/domain/auth"
	"github.com/target/clubdesk/internal/testutil"
)

func TestProfileRepo_GetProfile(t *testing.T) {
	testutil.WithTestDB(t, func(db *sql.DB) {
		ctx := context.Background()
		repo := NewProfileRepo(db)

		testutil.InsertProfile(t, db, "u-admin", "admin@example.com", "admin")
		testutil.InsertProfile(t, db, "u-coach", "coach@example.com", "coach")

		p, err := repo.GetProfile(ctx, "u-admin")
		require.NoError(t, err)
		assert.Equal(t, domainauth.RoleAdmin, p.Role)
		assert.Equal(t, "admin@example.com", p.Email)
		assert.NotZero(t, p.CreatedAt)

		p, err = repo.GetProfile(ctx, "u-coach")
		require.NoError(t, err)
		assert.Equal(t, domainauth.RoleCoach, p.Role)

		_, err = repo.GetProfile(ctx, "u-missing")
		require.ErrorIs(t, err, ErrProfileNotFound)

		_, err = repo.GetProfile(ctx, "")
		require.ErrorIs(t, err, ErrProfileNotFound)
	})
}
