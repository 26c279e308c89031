package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/target/clubdesk/internal/data/pgxutil"
	domainauth "github.com/target/clubdesk/internal/domain/auth"
	"github.com/target/clubdesk/internal/ports"
)

// ProfileRepo reads the profiles table. Profiles are provisioned outside this application.
type ProfileRepo struct {
	DB *sql.DB
}

var _ ports.ProfileReader = (*ProfileRepo)(nil)

// NewProfileRepo creates a new ProfileRepo.
func NewProfileRepo(db *sql.DB) *ProfileRepo {
	return &ProfileRepo{DB: db}
}

// profileRow mirrors the table; role is text in the database.
type profileRow struct {
	ID        string    `db:"id"`
	Email     string    `db:"email"`
	FullName  string    `db:"full_name"`
	Role      string    `db:"role"`
	CreatedAt time.Time `db:"created_at"`
}

// GetProfile returns the profile keyed by the identity id, or ErrProfileNotFound.
// An unrecognized role value resolves to RoleViewer.
func (r *ProfileRepo) GetProfile(ctx context.Context, userID string) (domainauth.Profile, error) {
	if userID == "" {
		return domainauth.Profile{}, ErrProfileNotFound
	}

	var row profileRow
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx,
			`SELECT id, email, full_name, role, created_at FROM profiles WHERE id = $1`, userID)
		if err != nil {
			return err
		}
		row, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[profileRow])
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domainauth.Profile{}, ErrProfileNotFound
		}
		return domainauth.Profile{}, fmt.Errorf("get profile: %w", err)
	}

	role, _ := domainauth.ParseRole(row.Role)
	return domainauth.Profile{
		ID:        row.ID,
		Email:     row.Email,
		FullName:  row.FullName,
		Role:      role,
		CreatedAt: row.CreatedAt,
	}, nil
}
