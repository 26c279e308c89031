package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/target/clubdesk/internal/data/database"
	"github.com/target/clubdesk/internal/data/pgxutil"
	"github.com/target/clubdesk/internal/domain/model"
)

// PreregistrationRepo provides database operations for player pre-registrations.
type PreregistrationRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewPreregistrationRepo creates a new PreregistrationRepo with real time provider.
func NewPreregistrationRepo(db *sql.DB) *PreregistrationRepo {
	return &PreregistrationRepo{DB: db, timeProvider: RealTimeProvider{}}
}

// NewPreregistrationRepoWithTimeProvider creates a repo with a custom time provider (useful for tests).
func NewPreregistrationRepoWithTimeProvider(db *sql.DB, tp TimeProvider) *PreregistrationRepo {
	return &PreregistrationRepo{DB: db, timeProvider: tp}
}

const (
	preregistrationReturning = `RETURNING id, player_name, player_email, birth_date, position, status,
		submitted_by, reviewed_by, reviewed_at, created_at`

	preregistrationGetByIDQuery = `
		SELECT id, player_name, player_email, birth_date, position, status,
		       submitted_by, reviewed_by, reviewed_at, created_at
		FROM player_preregistrations
		WHERE id = $1`
)

// Create inserts a pending pre-registration. A second pending entry for the same
// email returns ErrPreregistrationDuplicate.
func (r *PreregistrationRepo) Create(
	ctx context.Context,
	req *model.CreatePreregistrationRequest,
) (*model.Preregistration, error) {
	if req == nil {
		return nil, errors.New("create pre-registration request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var out model.Preregistration
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			INSERT INTO player_preregistrations (player_name, player_email, birth_date, position, status, submitted_by, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			`+preregistrationReturning,
			req.PlayerName,
			req.PlayerEmail,
			req.BirthDate,
			req.Position,
			model.PreregistrationPending,
			req.SubmittedBy,
			r.timeProvider.Now().UTC(),
		)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Preregistration])
		return err
	}); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return nil, ErrPreregistrationDuplicate
		}
		return nil, fmt.Errorf("failed to create pre-registration: %w", err)
	}
	return &out, nil
}

// GetByID retrieves a pre-registration by ID.
func (r *PreregistrationRepo) GetByID(ctx context.Context, id string) (*model.Preregistration, error) {
	var out model.Preregistration
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, preregistrationGetByIDQuery, id)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Preregistration])
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPreregistrationNotFound
		}
		return nil, fmt.Errorf("failed to get pre-registration: %w", err)
	}
	return &out, nil
}

// List returns pre-registrations oldest first, optionally filtered by status.
func (r *PreregistrationRepo) List(
	ctx context.Context,
	opts model.PreregistrationListOptions,
) ([]*model.Preregistration, error) {
	queryOpts := []database.ListQueryOption{
		database.WithColumns(preregistrationColumns()...),
		database.WithOrderBy("created_at", "ASC"),
		database.WithOrderBy("id", "ASC"),
		database.WithLimit(clampLimit(opts.Limit)),
		database.WithOffset(max(opts.Offset, 0)),
	}
	if opts.Status != "" {
		queryOpts = append(queryOpts, database.WithCondition(
			database.WhereCond("status", database.Equal, string(opts.Status)),
		))
	}
	query, args := database.BuildListQuery(database.NewListQueryOptions("player_preregistrations", queryOpts...))

	var rowsOut []model.Preregistration
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		rowsOut, err = pgx.CollectRows(rows, pgx.RowToStructByName[model.Preregistration])
		return err
	}); err != nil {
		return nil, fmt.Errorf("failed to list pre-registrations: %w", err)
	}

	res := make([]*model.Preregistration, len(rowsOut))
	for i := range rowsOut {
		res[i] = &rowsOut[i]
	}
	return res, nil
}

// Review moves a pending pre-registration to status and records the reviewer.
// It returns ErrPreregistrationNotFound for an unknown id and ErrPreregistrationReviewed
// when the entry has already been decided.
func (r *PreregistrationRepo) Review(
	ctx context.Context,
	id string,
	status model.PreregistrationStatus,
	reviewerID string,
) (*model.Preregistration, error) {
	if !status.Reviewed() {
		return nil, fmt.Errorf("invalid review status %q", status)
	}
	if reviewerID == "" {
		return nil, errors.New("reviewer is required")
	}

	var out model.Preregistration
	err := pgxutil.WithPgxTx(ctx, r.DB, pgx.TxOptions{}, func(tx pgx.Tx) error {
		var current model.PreregistrationStatus
		if err := tx.QueryRow(ctx,
			`SELECT status FROM player_preregistrations WHERE id = $1 FOR UPDATE`, id,
		).Scan(&current); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrPreregistrationNotFound
			}
			return err
		}
		if current != model.PreregistrationPending {
			return ErrPreregistrationReviewed
		}

		rows, err := tx.Query(ctx, `
			UPDATE player_preregistrations
			SET status = $2, reviewed_by = $3, reviewed_at = $4
			WHERE id = $1
			`+preregistrationReturning,
			id, status, reviewerID, r.timeProvider.Now().UTC(),
		)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Preregistration])
		return err
	})
	if err != nil {
		if errors.Is(err, ErrPreregistrationNotFound) || errors.Is(err, ErrPreregistrationReviewed) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to review pre-registration: %w", err)
	}
	return &out, nil
}

func preregistrationColumns() []string {
	return []string{
		"id",
		"player_name",
		"player_email",
		"birth_date",
		"position",
		"status",
		"submitted_by",
		"reviewed_by",
		"reviewed_at",
		"created_at",
	}
}
