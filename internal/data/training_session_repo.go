package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/target/clubdesk/internal/data/database"
	"github.com/target/clubdesk/internal/data/pgxutil"
	"github.com/target/clubdesk/internal/domain/model"
)

const (
	defaultListLimit = 50
	maxListLimit     = 200
)

// TrainingSessionRepo provides database operations for training sessions.
type TrainingSessionRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewTrainingSessionRepo creates a new TrainingSessionRepo with real time provider.
func NewTrainingSessionRepo(db *sql.DB) *TrainingSessionRepo {
	return &TrainingSessionRepo{DB: db, timeProvider: RealTimeProvider{}}
}

// NewTrainingSessionRepoWithTimeProvider creates a repo with a custom time provider (useful for tests).
func NewTrainingSessionRepoWithTimeProvider(db *sql.DB, tp TimeProvider) *TrainingSessionRepo {
	return &TrainingSessionRepo{DB: db, timeProvider: tp}
}

const trainingSessionGetByIDQuery = `
	SELECT id, title, location, starts_at, duration_minutes, notes, created_by, created_at
	FROM training_sessions
	WHERE id = $1`

// Create inserts a new training session.
func (r *TrainingSessionRepo) Create(
	ctx context.Context,
	req *model.CreateTrainingSessionRequest,
) (*model.TrainingSession, error) {
	if req == nil {
		return nil, errors.New("create training session request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var out model.TrainingSession
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			INSERT INTO training_sessions (title, location, starts_at, duration_minutes, notes, created_by, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING id, title, location, starts_at, duration_minutes, notes, created_by, created_at`,
			req.Title,
			req.Location,
			req.StartsAt.UTC(),
			req.DurationMinutes,
			req.Notes,
			req.CreatedBy,
			r.timeProvider.Now().UTC(),
		)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.TrainingSession])
		return err
	}); err != nil {
		return nil, fmt.Errorf("failed to create training session: %w", err)
	}
	return &out, nil
}

// GetByID retrieves a training session by ID.
func (r *TrainingSessionRepo) GetByID(ctx context.Context, id string) (*model.TrainingSession, error) {
	var out model.TrainingSession
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, trainingSessionGetByIDQuery, id)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.TrainingSession])
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTrainingSessionNotFound
		}
		return nil, fmt.Errorf("failed to get training session: %w", err)
	}
	return &out, nil
}

// List returns sessions ordered by start time, soonest first.
func (r *TrainingSessionRepo) List(
	ctx context.Context,
	opts model.TrainingSessionListOptions,
) ([]*model.TrainingSession, error) {
	queryOpts := []database.ListQueryOption{
		database.WithColumns(trainingSessionColumns()...),
		database.WithOrderBy("starts_at", "ASC"),
		database.WithOrderBy("id", "ASC"),
		database.WithLimit(clampLimit(opts.Limit)),
		database.WithOffset(max(opts.Offset, 0)),
	}
	if opts.From != nil {
		queryOpts = append(queryOpts, database.WithCondition(
			database.WhereCond("starts_at", database.GreaterThanOrEqual, opts.From.UTC()),
		))
	}
	query, args := database.BuildListQuery(database.NewListQueryOptions("training_sessions", queryOpts...))

	var rowsOut []model.TrainingSession
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		rowsOut, err = pgx.CollectRows(rows, pgx.RowToStructByName[model.TrainingSession])
		return err
	}); err != nil {
		return nil, fmt.Errorf("failed to list training sessions: %w", err)
	}

	res := make([]*model.TrainingSession, len(rowsOut))
	for i := range rowsOut {
		res[i] = &rowsOut[i]
	}
	return res, nil
}

func trainingSessionColumns() []string {
	return []string{
		"id",
		"title",
		"location",
		"starts_at",
		"duration_minutes",
		"notes",
		"created_by",
		"created_at",
	}
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return defaultListLimit
	}
	return min(limit, maxListLimit)
}
