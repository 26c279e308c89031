package data

import "github.com/target/clubdesk/internal/core"

var (
	_ core.TrainingSessionRepository = (*TrainingSessionRepo)(nil)
	_ core.PreregistrationRepository = (*PreregistrationRepo)(nil)
)
