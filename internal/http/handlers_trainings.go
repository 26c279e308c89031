package httpx

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/target/clubdesk/internal/domain/model"
	apperrors "github.com/target/clubdesk/internal/errors"
)

const (
	dateLayout     = "2006-01-02"
	dateTimeLayout = "2006-01-02T15:04"
)

// TrainingService is the subset of service.TrainingService the handlers use.
type TrainingService interface {
	List(ctx context.Context, opts model.TrainingSessionListOptions) ([]*model.TrainingSession, error)
	Create(ctx context.Context, req model.CreateTrainingSessionRequest) (*model.TrainingSession, error)
}

// TrainingHandlers serves the training list and scheduling screens and their JSON twins.
type TrainingHandlers struct {
	Svc      TrainingService
	Sessions SessionReader
	Renderer *TemplateRenderer
	Logger   *slog.Logger
	// Now is overridable in tests.
	Now func() time.Time
}

func (h *TrainingHandlers) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

// List handles GET /trainings. Sessions starting from ?from=YYYY-MM-DD are
// shown, defaulting to today.
func (h *TrainingHandlers) List(w http.ResponseWriter, r *http.Request) {
	from := startOfDay(h.now())
	if v := r.URL.Query().Get("from"); v != "" {
		if parsed, err := time.ParseInLocation(dateLayout, v, time.Local); err == nil {
			from = parsed
		}
	}

	data := PageData{Title: "Trainings", From: from.Format(dateLayout)}
	items, err := h.Svc.List(r.Context(), model.TrainingSessionListOptions{From: &from})
	status := http.StatusOK
	if err != nil {
		status, data.Error = classify(err, false)
		h.logFailure(r, "list trainings", err)
	}
	data.Trainings = items
	renderPage(h.Renderer, h.Sessions, pageRequest{W: w, R: r, Status: status, Page: "trainings"}, data)
}

// ShowNew handles GET /trainings/new.
func (h *TrainingHandlers) ShowNew(w http.ResponseWriter, r *http.Request) {
	renderPage(h.Renderer, h.Sessions, pageRequest{W: w, R: r, Status: http.StatusOK, Page: "training_new"},
		PageData{Title: "Schedule training"})
}

// Create handles POST /trainings/new.
func (h *TrainingHandlers) Create(w http.ResponseWriter, r *http.Request) {
	if !parseForm(w, r) {
		return
	}
	data := PageData{Title: "Schedule training", Form: r.PostForm}

	req, err := trainingFromForm(r)
	if err == nil {
		_, err = h.Svc.Create(r.Context(), req)
	}
	if err != nil {
		h.logFailure(r, "create training", err)
		status, msg := classify(err, false)
		data.Error = msg
		data.ErrorField = apperrors.GetField(err)
		renderPage(h.Renderer, h.Sessions, pageRequest{W: w, R: r, Status: status, Page: "training_new"}, data)
		return
	}
	http.Redirect(w, r, "/trainings?notice=training-created", http.StatusSeeOther)
}

// ListJSON handles GET /api/trainings.
func (h *TrainingHandlers) ListJSON(w http.ResponseWriter, r *http.Request) {
	opts := model.TrainingSessionListOptions{
		Limit:  queryInt(r, "limit"),
		Offset: queryInt(r, "offset"),
	}
	if v := r.URL.Query().Get("from"); v != "" {
		from, err := time.Parse(time.RFC3339, v)
		if err != nil {
			WriteServiceError(w, apperrors.ValidationField("from", "from must be an RFC 3339 timestamp"))
			return
		}
		opts.From = &from
	}

	items, err := h.Svc.List(r.Context(), opts)
	if err != nil {
		h.logFailure(r, "list trainings", err)
		WriteServiceError(w, err)
		return
	}
	if items == nil {
		items = []*model.TrainingSession{}
	}
	WriteJSON(w, http.StatusOK, items)
}

// CreateJSON handles POST /api/trainings.
func (h *TrainingHandlers) CreateJSON(w http.ResponseWriter, r *http.Request) {
	var req model.CreateTrainingSessionRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	out, err := h.Svc.Create(r.Context(), req)
	if err != nil {
		h.logFailure(r, "create training", err)
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, out)
}

func (h *TrainingHandlers) logFailure(r *http.Request, op string, err error) {
	logger := h.Logger
	if logger == nil {
		logger = slog.Default()
	}
	level := slog.LevelInfo
	if code, _ := classify(err, false); code >= http.StatusInternalServerError {
		level = slog.LevelError
	}
	logger.Log(r.Context(), level, op+" failed", "error", err)
}

func trainingFromForm(r *http.Request) (model.CreateTrainingSessionRequest, error) {
	req := model.CreateTrainingSessionRequest{
		Title:    r.PostFormValue("title"),
		Location: r.PostFormValue("location"),
	}
	if v := strings.TrimSpace(r.PostFormValue("starts_at")); v != "" {
		startsAt, err := time.ParseInLocation(dateTimeLayout, v, time.Local)
		if err != nil {
			return req, apperrors.ValidationField("starts_at", "starts_at must be a date and time")
		}
		req.StartsAt = startsAt
	}
	if v := strings.TrimSpace(r.PostFormValue("duration_minutes")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return req, apperrors.ValidationField("duration_minutes", "duration_minutes must be a whole number")
		}
		req.DurationMinutes = n
	}
	if notes := r.PostFormValue("notes"); notes != "" {
		req.Notes = &notes
	}
	return req, nil
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// queryInt returns a non-negative integer query parameter, or zero.
func queryInt(r *http.Request, key string) int {
	n, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil || n < 0 {
		return 0
	}
	return n
}
