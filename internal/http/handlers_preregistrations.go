package httpx

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/target/clubdesk/internal/domain/model"
	apperrors "github.com/target/clubdesk/internal/errors"
)

// PreregistrationService is the subset of service.PreregistrationService the handlers use.
type PreregistrationService interface {
	Submit(ctx context.Context, req model.CreatePreregistrationRequest) (*model.Preregistration, error)
	ListPending(ctx context.Context, opts model.PreregistrationListOptions) ([]*model.Preregistration, error)
	Approve(ctx context.Context, id string) (*model.Preregistration, error)
	Reject(ctx context.Context, id string) (*model.Preregistration, error)
}

// PreregistrationHandlers serves the submission form and the admin review queue.
type PreregistrationHandlers struct {
	Svc      PreregistrationService
	Sessions SessionReader
	Renderer *TemplateRenderer
	Logger   *slog.Logger
}

func (h *PreregistrationHandlers) logger() *slog.Logger {
	if h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

// ListPending handles GET /preregistrations.
func (h *PreregistrationHandlers) ListPending(w http.ResponseWriter, r *http.Request) {
	h.renderQueue(w, r, http.StatusOK, "")
}

func (h *PreregistrationHandlers) renderQueue(w http.ResponseWriter, r *http.Request, status int, errMsg string) {
	data := PageData{Title: "Pre-registrations", Error: errMsg}
	items, err := h.Svc.ListPending(r.Context(), model.PreregistrationListOptions{})
	if err != nil {
		h.logger().ErrorContext(r.Context(), "list pre-registrations failed", "error", err)
		status, data.Error = classify(err, false)
	}
	data.Preregistrations = items
	renderPage(h.Renderer, h.Sessions, pageRequest{W: w, R: r, Status: status, Page: "preregistrations"}, data)
}

// Approve handles POST /preregistrations/{id}/approve.
func (h *PreregistrationHandlers) Approve(w http.ResponseWriter, r *http.Request) {
	h.review(w, r, h.Svc.Approve, "preregistration-approved")
}

// Reject handles POST /preregistrations/{id}/reject.
func (h *PreregistrationHandlers) Reject(w http.ResponseWriter, r *http.Request) {
	h.review(w, r, h.Svc.Reject, "preregistration-rejected")
}

type reviewFunc func(ctx context.Context, id string) (*model.Preregistration, error)

func (h *PreregistrationHandlers) review(w http.ResponseWriter, r *http.Request, fn reviewFunc, notice string) {
	if _, err := fn(r.Context(), r.PathValue("id")); err != nil {
		h.logger().InfoContext(r.Context(), "pre-registration review failed",
			"preregistration_id", r.PathValue("id"),
			"error", err,
		)
		status, msg := classify(err, false)
		h.renderQueue(w, r, status, msg)
		return
	}
	http.Redirect(w, r, "/preregistrations?notice="+notice, http.StatusSeeOther)
}

// ShowSubmit handles GET /preregistrations/new.
func (h *PreregistrationHandlers) ShowSubmit(w http.ResponseWriter, r *http.Request) {
	renderPage(h.Renderer, h.Sessions, pageRequest{W: w, R: r, Status: http.StatusOK, Page: "preregistration_new"},
		PageData{Title: "Pre-register a player"})
}

// Submit handles POST /preregistrations/new.
func (h *PreregistrationHandlers) Submit(w http.ResponseWriter, r *http.Request) {
	if !parseForm(w, r) {
		return
	}
	req, err := preregistrationFromForm(r)
	if err == nil {
		_, err = h.Svc.Submit(r.Context(), req)
	}
	if err != nil {
		h.logger().InfoContext(r.Context(), "pre-registration rejected", "error", err)
		status, msg := classify(err, false)
		data := PageData{
			Title:      "Pre-register a player",
			Form:       r.PostForm,
			Error:      msg,
			ErrorField: apperrors.GetField(err),
		}
		renderPage(h.Renderer, h.Sessions,
			pageRequest{W: w, R: r, Status: status, Page: "preregistration_new"}, data)
		return
	}
	http.Redirect(w, r, "/preregistrations/new?notice=preregistration-submitted", http.StatusSeeOther)
}

// ListPendingJSON handles GET /api/preregistrations.
func (h *PreregistrationHandlers) ListPendingJSON(w http.ResponseWriter, r *http.Request) {
	items, err := h.Svc.ListPending(r.Context(), model.PreregistrationListOptions{
		Limit:  queryInt(r, "limit"),
		Offset: queryInt(r, "offset"),
	})
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	if items == nil {
		items = []*model.Preregistration{}
	}
	WriteJSON(w, http.StatusOK, items)
}

// ReviewJSON handles POST /api/preregistrations/{id}/{decision}.
func (h *PreregistrationHandlers) ReviewJSON(w http.ResponseWriter, r *http.Request) {
	var fn reviewFunc
	switch r.PathValue("decision") {
	case "approve":
		fn = h.Svc.Approve
	case "reject":
		fn = h.Svc.Reject
	default:
		http.NotFound(w, r)
		return
	}
	out, err := fn(r.Context(), r.PathValue("id"))
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, out)
}

func preregistrationFromForm(r *http.Request) (model.CreatePreregistrationRequest, error) {
	req := model.CreatePreregistrationRequest{
		PlayerName:  r.PostFormValue("player_name"),
		PlayerEmail: r.PostFormValue("player_email"),
	}
	if v := strings.TrimSpace(r.PostFormValue("birth_date")); v != "" {
		d, err := time.Parse(dateLayout, v)
		if err != nil {
			return req, apperrors.ValidationField("birth_date", "birth_date must be a date")
		}
		req.BirthDate = &d
	}
	if v := r.PostFormValue("position"); v != "" {
		req.Position = &v
	}
	return req, nil
}
