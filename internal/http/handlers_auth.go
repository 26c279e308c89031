package httpx

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"

	domainauth "github.com/target/clubdesk/internal/domain/auth"
	apperrors "github.com/target/clubdesk/internal/errors"
	"github.com/target/clubdesk/internal/ports"
	"github.com/target/clubdesk/internal/service"
)

// AuthService is the subset of service.AuthService the UI drives.
type AuthService interface {
	SignIn(ctx context.Context, email, password string) (*domainauth.Identity, error)
	SignUp(ctx context.Context, req service.SignUpRequest) (*domainauth.Identity, error)
	ResetPassword(ctx context.Context, email string) error
	SignOut(ctx context.Context) error
}

// notices are the flash messages a redirect can ask the next page to show.
var notices = map[string]string{
	"signed-up":                 "Account created. Confirm your email if asked, then sign in.",
	"signed-out":                "You have been signed out.",
	"training-created":          "Training session scheduled.",
	"preregistration-submitted": "Pre-registration submitted for review.",
	"preregistration-approved":  "Pre-registration approved.",
	"preregistration-rejected":  "Pre-registration rejected.",
}

const resetNotice = "If an account exists for that email, a reset link is on its way."

// AuthHandlers serves the public sign-in, sign-up and reset screens plus sign-out.
type AuthHandlers struct {
	Svc       AuthService
	Sessions  SessionReader
	Navigator ports.Navigator
	Renderer  *TemplateRenderer
	Logger    *slog.Logger
}

func (h *AuthHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

func (h *AuthHandlers) render(w http.ResponseWriter, r *http.Request, status int, page string, data PageData) {
	renderPage(h.Renderer, h.Sessions, pageRequest{W: w, R: r, Status: status, Page: page}, data)
}

// renderFailure shows err on the form page. Backend messages are shown verbatim.
func (h *AuthHandlers) renderFailure(w http.ResponseWriter, r *http.Request, page string, data PageData, err error) {
	status, msg := classify(err, true)
	data.Error = msg
	data.ErrorField = apperrors.GetField(err)
	h.render(w, r, status, page, data)
}

// ShowSignIn handles GET /signin.
func (h *AuthHandlers) ShowSignIn(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "signin", PageData{Title: "Sign in"})
}

// SignIn handles POST /signin and lands on the navigator's current view on success.
func (h *AuthHandlers) SignIn(w http.ResponseWriter, r *http.Request) {
	if !parseForm(w, r) {
		return
	}
	email := r.PostFormValue("email")
	data := PageData{Title: "Sign in", Form: url.Values{"email": {email}}}

	if _, err := h.Svc.SignIn(r.Context(), email, r.PostFormValue("password")); err != nil {
		h.logger().InfoContext(r.Context(), "sign-in rejected", "error", err)
		h.renderFailure(w, r, "signin", data, err)
		return
	}
	h.redirectToView(w, r, "")
}

// ShowSignUp handles GET /signup.
func (h *AuthHandlers) ShowSignUp(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "signup", PageData{Title: "Create account"})
}

// SignUp handles POST /signup.
func (h *AuthHandlers) SignUp(w http.ResponseWriter, r *http.Request) {
	if !parseForm(w, r) {
		return
	}
	req := service.SignUpRequest{
		Email:           r.PostFormValue("email"),
		Password:        r.PostFormValue("password"),
		ConfirmPassword: r.PostFormValue("confirm_password"),
		FullName:        r.PostFormValue("full_name"),
	}
	data := PageData{
		Title: "Create account",
		Form:  url.Values{"email": {req.Email}, "full_name": {req.FullName}},
	}

	if _, err := h.Svc.SignUp(r.Context(), req); err != nil {
		h.logger().InfoContext(r.Context(), "sign-up rejected", "error", err)
		h.renderFailure(w, r, "signup", data, err)
		return
	}
	h.redirectToView(w, r, "signed-up")
}

// ShowReset handles GET /reset-password.
func (h *AuthHandlers) ShowReset(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "reset", PageData{Title: "Reset password"})
}

// ResetPassword handles POST /reset-password.
func (h *AuthHandlers) ResetPassword(w http.ResponseWriter, r *http.Request) {
	if !parseForm(w, r) {
		return
	}
	email := r.PostFormValue("email")
	data := PageData{Title: "Reset password", Form: url.Values{"email": {email}}}

	if err := h.Svc.ResetPassword(r.Context(), email); err != nil {
		h.renderFailure(w, r, "reset", data, err)
		return
	}
	data.Notice = resetNotice
	h.render(w, r, http.StatusOK, "reset", data)
}

// SignOut handles POST /signout. The local session is gone even when the
// backend call fails, so the user always ends up on the sign-in view.
func (h *AuthHandlers) SignOut(w http.ResponseWriter, r *http.Request) {
	if err := h.Svc.SignOut(r.Context()); err != nil {
		h.logger().WarnContext(r.Context(), "backend sign-out failed", "error", err)
	}
	h.redirectToView(w, r, "signed-out")
}

// redirectToView sends the browser to the view the navigator currently shows.
func (h *AuthHandlers) redirectToView(w http.ResponseWriter, r *http.Request, notice string) {
	target := string(currentView(h.Navigator, h.Sessions.Read().Authenticated()))
	if notice != "" {
		target += "?notice=" + url.QueryEscape(notice)
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// pageRequest groups the per-request arguments of renderPage.
type pageRequest struct {
	W      http.ResponseWriter
	R      *http.Request
	Status int
	Page   string
}

// renderPage fills the session, CSRF token and any flash notice before rendering.
func renderPage(rdr *TemplateRenderer, sessions SessionReader, req pageRequest, data PageData) {
	data.Session = sessions.Read()
	data.CSRFToken = GetCSRFToken(req.R)
	if data.Notice == "" {
		data.Notice = notices[req.R.URL.Query().Get("notice")]
	}
	_ = rdr.Render(req.W, req.Status, req.Page, data)
}

func parseForm(w http.ResponseWriter, r *http.Request) bool {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form submission", http.StatusBadRequest)
		return false
	}
	return true
}
