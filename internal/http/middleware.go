package httpx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	domainauth "github.com/target/clubdesk/internal/domain/auth"
	"github.com/target/clubdesk/internal/ports"
	"github.com/target/clubdesk/internal/session"
)

// SessionReader exposes the current session snapshot.
type SessionReader interface {
	Read() domainauth.Session
}

// Logging returns a middleware that logs HTTP requests and responses.
func Logging(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := &respWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(ww, r)
			logger.Info("http",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", ww.status),
				slog.Duration("duration", time.Since(start)),
			)
		})
	}
}

type respWriter struct {
	http.ResponseWriter
	status int
}

func (w *respWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

// Recover returns a middleware that recovers from panics and logs them.
func Recover(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					logger.Error("panic",
						slog.Any("error", err),
						slog.String("path", r.URL.Path),
						slog.String("method", r.Method),
						slog.String("stack", string(debug.Stack())))
					http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// RequireSession rejects requests made while signed out.
// Browsers are sent to the sign-in view; API callers get a 401 JSON body.
func RequireSession(sessions SessionReader) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			current := sessions.Read()
			if !current.Authenticated() {
				if IsBrowserRequest(r) {
					http.Redirect(w, r, string(session.SignInRoute), http.StatusSeeOther)
					return
				}
				WriteError(w, ErrorParams{
					Code:    http.StatusUnauthorized,
					ErrCode: "authentication_required",
					Err:     errors.New("authentication required"),
				})
				return
			}
			next.ServeHTTP(w, r.WithContext(SetSessionInContext(r.Context(), current)))
		})
	}
}

// RequireRole rejects requests whose session role is below required.
// Browsers get a plain 404 so gated screens look absent; API callers get a 403 JSON body.
func RequireRole(sessions SessionReader, required domainauth.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return RequireSession(sessions)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			current, _ := GetSessionFromContext(r.Context())
			if !current.Role.AtLeast(required) {
				if IsBrowserRequest(r) {
					http.NotFound(w, r)
					return
				}
				WriteError(w, ErrorParams{
					Code:    http.StatusForbidden,
					ErrCode: "insufficient_permissions",
					Err:     errors.New("insufficient permissions"),
				})
				return
			}
			next.ServeHTTP(w, r)
		}))
	}
}

type viewArea int

const (
	areaNeutral viewArea = iota
	areaPublic
	areaPrivate
)

var publicViews = map[string]bool{
	string(session.SignInRoute): true,
	"/signup":                   true,
	"/reset-password":           true,
}

func areaFor(path string) viewArea {
	switch {
	case publicViews[path]:
		return areaPublic
	case path == "/", path == "/healthz",
		strings.HasPrefix(path, "/api/"), strings.HasPrefix(path, "/static/"):
		return areaNeutral
	default:
		return areaPrivate
	}
}

// ViewGuard keeps browser page loads inside the area that matches the session:
// signed-out users only see the public views and signed-in users never see them.
// Mismatched requests are redirected to the navigator's current view.
func ViewGuard(sessions SessionReader, nav ports.Navigator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if (r.Method != http.MethodGet && r.Method != http.MethodHead) || !IsBrowserRequest(r) {
				next.ServeHTTP(w, r)
				return
			}
			authed := sessions.Read().Authenticated()
			if !areaAllowed(areaFor(r.URL.Path), authed) {
				http.Redirect(w, r, string(currentView(nav, authed)), http.StatusSeeOther)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func areaAllowed(area viewArea, authed bool) bool {
	switch area {
	case areaPublic:
		return !authed
	case areaPrivate:
		return authed
	default:
		return true
	}
}

// currentView returns where the navigator says the user is, falling back to
// the default view for the session when the navigator lags behind.
func currentView(nav ports.Navigator, authed bool) ports.Route {
	if nav != nil {
		cur := nav.Current()
		if cur != "" && areaFor(string(cur)) != areaNeutral && areaAllowed(areaFor(string(cur)), authed) {
			return cur
		}
	}
	if authed {
		return session.LandingRoute
	}
	return session.SignInRoute
}

// browserRequestKey is an unexported context key type for browser request detection.
type browserRequestKey struct{}

// BrowserDetection returns a middleware that detects browser requests vs API requests.
func BrowserDetection() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := context.WithValue(r.Context(), browserRequestKey{}, isBrowserRequest(r))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// IsBrowserRequest returns true if the current request is from a browser.
func IsBrowserRequest(r *http.Request) bool {
	if isBrowser, ok := r.Context().Value(browserRequestKey{}).(bool); ok {
		return isBrowser
	}
	return isBrowserRequest(r)
}

// isBrowserRequest treats everything outside /api/ and /static/ as a browser
// request unless the Accept header explicitly excludes HTML.
func isBrowserRequest(r *http.Request) bool {
	if strings.HasPrefix(r.URL.Path, "/api/") || strings.HasPrefix(r.URL.Path, "/static/") {
		return false
	}
	accept := r.Header.Get("Accept")
	if accept == "" {
		return true
	}
	return strings.Contains(accept, "text/html") || strings.Contains(accept, "*/*")
}
