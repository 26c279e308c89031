package httpx

import (
	"errors"
	"log/slog"
	"net/http"

	domainauth "github.com/target/clubdesk/internal/domain/auth"
	"github.com/target/clubdesk/internal/ports"
	"github.com/target/clubdesk/internal/session"
)

// RouterServices holds everything the HTTP router needs.
type RouterServices struct {
	Auth             AuthService
	Trainings        TrainingService
	Preregistrations PreregistrationService
	Sessions         SessionReader
	Navigator        ports.Navigator
	// Renderer defaults to one built from the embedded templates.
	Renderer *TemplateRenderer
	Logger   *slog.Logger
}

// NewRouter creates the HTTP handler for the club UI and its JSON API.
func NewRouter(services RouterServices) (http.Handler, error) {
	if services.Auth == nil || services.Trainings == nil || services.Preregistrations == nil {
		return nil, errors.New("router requires auth, training and pre-registration services")
	}
	if services.Sessions == nil || services.Navigator == nil {
		return nil, errors.New("router requires a session reader and a navigator")
	}
	logger := services.Logger
	if logger == nil {
		logger = slog.Default()
	}
	renderer := services.Renderer
	if renderer == nil {
		var err error
		renderer, err = NewTemplateRenderer(TemplateRendererConfig{Logger: logger})
		if err != nil {
			return nil, err
		}
	}

	authH := &AuthHandlers{
		Svc:       services.Auth,
		Sessions:  services.Sessions,
		Navigator: services.Navigator,
		Renderer:  renderer,
		Logger:    logger,
	}
	trainingH := &TrainingHandlers{
		Svc:      services.Trainings,
		Sessions: services.Sessions,
		Renderer: renderer,
		Logger:   logger,
	}
	preregH := &PreregistrationHandlers{
		Svc:      services.Preregistrations,
		Sessions: services.Sessions,
		Renderer: renderer,
		Logger:   logger,
	}

	signedIn := RequireSession(services.Sessions)
	coach := RequireRole(services.Sessions, domainauth.RoleCoach)
	admin := RequireRole(services.Sessions, domainauth.RoleAdmin)

	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", healthHandler)
	mux.Handle("GET /api/session", sessionHandler(services.Sessions, services.Navigator))
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		target := currentView(services.Navigator, services.Sessions.Read().Authenticated())
		http.Redirect(w, r, string(target), http.StatusSeeOther)
	})

	// Public views.
	mux.HandleFunc("GET "+string(session.SignInRoute), authH.ShowSignIn)
	mux.HandleFunc("POST "+string(session.SignInRoute), authH.SignIn)
	mux.HandleFunc("GET /signup", authH.ShowSignUp)
	mux.HandleFunc("POST /signup", authH.SignUp)
	mux.HandleFunc("GET /reset-password", authH.ShowReset)
	mux.HandleFunc("POST /reset-password", authH.ResetPassword)
	mux.HandleFunc("POST /signout", authH.SignOut)

	// Signed-in views.
	mux.Handle("GET "+string(session.LandingRoute), signedIn(http.HandlerFunc(trainingH.List)))
	mux.Handle("GET /trainings/new", coach(http.HandlerFunc(trainingH.ShowNew)))
	mux.Handle("POST /trainings/new", coach(http.HandlerFunc(trainingH.Create)))
	mux.Handle("GET /preregistrations/new", signedIn(http.HandlerFunc(preregH.ShowSubmit)))
	mux.Handle("POST /preregistrations/new", signedIn(http.HandlerFunc(preregH.Submit)))
	mux.Handle("GET /preregistrations", admin(http.HandlerFunc(preregH.ListPending)))
	mux.Handle("POST /preregistrations/{id}/approve", admin(http.HandlerFunc(preregH.Approve)))
	mux.Handle("POST /preregistrations/{id}/reject", admin(http.HandlerFunc(preregH.Reject)))

	// JSON API.
	mux.Handle("GET /api/trainings", signedIn(http.HandlerFunc(trainingH.ListJSON)))
	mux.Handle("POST /api/trainings", coach(http.HandlerFunc(trainingH.CreateJSON)))
	mux.Handle("GET /api/preregistrations", admin(http.HandlerFunc(preregH.ListPendingJSON)))
	mux.Handle("POST /api/preregistrations/{id}/{decision}", admin(http.HandlerFunc(preregH.ReviewJSON)))

	var h http.Handler = mux
	h = ViewGuard(services.Sessions, services.Navigator)(h)
	h = CSRFProtection(CSRFConfig{})(h)
	h = BrowserDetection()(h)
	h = Logging(logger)(h)
	h = Recover(logger)(h)
	return h, nil
}
