package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/target/clubdesk/internal/data"
	domainauth "github.com/target/clubdesk/internal/domain/auth"
	"github.com/target/clubdesk/internal/domain/model"
	"github.com/target/clubdesk/internal/mocks"
	authmocks "github.com/target/clubdesk/internal/mocks/auth"
	"github.com/target/clubdesk/internal/ports"
	"github.com/target/clubdesk/internal/service"
	"github.com/target/clubdesk/internal/session"
	"go.uber.org/mock/gomock"
)

const (
	testCSRFToken = "test-csrf-token"
	testPrereqID  = "7d4c1a52-3b9e-4f0a-9a57-0c3f1e2d4b61"
)

type harness struct {
	t         *testing.T
	handler   http.Handler
	backend   *authmocks.FakeAuthBackend
	store     *session.Store
	nav       *ViewNavigator
	trainings *mocks.MockTrainingSessionRepository
	prereg    *mocks.MockPreregistrationRepository
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	ctrl := gomock.NewController(t)

	backend := authmocks.NewFakeAuthBackend()
	backend.Users["admin@example.com"] = domainauth.Identity{ID: "user-admin", Email: "admin@example.com"}
	backend.Users["viewer@example.com"] = domainauth.Identity{ID: "user-viewer", Email: "viewer@example.com"}

	store := session.NewStore(session.StoreOptions{
		Profiles: authmocks.StaticProfileReader{Profiles: map[string]domainauth.Profile{
			"user-1":     {ID: "user-1", Role: domainauth.RoleCoach},
			"user-admin": {ID: "user-admin", Role: domainauth.RoleAdmin},
		}},
	})
	t.Cleanup(backend.Subscribe(store.OnAuthEvent))

	nav := NewViewNavigator(session.SignInRoute, nil)
	guard := session.NewGuard(session.GuardOptions{Store: store, Navigator: nav})
	guard.Start()
	t.Cleanup(guard.Stop)

	trainings := mocks.NewMockTrainingSessionRepository(ctrl)
	prereg := mocks.NewMockPreregistrationRepository(ctrl)

	handler, err := NewRouter(RouterServices{
		Auth: service.NewAuthService(service.AuthServiceOptions{Backend: backend, Sessions: store}),
		Trainings: service.NewTrainingService(service.TrainingServiceOptions{
			Repo: trainings, Sessions: store,
		}),
		Preregistrations: service.NewPreregistrationService(service.PreregistrationServiceOptions{
			Repo: prereg, Sessions: store,
		}),
		Sessions:  store,
		Navigator: nav,
	})
	require.NoError(t, err)

	return &harness{
		t:         t,
		handler:   handler,
		backend:   backend,
		store:     store,
		nav:       nav,
		trainings: trainings,
		prereg:    prereg,
	}
}

func (h *harness) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.handler.ServeHTTP(rec, req)
	return rec
}

func (h *harness) get(path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.Header.Set("Accept", "text/html")
	return h.do(req)
}

func (h *harness) getJSON(path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.Header.Set("Accept", "application/json")
	return h.do(req)
}

func (h *harness) postForm(path string, form url.Values) *httptest.ResponseRecorder {
	if form == nil {
		form = url.Values{}
	}
	form.Set(DefaultCSRFCookieName, testCSRFToken)
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "text/html")
	req.AddCookie(&http.Cookie{Name: DefaultCSRFCookieName, Value: testCSRFToken})
	return h.do(req)
}

func (h *harness) signIn(email string) {
	h.t.Helper()
	rec := h.postForm("/signin", url.Values{"email": {email}, "password": {"secret"}})
	require.Equal(h.t, http.StatusSeeOther, rec.Code, rec.Body.String())
	require.True(h.t, h.store.Read().Authenticated())
}

func TestRouter_SignedOutIsKeptOnPublicViews(t *testing.T) {
	h := newHarness(t)

	for _, path := range []string{"/trainings", "/trainings/new", "/preregistrations", "/preregistrations/new", "/"} {
		rec := h.get(path)
		assert.Equal(t, http.StatusSeeOther, rec.Code, path)
		assert.Equal(t, "/signin", rec.Header().Get("Location"), path)
	}

	for _, path := range []string{"/signin", "/signup", "/reset-password"} {
		rec := h.get(path)
		assert.Equal(t, http.StatusOK, rec.Code, path)
		assert.Contains(t, rec.Body.String(), `name="csrf_token"`, path)
	}
}

func TestRouter_SignInLandsOnTrainings(t *testing.T) {
	h := newHarness(t)

	h.signIn("Coach@Example.com ")
	assert.Equal(t, ports.Route("/trainings"), h.nav.Current())
	assert.Equal(t, domainauth.RoleCoach, h.store.Read().Role)

	// Public views are no longer reachable once signed in.
	rec := h.get("/signin")
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/trainings", rec.Header().Get("Location"))
}

func TestRouter_SignInRedirectsToCurrentView(t *testing.T) {
	h := newHarness(t)

	rec := h.postForm("/signin", url.Values{"email": {"coach@example.com"}, "password": {"secret"}})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/trainings", rec.Header().Get("Location"))
}

func TestRouter_SignInErrors(t *testing.T) {
	h := newHarness(t)

	t.Run("backend message shown verbatim", func(t *testing.T) {
		rec := h.postForm("/signin", url.Values{"email": {"nobody@example.com"}, "password": {"secret"}})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "invalid login credentials")
		assert.Contains(t, rec.Body.String(), `value="nobody@example.com"`)
		assert.False(t, h.store.Read().Authenticated())
	})

	t.Run("empty password rejected locally", func(t *testing.T) {
		rec := h.postForm("/signin", url.Values{"email": {"coach@example.com"}})
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Contains(t, rec.Body.String(), "password is required")
		assert.Contains(t, rec.Body.String(), `data-field="password"`)
		assert.False(t, h.store.Read().Authenticated())
	})

	t.Run("missing csrf token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/signin",
			strings.NewReader("email=coach%40example.com&password=secret"))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		rec := h.do(req)
		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.False(t, h.store.Read().Authenticated())
	})
}

func TestRouter_SignUp(t *testing.T) {
	h := newHarness(t)

	rec := h.postForm("/signup", url.Values{
		"email":            {"new@example.com"},
		"password":         {"pw"},
		"confirm_password": {"other"},
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), `data-field="confirm_password"`)

	rec = h.postForm("/signup", url.Values{
		"email":    {"coach@example.com"},
		"password": {"pw"},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "user already registered")

	rec = h.postForm("/signup", url.Values{
		"email":     {"new@example.com"},
		"password":  {"pw"},
		"full_name": {"New Player"},
	})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/signin?notice=signed-up", rec.Header().Get("Location"))

	rec = h.get("/signin?notice=signed-up")
	assert.Contains(t, rec.Body.String(), "Account created.")
}

func TestRouter_ResetPassword(t *testing.T) {
	h := newHarness(t)

	rec := h.postForm("/reset-password", url.Values{"email": {" Someone@Example.com"}})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), resetNotice)
	assert.Equal(t, []string{"someone@example.com"}, h.backend.Resets())

	h.backend.ResetPasswordFunc = func(context.Context, string) error {
		return errors.New("email rate limit exceeded")
	}
	rec = h.postForm("/reset-password", url.Values{"email": {"someone@example.com"}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "email rate limit exceeded")
}

func TestRouter_SignOut(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		h := newHarness(t)
		h.signIn("coach@example.com")

		rec := h.postForm("/signout", nil)
		require.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/signin?notice=signed-out", rec.Header().Get("Location"))
		assert.False(t, h.store.Read().Authenticated())
		assert.Equal(t, ports.Route("/signin"), h.nav.Current())
	})

	t.Run("backend failure still clears the session", func(t *testing.T) {
		h := newHarness(t)
		h.signIn("coach@example.com")
		h.backend.SignOutErr = errors.New("network unreachable")

		rec := h.postForm("/signout", nil)
		require.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/signin?notice=signed-out", rec.Header().Get("Location"))
		assert.False(t, h.store.Read().Authenticated())

		rec = h.get("/trainings")
		assert.Equal(t, "/signin", rec.Header().Get("Location"))
	})
}

func TestRouter_TrainingsList(t *testing.T) {
	h := newHarness(t)
	h.signIn("viewer@example.com")
	require.Equal(t, domainauth.RoleViewer, h.store.Read().Role)

	notes := "bring cones"
	h.trainings.EXPECT().
		List(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, opts model.TrainingSessionListOptions) ([]*model.TrainingSession, error) {
			require.NotNil(t, opts.From)
			assert.Equal(t, "2026-03-01", opts.From.Format(dateLayout))
			return []*model.TrainingSession{{
				ID:              "t1",
				Title:           "Sprint drills",
				Location:        "North pitch",
				StartsAt:        time.Date(2026, 3, 2, 18, 0, 0, 0, time.Local),
				DurationMinutes: 90,
				Notes:           &notes,
			}}, nil
		})

	rec := h.get("/trainings?from=2026-03-01")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Sprint drills")
	assert.Contains(t, body, "North pitch")
	assert.Contains(t, body, "bring cones")
	assert.NotContains(t, body, `href="/trainings/new"`, "viewers cannot schedule")
	assert.NotContains(t, body, `href="/preregistrations"`, "review queue hidden from non-admins")
}

func TestRouter_ViewerCannotScheduleTrainings(t *testing.T) {
	h := newHarness(t)
	h.signIn("viewer@example.com")

	assert.Equal(t, http.StatusNotFound, h.get("/trainings/new").Code)
	rec := h.postForm("/trainings/new", url.Values{"title": {"x"}})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouter_CoachSchedulesTraining(t *testing.T) {
	h := newHarness(t)
	h.signIn("coach@example.com")

	rec := h.get("/trainings/new")
	require.Equal(t, http.StatusOK, rec.Code)

	h.trainings.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req *model.CreateTrainingSessionRequest) (*model.TrainingSession, error) {
			assert.Equal(t, "user-1", req.CreatedBy)
			assert.Equal(t, "Sprint drills", req.Title)
			assert.Equal(t, 75, req.DurationMinutes)
			assert.True(t, req.StartsAt.Equal(time.Date(2026, 3, 2, 18, 30, 0, 0, time.Local)), req.StartsAt)
			return &model.TrainingSession{ID: "t1", Title: req.Title, CreatedBy: req.CreatedBy}, nil
		})

	rec = h.postForm("/trainings/new", url.Values{
		"title":            {"Sprint drills"},
		"location":         {"North pitch"},
		"starts_at":        {"2026-03-02T18:30"},
		"duration_minutes": {"75"},
	})
	require.Equal(t, http.StatusSeeOther, rec.Code, rec.Body.String())
	assert.Equal(t, "/trainings?notice=training-created", rec.Header().Get("Location"))
}

func TestRouter_ScheduleTrainingValidation(t *testing.T) {
	h := newHarness(t)
	h.signIn("coach@example.com")

	rec := h.postForm("/trainings/new", url.Values{
		"title":     {"Sprint drills"},
		"location":  {"North pitch"},
		"starts_at": {"tomorrow"},
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "starts_at must be a date and time")
	assert.Contains(t, rec.Body.String(), `value="Sprint drills"`)

	rec = h.postForm("/trainings/new", url.Values{
		"title":     {"Sprint drills"},
		"location":  {"North pitch"},
		"starts_at": {"2026-03-02T18:30"},
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "duration_minutes must be between 1 and 480")
}

func TestRouter_PreregistrationQueueIsAdminOnly(t *testing.T) {
	h := newHarness(t)
	h.signIn("coach@example.com")

	assert.Equal(t, http.StatusNotFound, h.get("/preregistrations").Code)
	assert.Equal(t, http.StatusNotFound, h.postForm("/preregistrations/"+testPrereqID+"/approve", nil).Code)
	assert.Equal(t, http.StatusForbidden, h.getJSON("/api/preregistrations").Code)
}

func TestRouter_AdminReviewsPreregistrations(t *testing.T) {
	h := newHarness(t)
	h.signIn("admin@example.com")
	require.True(t, h.store.Read().IsAdmin())

	h.prereg.EXPECT().
		List(gomock.Any(), model.PreregistrationListOptions{Status: model.PreregistrationPending}).
		Return([]*model.Preregistration{{
			ID:          testPrereqID,
			PlayerName:  "Ada Keeper",
			PlayerEmail: "ada@example.com",
			Status:      model.PreregistrationPending,
		}}, nil)

	rec := h.get("/preregistrations")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Ada Keeper")
	assert.Contains(t, rec.Body.String(), "/preregistrations/"+testPrereqID+"/approve")

	h.prereg.EXPECT().
		Review(gomock.Any(), testPrereqID, model.PreregistrationApproved, "user-admin").
		Return(&model.Preregistration{ID: testPrereqID, Status: model.PreregistrationApproved}, nil)

	rec = h.postForm("/preregistrations/"+testPrereqID+"/approve", nil)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/preregistrations?notice=preregistration-approved", rec.Header().Get("Location"))
}

func TestRouter_ReviewAlreadyReviewed(t *testing.T) {
	h := newHarness(t)
	h.signIn("admin@example.com")

	h.prereg.EXPECT().
		Review(gomock.Any(), testPrereqID, model.PreregistrationRejected, "user-admin").
		Return(nil, data.ErrPreregistrationReviewed)
	h.prereg.EXPECT().
		List(gomock.Any(), gomock.Any()).
		Return(nil, nil)

	rec := h.postForm("/preregistrations/"+testPrereqID+"/reject", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "pre-registration was already reviewed")
}

func TestRouter_SubmitPreregistration(t *testing.T) {
	h := newHarness(t)
	h.signIn("viewer@example.com")

	h.prereg.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req *model.CreatePreregistrationRequest) (*model.Preregistration, error) {
			require.NotNil(t, req.SubmittedBy)
			assert.Equal(t, "user-viewer", *req.SubmittedBy)
			assert.Equal(t, "ada@example.com", req.PlayerEmail)
			require.NotNil(t, req.BirthDate)
			assert.Equal(t, "2012-05-04", req.BirthDate.Format(dateLayout))
			return &model.Preregistration{ID: testPrereqID}, nil
		})

	rec := h.postForm("/preregistrations/new", url.Values{
		"player_name":  {"Ada Keeper"},
		"player_email": {"Ada@Example.com"},
		"birth_date":   {"2012-05-04"},
	})
	require.Equal(t, http.StatusSeeOther, rec.Code, rec.Body.String())
	assert.Equal(t, "/preregistrations/new?notice=preregistration-submitted", rec.Header().Get("Location"))

	h.prereg.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		Return(nil, data.ErrPreregistrationDuplicate)

	rec = h.postForm("/preregistrations/new", url.Values{
		"player_name":  {"Ada Keeper"},
		"player_email": {"ada@example.com"},
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), `data-field="player_email"`)
}

func TestRouter_SessionAPI(t *testing.T) {
	h := newHarness(t)

	decode := func(rec *httptest.ResponseRecorder) sessionResponse {
		t.Helper()
		require.Equal(t, http.StatusOK, rec.Code)
		var out sessionResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
		return out
	}

	out := decode(h.getJSON("/api/session"))
	assert.False(t, out.Authenticated)
	assert.Equal(t, "/signin", out.View)

	h.signIn("coach@example.com")
	out = decode(h.getJSON("/api/session"))
	assert.True(t, out.Authenticated)
	assert.Equal(t, "user-1", out.UserID)
	assert.Equal(t, "coach", out.Role)
	assert.Equal(t, "/trainings", out.View)
	assert.NotNil(t, out.ExpiresAt)
}

func TestRouter_APIRequiresSession(t *testing.T) {
	h := newHarness(t)

	rec := h.getJSON("/api/trainings")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "authentication_required")
}

func TestRouter_TrainingsAPI(t *testing.T) {
	h := newHarness(t)
	h.signIn("coach@example.com")

	h.trainings.EXPECT().
		List(gomock.Any(), model.TrainingSessionListOptions{Limit: 10}).
		Return(nil, nil)

	rec := h.getJSON("/api/trainings?limit=10")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())

	rec = h.getJSON("/api/trainings?from=yesterday")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestRouter_Healthz(t *testing.T) {
	h := newHarness(t)

	rec := h.get("/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	rec = h.do(httptest.NewRequest(http.MethodHead, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Zero(t, rec.Body.Len())

	// Liveness checks leave the signed-out view where it is.
	assert.Equal(t, session.SignInRoute, h.nav.Current())
}

func TestNewRouter_RequiresDependencies(t *testing.T) {
	_, err := NewRouter(RouterServices{})
	require.Error(t, err)
}
