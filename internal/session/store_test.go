package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	domainauth "github.com/target/clubdesk/internal/domain/auth"
	"github.com/target/clubdesk/internal/mocks"
	authmocks "github.com/target/clubdesk/internal/mocks/auth"
	"github.com/target/clubdesk/internal/observability/statsd"
	"github.com/target/clubdesk/internal/ports"
	"go.uber.org/mock/gomock"
)

// profileReaderFunc adapts a function to ports.ProfileReader.
type profileReaderFunc func(ctx context.Context, userID string) (domainauth.Profile, error)

func (f profileReaderFunc) GetProfile(ctx context.Context, userID string) (domainauth.Profile, error) {
	return f(ctx, userID)
}

func newTestStore(t *testing.T, profiles ports.ProfileReader) (*Store, *statsd.Recorder) {
	t.Helper()
	rec := &statsd.Recorder{}
	return NewStore(StoreOptions{Profiles: profiles, Metrics: rec}), rec
}

func TestStore_InitialStateUnauthenticated(t *testing.T) {
	store, _ := newTestStore(t, nil)

	got := store.Read()
	assert.False(t, got.Authenticated())
	assert.Nil(t, got.Identity)
	assert.Equal(t, domainauth.RoleViewer, got.Role)
}

func TestStore_AdminProfileNavigatesToLanding(t *testing.T) {
	profiles := authmocks.StaticProfileReader{Profiles: map[string]domainauth.Profile{
		"u1": {ID: "u1", Role: domainauth.RoleAdmin},
	}}
	store, _ := newTestStore(t, profiles)
	nav := authmocks.NewRecordingNavigator(SignInRoute)
	guard := NewGuard(GuardOptions{Store: store, Navigator: nav})
	guard.Start()
	defer guard.Stop()

	store.OnAuthEvent(context.Background(), domainauth.EventSignedIn, &domainauth.Identity{ID: "u1"})

	got := store.Read()
	require.True(t, got.Authenticated())
	assert.Equal(t, "u1", got.Identity.ID)
	assert.Equal(t, domainauth.RoleAdmin, got.Role)
	assert.Equal(t, []ports.Route{LandingRoute}, nav.Calls())
}

func TestStore_MissingProfileResolvesViewer(t *testing.T) {
	store, rec := newTestStore(t, authmocks.StaticProfileReader{})

	store.OnAuthEvent(context.Background(), domainauth.EventSignedIn, &domainauth.Identity{ID: "u2"})

	got := store.Read()
	require.True(t, got.Authenticated())
	assert.Equal(t, "u2", got.Identity.ID)
	assert.Equal(t, domainauth.RoleViewer, got.Role)
	assert.Len(t, rec.Named("session.profile_resolution"), 1)
}

func TestStore_NullEventClearsAndNavigatesToSignIn(t *testing.T) {
	profiles := authmocks.StaticProfileReader{Profiles: map[string]domainauth.Profile{
		"u1": {ID: "u1", Role: domainauth.RoleAdmin},
	}}
	store, _ := newTestStore(t, profiles)
	nav := authmocks.NewRecordingNavigator(SignInRoute)
	guard := NewGuard(GuardOptions{Store: store, Navigator: nav})
	guard.Start()
	defer guard.Stop()

	ctx := context.Background()
	store.OnAuthEvent(ctx, domainauth.EventSignedIn, &domainauth.Identity{ID: "u1"})
	store.OnAuthEvent(ctx, domainauth.EventSignedOut, nil)

	got := store.Read()
	assert.False(t, got.Authenticated())
	assert.Nil(t, got.Identity)
	assert.Equal(t, domainauth.RoleViewer, got.Role)
	assert.Equal(t, []ports.Route{LandingRoute, SignInRoute}, nav.Calls())
}

func TestStore_NullEventFromAnyState(t *testing.T) {
	store, _ := newTestStore(t, nil)
	ctx := context.Background()

	store.OnAuthEvent(ctx, domainauth.EventSignedOut, nil)
	assert.False(t, store.Read().Authenticated())

	store.SetOverride(ctx, &domainauth.Identity{ID: "u1", RoleClaim: "admin"})
	require.True(t, store.Read().IsAdmin())

	store.OnAuthEvent(ctx, domainauth.EventSignedOut, nil)
	got := store.Read()
	assert.Nil(t, got.Identity)
	assert.Equal(t, domainauth.RoleViewer, got.Role)
}

func TestStore_ProfileFailureNeverLeavesStaleAdmin(t *testing.T) {
	ctrl := gomock.NewController(t)
	profiles := mocks.NewMockProfileReader(ctrl)
	store, _ := newTestStore(t, profiles)
	ctx := context.Background()

	gomock.InOrder(
		profiles.EXPECT().GetProfile(gomock.Any(), "u1").Return(domainauth.Profile{ID: "u1", Role: domainauth.RoleAdmin}, nil),
		profiles.EXPECT().GetProfile(gomock.Any(), "u1").Return(domainauth.Profile{}, errors.New("network down")),
	)

	store.OnAuthEvent(ctx, domainauth.EventSignedIn, &domainauth.Identity{ID: "u1"})
	require.Equal(t, domainauth.RoleAdmin, store.Read().Role)

	store.OnAuthEvent(ctx, domainauth.EventTokenRefreshed, &domainauth.Identity{ID: "u1"})
	got := store.Read()
	assert.True(t, got.Authenticated())
	assert.Equal(t, domainauth.RoleViewer, got.Role)
}

func TestStore_AdminIffLatestProfileSaysAdmin(t *testing.T) {
	type step struct {
		identity *domainauth.Identity
		profile  *domainauth.Profile
		err      error
	}
	admin := domainauth.Profile{Role: domainauth.RoleAdmin}
	coach := domainauth.Profile{Role: domainauth.RoleCoach}
	u := func(id string) *domainauth.Identity { return &domainauth.Identity{ID: id} }

	tests := []struct {
		name  string
		steps []step
		admin bool
	}{
		{name: "admin", steps: []step{{identity: u("a"), profile: &admin}}, admin: true},
		{name: "admin then coach", steps: []step{{identity: u("a"), profile: &admin}, {identity: u("a"), profile: &coach}}},
		{name: "coach then admin", steps: []step{{identity: u("a"), profile: &coach}, {identity: u("b"), profile: &admin}}, admin: true},
		{name: "admin then missing", steps: []step{{identity: u("a"), profile: &admin}, {identity: u("b")}}},
		{name: "admin then error", steps: []step{{identity: u("a"), profile: &admin}, {identity: u("a"), err: errors.New("timeout")}}},
		{name: "admin then sign out", steps: []step{{identity: u("a"), profile: &admin}, {}}},
		{name: "sign out then admin", steps: []step{{}, {identity: u("a"), profile: &admin}}, admin: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var current step
			reader := profileReaderFunc(func(context.Context, string) (domainauth.Profile, error) {
				if current.err != nil {
					return domainauth.Profile{}, current.err
				}
				if current.profile == nil {
					return domainauth.Profile{}, authmocks.ErrNotFound
				}
				return *current.profile, nil
			})
			store, _ := newTestStore(t, reader)

			for _, s := range tt.steps {
				current = s
				store.OnAuthEvent(context.Background(), domainauth.EventSignedIn, s.identity)
			}
			assert.Equal(t, tt.admin, store.Read().IsAdmin())
		})
	}
}

func TestStore_SetOverride(t *testing.T) {
	tests := []struct {
		name      string
		identity  *domainauth.Identity
		wantAuth  bool
		wantRole  domainauth.Role
		wantAdmin bool
	}{
		{name: "nil clears", identity: nil, wantRole: domainauth.RoleViewer},
		{name: "resolved admin claim", identity: &domainauth.Identity{ID: "u1", RoleClaim: "admin"}, wantAuth: true, wantRole: domainauth.RoleAdmin, wantAdmin: true},
		{name: "coach claim", identity: &domainauth.Identity{ID: "u1", RoleClaim: "coach"}, wantAuth: true, wantRole: domainauth.RoleCoach},
		{name: "no claim", identity: &domainauth.Identity{ID: "u1"}, wantAuth: true, wantRole: domainauth.RoleViewer},
		{name: "unknown claim", identity: &domainauth.Identity{ID: "u1", RoleClaim: "superuser"}, wantAuth: true, wantRole: domainauth.RoleViewer},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			profiles := mocks.NewMockProfileReader(ctrl)
			// SetOverride never reads the profile table.
			profiles.EXPECT().GetProfile(gomock.Any(), gomock.Any()).Times(0)
			store, _ := newTestStore(t, profiles)

			store.SetOverride(context.Background(), tt.identity)

			got := store.Read()
			assert.Equal(t, tt.wantAuth, got.Authenticated())
			assert.Equal(t, tt.wantRole, got.Role)
			assert.Equal(t, tt.wantAdmin, got.IsAdmin())
		})
	}
}

func TestStore_IdentityIsCopied(t *testing.T) {
	store, _ := newTestStore(t, nil)
	id := &domainauth.Identity{ID: "u1", Email: "a@example.com", Claims: map[string]any{"k": "v"}}

	store.OnAuthEvent(context.Background(), domainauth.EventSignedIn, id)
	id.Email = "changed@example.com"
	id.Claims["k"] = "changed"

	got := store.Read()
	assert.Equal(t, "a@example.com", got.Identity.Email)
	assert.Equal(t, "v", got.Identity.Claims["k"])
}

func TestStore_SubscribeAndUnsubscribe(t *testing.T) {
	store, _ := newTestStore(t, nil)
	ctx := context.Background()

	var got []Transition
	unsubscribe := store.Subscribe(func(_ context.Context, tr Transition) {
		got = append(got, tr)
	})

	store.OnAuthEvent(ctx, domainauth.EventSignedIn, &domainauth.Identity{ID: "u1"})
	require.Len(t, got, 1)
	assert.Equal(t, domainauth.EventSignedIn, got[0].Event)
	assert.False(t, got[0].From.Authenticated())
	assert.True(t, got[0].To.Authenticated())

	unsubscribe()
	unsubscribe()
	store.OnAuthEvent(ctx, domainauth.EventSignedOut, nil)
	assert.Len(t, got, 1)
}

// A slow profile read for an older event must not overwrite the result of a newer one.
func TestStore_LatestStartedEventWins(t *testing.T) {
	release := make(chan struct{})
	entered := make(chan struct{})
	reader := profileReaderFunc(func(_ context.Context, userID string) (domainauth.Profile, error) {
		if userID == "slow-admin" {
			close(entered)
			<-release
			return domainauth.Profile{ID: userID, Role: domainauth.RoleAdmin}, nil
		}
		return domainauth.Profile{ID: userID, Role: domainauth.RoleCoach}, nil
	})
	store, _ := newTestStore(t, reader)
	ctx := context.Background()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		store.OnAuthEvent(ctx, domainauth.EventSignedIn, &domainauth.Identity{ID: "slow-admin"})
	}()
	<-entered

	store.OnAuthEvent(ctx, domainauth.EventSignedIn, &domainauth.Identity{ID: "fast-coach"})
	require.Equal(t, "fast-coach", store.Read().UserID())

	close(release)
	wg.Wait()

	got := store.Read()
	assert.Equal(t, "fast-coach", got.UserID())
	assert.Equal(t, domainauth.RoleCoach, got.Role)
}

// Rapid sign-out while a sign-in's profile read is in flight leaves the store signed out.
func TestStore_SignOutDuringResolution(t *testing.T) {
	release := make(chan struct{})
	entered := make(chan struct{})
	reader := profileReaderFunc(func(context.Context, string) (domainauth.Profile, error) {
		close(entered)
		<-release
		return domainauth.Profile{Role: domainauth.RoleAdmin}, nil
	})
	store, _ := newTestStore(t, reader)
	nav := authmocks.NewRecordingNavigator(SignInRoute)
	guard := NewGuard(GuardOptions{Store: store, Navigator: nav})
	guard.Start()
	defer guard.Stop()
	ctx := context.Background()

	done := make(chan struct{})
	go func() {
		defer close(done)
		store.OnAuthEvent(ctx, domainauth.EventSignedIn, &domainauth.Identity{ID: "u1"})
	}()
	<-entered

	store.OnAuthEvent(ctx, domainauth.EventSignedOut, nil)
	close(release)

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("resolution did not finish")
	}

	got := store.Read()
	assert.False(t, got.Authenticated())
	assert.False(t, got.IsAdmin())
	assert.Empty(t, nav.Calls(), "already on sign-in, stale sign-in must not navigate")
}

func TestStore_ConcurrentReads(t *testing.T) {
	store, _ := newTestStore(t, authmocks.StaticProfileReader{})
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			store.OnAuthEvent(ctx, domainauth.EventSignedIn, &domainauth.Identity{ID: "u"})
		}()
		go func() {
			defer wg.Done()
			s := store.Read()
			if s.Identity == nil {
				assert.Equal(t, domainauth.RoleViewer, s.Role)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, domainauth.RoleViewer, store.Read().Role)
}

func TestStore_EmitsTransitionMetric(t *testing.T) {
	store, rec := newTestStore(t, nil)

	store.OnAuthEvent(context.Background(), domainauth.EventInitialSession, &domainauth.Identity{ID: "u1"})

	samples := rec.Named("session.transition")
	require.Len(t, samples, 1)
	assert.Equal(t, "initial_session", samples[0].Tags["event"])
	assert.Equal(t, "authenticated", samples[0].Tags["state"])
	assert.Equal(t, "viewer", samples[0].Tags["role"])
}
