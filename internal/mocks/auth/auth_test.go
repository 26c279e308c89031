package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	domainauth "github.com/target/clubdesk/internal/domain/auth"
	"github.com/target/clubdesk/internal/ports"
)

func TestFakeAuthBackend_SignInBroadcasts(t *testing.T) {
	backend := NewFakeAuthBackend()
	ctx := context.Background()

	var events []domainauth.AuthEvent
	unsubscribe := backend.Subscribe(func(_ context.Context, ev domainauth.AuthEvent, id *domainauth.Identity) {
		events = append(events, ev)
		if ev == domainauth.EventSignedIn {
			assert.Equal(t, "user-1", id.ID)
		}
	})

	id, err := backend.SignIn(ctx, "coach@example.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, "coach@example.com", id.Email)

	require.NoError(t, backend.SignOut(ctx))
	assert.Equal(t, []domainauth.AuthEvent{domainauth.EventSignedIn, domainauth.EventSignedOut}, events)

	unsubscribe()
	assert.Equal(t, 0, backend.Listeners())
}

func TestFakeAuthBackend_SignInUnknownUser(t *testing.T) {
	backend := NewFakeAuthBackend()
	called := false
	backend.Subscribe(func(context.Context, domainauth.AuthEvent, *domainauth.Identity) { called = true })

	_, err := backend.SignIn(context.Background(), "nobody@example.com", "secret")
	require.Error(t, err)
	assert.False(t, called)
}

func TestFakeAuthBackend_SignUpDuplicate(t *testing.T) {
	backend := NewFakeAuthBackend()
	ctx := context.Background()

	_, err := backend.SignUp(ctx, ports.SignUpInput{Email: "new@example.com", Password: "pw"})
	require.NoError(t, err)

	_, err = backend.SignUp(ctx, ports.SignUpInput{Email: "new@example.com", Password: "pw"})
	require.Error(t, err)
}

func TestStaticProfileReader(t *testing.T) {
	reader := StaticProfileReader{Profiles: map[string]domainauth.Profile{
		"u1": {ID: "u1", Role: domainauth.RoleAdmin},
	}}

	p, err := reader.GetProfile(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, domainauth.RoleAdmin, p.Role)

	_, err = reader.GetProfile(context.Background(), "u2")
	assert.Equal(t, ErrNotFound, err)

	reader.Err = errors.New("boom")
	_, err = reader.GetProfile(context.Background(), "u1")
	assert.EqualError(t, err, "boom")
}

func TestMemoryTokenStore(t *testing.T) {
	store := NewMemoryTokenStore()
	ctx := context.Background()

	require.Error(t, store.Save(ctx, "", ports.StoredToken{}))
	require.NoError(t, store.Save(ctx, "k", ports.StoredToken{AccessToken: "a"}))

	tok, err := store.Load(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "a", tok.AccessToken)

	require.NoError(t, store.Delete(ctx, "k"))
	_, err = store.Load(ctx, "k")
	assert.Equal(t, ErrNotFound, err)
}

func TestRecordingNavigator(t *testing.T) {
	nav := NewRecordingNavigator("/signin")
	require.NoError(t, nav.Replace(context.Background(), "/trainings"))
	assert.Equal(t, ports.Route("/trainings"), nav.Current())

	nav.Err = errors.New("no window")
	require.Error(t, nav.Replace(context.Background(), "/signin"))
	assert.Equal(t, ports.Route("/trainings"), nav.Current())
	assert.Equal(t, []ports.Route{"/trainings", "/signin"}, nav.Calls())
}
