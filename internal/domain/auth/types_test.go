package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	tests := []struct {
		in     string
		want   Role
		wantOK bool
	}{
		{in: "admin", want: RoleAdmin, wantOK: true},
		{in: " Coach ", want: RoleCoach, wantOK: true},
		{in: "viewer", want: RoleViewer, wantOK: true},
		{in: "", want: RoleViewer, wantOK: false},
		{in: "superuser", want: RoleViewer, wantOK: false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseRole(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantOK, ok)
		})
	}
}

func TestRole_ZeroValueIsViewer(t *testing.T) {
	var r Role
	assert.Equal(t, RoleViewer, r)
	assert.Equal(t, "viewer", r.String())
}

func TestRole_AtLeast(t *testing.T) {
	assert.True(t, RoleAdmin.AtLeast(RoleCoach))
	assert.True(t, RoleCoach.AtLeast(RoleCoach))
	assert.False(t, RoleViewer.AtLeast(RoleCoach))
	assert.False(t, Role(42).AtLeast(RoleViewer))
}

func TestRole_TextRoundTrip(t *testing.T) {
	b, err := RoleCoach.MarshalText()
	require.NoError(t, err)

	var r Role
	require.NoError(t, r.UnmarshalText(b))
	assert.Equal(t, RoleCoach, r)

	err = r.UnmarshalText([]byte("owner"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid role")
}

func TestIdentity_CloneDoesNotShareClaims(t *testing.T) {
	id := &Identity{ID: "u1", Claims: map[string]any{"k": "v"}, ExpiresAt: time.Now()}
	cp := id.Clone()
	cp.Claims["k"] = "changed"
	assert.Equal(t, "v", id.Claims["k"])

	var nilID *Identity
	assert.Nil(t, nilID.Clone())
}

func TestSession_Helpers(t *testing.T) {
	var s Session
	assert.False(t, s.Authenticated())
	assert.False(t, s.IsAdmin())
	assert.Empty(t, s.UserID())

	s = Session{Identity: &Identity{ID: "u1"}, Role: RoleAdmin}
	assert.True(t, s.Authenticated())
	assert.True(t, s.IsAdmin())
	assert.Equal(t, "u1", s.UserID())
}
