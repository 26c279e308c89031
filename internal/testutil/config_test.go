package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultTestDBConfig(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want TestDBConfig
	}{
		{
			name: "compose test profile",
			want: TestDBConfig{Host: "localhost", Port: "55432", User: "clubdesk", Password: "clubdesk", DBName: "clubdesk"},
		},
		{
			name: "ci service container",
			env:  map[string]string{"TEST_DB_HOST": "postgres", "TEST_DB_PORT": "5432", "TEST_DB_NAME": "club_ci"},
			want: TestDBConfig{Host: "postgres", Port: "5432", User: "clubdesk", Password: "clubdesk", DBName: "club_ci"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, key := range []string{"TEST_DB_HOST", "TEST_DB_PORT", "TEST_DB_USER", "TEST_DB_PASSWORD", "TEST_DB_NAME"} {
				t.Setenv(key, tt.env[key])
			}
			assert.Equal(t, tt.want, DefaultTestDBConfig())
		})
	}
}

func TestTestDBConfig_DSN(t *testing.T) {
	t.Setenv("DB_SSL_MODE", "")
	cfg := TestDBConfig{Host: "db", Port: "5432", User: "u", Password: "p", DBName: "club"}
	assert.Equal(t, "postgres://u:p@db:5432/club?sslmode=disable", cfg.DSN())
}

func TestEnvBool(t *testing.T) {
	t.Setenv("TEST_REQUIRE_INFRA", "yes")
	assert.False(t, envBool("TEST_REQUIRE_INFRA"))
	t.Setenv("TEST_REQUIRE_INFRA", "true")
	assert.True(t, envBool("TEST_REQUIRE_INFRA"))
	assert.True(t, requireDB())
	assert.True(t, requireRedis())
}
