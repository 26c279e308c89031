package ports_test

import (
	"testing"

	"github.com/target/clubdesk/internal/mocks"
	authmocks "github.com/target/clubdesk/internal/mocks/auth"
	"github.com/target/clubdesk/internal/ports"
)

// This test only verifies that our mocks conform to the ports at compile time.
func TestMocksImplementPorts(t *testing.T) {
	t.Helper()

	var _ ports.AuthBackend = (*authmocks.FakeAuthBackend)(nil)
	var _ ports.ProfileReader = (*authmocks.StaticProfileReader)(nil)
	var _ ports.TokenStore = (*authmocks.MemoryTokenStore)(nil)
	var _ ports.Navigator = (*authmocks.RecordingNavigator)(nil)

	var _ ports.ProfileReader = (*mocks.MockProfileReader)(nil)
	var _ ports.Navigator = (*mocks.MockNavigator)(nil)
	var _ ports.AuthBackend = (*mocks.MockAuthBackend)(nil)
}
