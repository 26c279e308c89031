package httpx

import (
	"net/http"
	"time"

	"github.com/target/clubdesk/internal/ports"
)

// sessionResponse is the JSON view of the current session.
type sessionResponse struct {
	Authenticated bool       `json:"authenticated"`
	UserID        string     `json:"user_id,omitempty"`
	Email         string     `json:"email,omitempty"`
	Role          string     `json:"role,omitempty"`
	ExpiresAt     *time.Time `json:"expires_at,omitempty"`
	View          string     `json:"view"`
}

// sessionHandler serves GET /api/session. It never blocks on the backend.
func sessionHandler(sessions SessionReader, nav ports.Navigator) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		current := sessions.Read()
		resp := sessionResponse{
			Authenticated: current.Authenticated(),
			View:          string(currentView(nav, current.Authenticated())),
		}
		if id := current.Identity; id != nil {
			resp.UserID = id.ID
			resp.Email = id.Email
			resp.Role = current.Role.String()
			if !id.ExpiresAt.IsZero() {
				exp := id.ExpiresAt
				resp.ExpiresAt = &exp
			}
		}
		WriteJSON(w, http.StatusOK, resp)
	}
}
