package httpx

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"github.com/target/clubdesk/internal/ports"
)

var _ ports.Navigator = (*ViewNavigator)(nil)

// ViewNavigator tracks the view the UI is showing. Replace swaps the current
// view without keeping history, so "back" never returns to a view the session
// can no longer see. Handlers redirect to Current after auth actions.
type ViewNavigator struct {
	mu      sync.RWMutex
	current ports.Route
	logger  *slog.Logger
}

// NewViewNavigator creates a navigator positioned at initial.
func NewViewNavigator(initial ports.Route, logger *slog.Logger) *ViewNavigator {
	if logger == nil {
		logger = slog.Default()
	}
	return &ViewNavigator{current: initial, logger: logger.With("component", "navigator")}
}

func (n *ViewNavigator) Current() ports.Route {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.current
}

func (n *ViewNavigator) Replace(ctx context.Context, route ports.Route) error {
	if !strings.HasPrefix(string(route), "/") {
		return errors.New("route must be an absolute path")
	}
	n.mu.Lock()
	prev := n.current
	n.current = route
	n.mu.Unlock()
	n.logger.DebugContext(ctx, "view replaced", "from", string(prev), "to", string(route))
	return nil
}
