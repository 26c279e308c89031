package metrics

import (
	"errors"
	"reflect"
	"strings"

	"github.com/target/clubdesk/internal/observability/statsd"
)

// Result constants for metric tagging.
const (
	ResultSuccess  = "success"
	ResultError    = "error"
	ResultNoop     = "noop"
	ResultFallback = "fallback"
)

// AuthTransition describes a session state change for metric emission.
type AuthTransition struct {
	Event         string
	Authenticated bool
	Role          string
}

// EmitAuthTransition counts session transitions tagged by event and resulting role.
func EmitAuthTransition(sink statsd.Sink, in AuthTransition) {
	if sink == nil {
		return
	}
	state := "unauthenticated"
	if in.Authenticated {
		state = "authenticated"
	}
	sink.Count("session.transition", 1, map[string]string{
		"event": in.Event,
		"state": state,
		"role":  in.Role,
	})
}

// EmitProfileFallback counts profile resolutions that degraded to the least-privileged role.
func EmitProfileFallback(sink statsd.Sink, err error) {
	if sink == nil {
		return
	}
	tags := map[string]string{"result": ResultFallback}
	if class := Classify(err); class != "" {
		tags["error_class"] = class
	}
	sink.Count("session.profile_resolution", 1, tags)
}

// EmitNavigation counts route guard decisions.
func EmitNavigation(sink statsd.Sink, route, result string) {
	if sink == nil {
		return
	}
	sink.Count("session.navigation", 1, map[string]string{"route": route, "result": result})
}

// Classify returns a normalized type name of the innermost error, suitable for tags.
func Classify(err error) string {
	if err == nil {
		return ""
	}
	for {
		next := errors.Unwrap(err)
		if next == nil {
			break
		}
		err = next
	}
	t := reflect.TypeOf(err)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil {
		return "unknown"
	}
	return strings.ReplaceAll(strings.ToLower(t.String()), ".", "_")
}
