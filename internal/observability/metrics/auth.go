// Package metrics names and tags the counters emitted by the auth flows.
package metrics

import (
	"time"

	apperrors "github.com/olive/canteen/internal/errors"
	"github.com/olive/canteen/internal/observability/statsd"
)

// Outcome tag values. Failures are tagged with their error code instead.
const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
)

// Auth emits login and callback metrics. The zero value and nil are no-ops.
type Auth struct {
	sink statsd.Sink
}

// NewAuth wraps sink; a nil sink disables emission.
func NewAuth(sink statsd.Sink) *Auth {
	return &Auth{sink: sink}
}

// Outcome converts err into a tag value.
func Outcome(err error) string {
	if err == nil {
		return OutcomeSuccess
	}
	if code := apperrors.GetCode(err); code != "" {
		return string(code)
	}
	return OutcomeError
}

// LoginBegin counts a login initiation.
func (a *Auth) LoginBegin(provider string, err error) {
	if a == nil || a.sink == nil {
		return
	}
	a.sink.Count("auth.login.begin", 1, map[string]string{"provider": provider, "outcome": Outcome(err)})
}

// Callback counts a provider callback and records how long it took.
func (a *Auth) Callback(provider string, err error, elapsed time.Duration) {
	if a == nil || a.sink == nil {
		return
	}
	tags := map[string]string{"provider": provider, "outcome": Outcome(err)}
	a.sink.Count("auth.callback", 1, tags)
	if elapsed > 0 {
		a.sink.Timing("auth.callback.duration", elapsed, map[string]string{"provider": provider})
	}
}

// SessionLogin counts a session start through method ("handoff" or "credentials").
func (a *Auth) SessionLogin(method string, err error) {
	if a == nil || a.sink == nil {
		return
	}
	a.sink.Count("session.login", 1, map[string]string{"method": method, "outcome": Outcome(err)})
}
