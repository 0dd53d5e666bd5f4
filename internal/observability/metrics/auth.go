package metrics

import (
	obserrors "github.com/gestaocx/acesso-api/internal/observability/errors"
	"github.com/gestaocx/acesso-api/internal/observability/statsd"
)

// Auth event counters emitted by the HTTP layer.
const (
	EventLoginSuccess        = "auth.login.success"
	EventLoginFailure        = "auth.login.failure"
	EventGuardRedirect       = "auth.guard.redirect"
	EventEnsureUserFailure   = "auth.ensure_user.failure"
	EventEnsureUserBootstrap = "auth.ensure_user.bootstrap"
)

// EmitAuthEvent increments a single auth event counter. A nil sink is a no-op
// so callers never have to guard.
func EmitAuthEvent(sink statsd.Sink, name string) {
	if sink == nil {
		return
	}
	sink.Count(name, 1, nil)
}

// EmitAuthFailure increments a failure counter tagged with the normalized
// error type, so dashboards can split timeouts from token rejections.
func EmitAuthFailure(sink statsd.Sink, name string, err error) {
	if sink == nil {
		return
	}
	sink.Count(name, 1, map[string]string{"error_type": obserrors.Classify(err)})
}
