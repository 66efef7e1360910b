package rbac

import (
	"log/slog"
	"net/http"

	"github.com/student-records/student-api/internal/platform/httpx"
)

// DecisionObserver receives every guard verdict, typically for metrics.
type DecisionObserver interface {
	ObserveDecision(Decision)
}

// Middleware wires RBAC authorization helpers for HTTP handlers. It expects an
// authentication middleware to have stored the credential in the request context.
type Middleware struct {
	Logger   *slog.Logger
	Observer DecisionObserver
}

// RequireAny ensures the current user holds at least one of the capabilities.
func (m Middleware) RequireAny(caps ...Capability) func(http.Handler) http.Handler {
	required := append([]Capability(nil), caps...)
	return m.guard(func(cred *Credential) Decision {
		return Authorize(cred, required...)
	})
}

// RequireRole ensures the current user has one of the listed roles.
func (m Middleware) RequireRole(roles ...Role) func(http.Handler) http.Handler {
	allowed := make(map[Role]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return m.guard(func(cred *Credential) Decision {
		if cred == nil {
			return Deny(DenyUnauthenticated)
		}
		if _, ok := allowed[cred.Role]; ok {
			return Allow()
		}
		return Deny(DenyForbidden)
	})
}

// RequireMinimumRole ensures the current user ranks at least as high as minimum.
func (m Middleware) RequireMinimumRole(minimum Role) func(http.Handler) http.Handler {
	return m.guard(func(cred *Credential) Decision {
		if cred == nil {
			return Deny(DenyUnauthenticated)
		}
		if RoleLevel(cred.Role) < RoleLevel(minimum) {
			return Deny(DenyForbidden)
		}
		return Allow()
	})
}

func (m Middleware) guard(decide func(*Credential) Decision) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cred := CredentialFromContext(r.Context())
			decision := decide(cred)
			if m.Observer != nil {
				m.Observer.ObserveDecision(decision)
			}
			if decision.Allowed {
				next.ServeHTTP(w, r)
				return
			}
			if m.Logger != nil {
				m.Logger.Debug("rbac denied",
					slog.String("path", r.URL.Path),
					slog.String("reason", string(decision.Reason)),
				)
			}
			WriteDenial(w, decision)
		})
	}
}

// WriteDenial renders a denial using the uniform error envelope.
func WriteDenial(w http.ResponseWriter, d Decision) {
	if d.Reason == DenyUnauthenticated {
		httpx.Fail(w, http.StatusUnauthorized, httpx.MsgUnauthorized, string(DenyUnauthenticated))
		return
	}
	httpx.Fail(w, http.StatusForbidden, httpx.MsgForbidden, string(DenyForbidden))
}
