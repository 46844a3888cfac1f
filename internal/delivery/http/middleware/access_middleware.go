package middleware

import (
	"net/http"
	"net/url"

	"github.com/sirupsen/logrus"

	"github.com/carewell-health/carewell/internal/domain/repository"
	"github.com/carewell-health/carewell/internal/rbac"
)

// DecisionKind enumerates the gate's terminal outcomes.
type DecisionKind int

const (
	// DecisionPass lets the request through unmodified.
	DecisionPass DecisionKind = iota
	// DecisionRedirectLogin sends the caller to the login screen,
	// carrying the original path so the flow can return there.
	DecisionRedirectLogin
	// DecisionRedirectDashboard bounces the caller to their role's
	// dashboard.
	DecisionRedirectDashboard
)

// Decision is the gate's verdict for a single request. The HTTP redirect
// mechanics live in Gate; everything up to here is plain data so the
// decision procedure can be tested without a ResponseWriter.
type Decision struct {
	Kind   DecisionKind
	Target string
}

// Decide runs the authorization state machine for one request. A nil
// session is an anonymous caller; an unrecognized role in the session
// metadata degrades to patient, never upward.
func Decide(class rbac.PathClass, path string, sess *repository.Session) Decision {
	if sess == nil {
		if class == rbac.PathPublic || class == rbac.PathAuth {
			return Decision{Kind: DecisionPass}
		}
		return Decision{Kind: DecisionRedirectLogin, Target: path}
	}

	role := sess.ParsedRole()
	dashboard := rbac.DashboardFor(role)

	// Authenticated users never see the login/register screens.
	if class == rbac.PathAuth {
		return Decision{Kind: DecisionRedirectDashboard, Target: dashboard}
	}

	// Resolve the role-neutral entry point to the role's own area.
	if path == "/dashboard" {
		return Decision{Kind: DecisionRedirectDashboard, Target: dashboard}
	}

	// Forbidden areas steer back to the dashboard rather than erroring.
	if !rbac.CanAccessRoute(role, path) {
		return Decision{Kind: DecisionRedirectDashboard, Target: dashboard}
	}

	return Decision{Kind: DecisionPass}
}

// AccessMiddleware gates every inbound page request before it reaches
// rendering. It is stateless across requests and performs at most one
// session-provider call per request.
type AccessMiddleware struct {
	sessions repository.SessionProvider
	log      *logrus.Logger
}

func NewAccessMiddleware(sessions repository.SessionProvider, log *logrus.Logger) *AccessMiddleware {
	return &AccessMiddleware{
		sessions: sessions,
		log:      log,
	}
}

func (m *AccessMiddleware) Gate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path

		// Static assets, the API surface and the identity callback
		// bypass the gate before any session lookup.
		if rbac.SkipGate(path) {
			next.ServeHTTP(w, r)
			return
		}

		class := rbac.Classify(path)

		sess, err := m.sessions.CurrentSession(r.Context(), r)
		if err != nil {
			// Provider unreachable degrades to anonymous rather than
			// failing the request.
			m.log.Warnf("Failed to resolve session, treating request as anonymous: %+v", err)
			sess = nil
		}

		decision := Decide(class, path, sess)
		switch decision.Kind {
		case DecisionRedirectLogin:
			http.Redirect(w, r, "/login?redirect="+url.QueryEscape(decision.Target), http.StatusFound)
		case DecisionRedirectDashboard:
			http.Redirect(w, r, decision.Target, http.StatusFound)
		default:
			next.ServeHTTP(w, r)
		}
	})
}
