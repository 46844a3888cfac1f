package middleware

import (
	"context"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/carewell-health/carewell/internal/domain/repository"
	"github.com/carewell-health/carewell/pkg/response"
)

type contextKey string

const SessionKey contextKey = "session"

// SessionMiddleware authenticates admin API requests by resolving the
// provider session into the request context. Unlike the page gate, API
// callers get explicit status codes instead of redirects.
type SessionMiddleware struct {
	sessions repository.SessionProvider
	log      *logrus.Logger
}

func NewSessionMiddleware(sessions repository.SessionProvider, log *logrus.Logger) *SessionMiddleware {
	return &SessionMiddleware{
		sessions: sessions,
		log:      log,
	}
}

func (m *SessionMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, err := m.sessions.CurrentSession(r.Context(), r)
		if err != nil {
			m.log.Warnf("Failed to resolve session: %+v", err)
			response.Error(w, http.StatusServiceUnavailable, "Identity provider unavailable", nil)
			return
		}
		if sess == nil {
			response.Unauthorized(w, "Authentication required")
			return
		}

		ctx := context.WithValue(r.Context(), SessionKey, sess)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetSessionFromContext extracts the authenticated session from context.
func GetSessionFromContext(ctx context.Context) (*repository.Session, bool) {
	sess, ok := ctx.Value(SessionKey).(*repository.Session)
	return sess, ok
}
