package casbinAuthorization

import (
	"net/http"

	"github.com/casbin/casbin"
	"github.com/sirupsen/logrus"

	"github.com/harsh17-bit/Urban-Stay-sub001/authorization"
	"github.com/harsh17-bit/Urban-Stay-sub001/errors"
)

func NewEnforcer(model, policy string) (*casbin.Enforcer, error) {
	return casbin.NewEnforcerSafe(model, policy)
}

// CasbinMiddleware enforces the role policy on path and method. It runs after
// the auth guard, so the subject is the resolved user's role. A denied
// anonymous caller is asked to authenticate; anyone else is forbidden.
func CasbinMiddleware(e *casbin.Enforcer, logger *logrus.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			role := authorization.RoleOf(r.Context())

			allowed, err := e.EnforceSafe(role, r.URL.Path, r.Method)
			if err != nil {
				logger.WithError(err).Error("Error enforcing authorization policy")
				errors.WriteHTTP(w, errors.Internal(err))
				return
			}
			if allowed {
				next.ServeHTTP(w, r)
				return
			}

			fields := logrus.Fields{"role": role, "path": r.URL.Path, "method": r.Method}
			if role == authorization.Anonymous {
				logger.WithFields(fields).Info("Unauthenticated access attempt")
				errors.WriteHTTP(w, errors.Authentication(errors.MissingTokenError))
				return
			}
			logger.WithFields(fields).Warn("Unauthorized access attempt: forbidden")
			errors.WriteHTTP(w, errors.Forbidden())
		}

		return http.HandlerFunc(fn)
	}
}
