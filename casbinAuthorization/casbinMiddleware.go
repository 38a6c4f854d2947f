package casbinAuthorization

import (
	"net/http"

	"booking_backend/authorization"

	"github.com/casbin/casbin"
	"github.com/sirupsen/logrus"
)

const tokenCookieName = "token"

// extractRole maps the session cookie onto a casbin role. An absent
// cookie is an anonymous caller, a present but unverifiable one is an error.
func extractRole(r *http.Request, codec *authorization.TokenCodec) (string, error) {
	cookie, err := r.Cookie(tokenCookieName)
	if err != nil || cookie.Value == "" {
		return "Unauthenticated", nil
	}

	_, err = codec.Verify(cookie.Value)
	if err != nil {
		return "", err
	}

	return "User", nil
}

func InitializeCasbinMiddleware(modelPath, policyPath string, codec *authorization.TokenCodec, logger *logrus.Logger) (func(http.Handler) http.Handler, error) {
	e, err := casbin.NewEnforcerSafe(modelPath, policyPath)
	if err != nil {
		return nil, err
	}

	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			userRole, err := extractRole(r, codec)
			if err != nil {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			res, err := e.EnforceSafe(userRole, r.URL.Path, r.Method)
			if err != nil {
				logger.Errorf("Enforce error: %v", err)
				http.Error(w, "Unauthorized user", http.StatusUnauthorized)
				return
			}

			if res {
				next.ServeHTTP(w, r)
			} else {
				http.Error(w, "Forbidden", http.StatusForbidden)
				return
			}
		}

		return http.HandlerFunc(fn)
	}, nil
}
