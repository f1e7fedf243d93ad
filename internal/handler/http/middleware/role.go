package middleware

import (
	"fmt"
	"net/http"

	"github.com/cmlabs-hris/planilla-backend-go/internal/handler/http/response"
	"github.com/go-chi/jwtauth/v5"
)

// RequireRole allows only tokens carrying the given role claim.
func RequireRole(role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, claims, err := jwtauth.FromContext(r.Context())
			if err != nil {
				response.Forbidden(w, fmt.Sprintf("Insufficient permissions: required '%s'", role))
				return
			}

			got, ok := claims["role"].(string)
			if !ok || got != role {
				response.Forbidden(w, fmt.Sprintf("Insufficient permissions: required '%s'", role))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
