package middleware

import (
	"context"
	"net/http"

	"github.com/go-chi/jwtauth/v5"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-payroll-go/internal/handler/http/response"
)

type actorKey struct{}

// Authenticate requires a verified access token and stores the caller as a
// user.Actor in the request context. It must run after jwtauth.Verifier.
func Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, claims, err := jwtauth.FromContext(r.Context())
		if err != nil {
			response.Unauthorized(w, err.Error())
			return
		}
		if token == nil {
			response.Unauthorized(w, "Invalid token")
			return
		}

		if tokenType, ok := claims["type"].(string); !ok || tokenType != "access" {
			response.Unauthorized(w, "Invalid token")
			return
		}

		userID, _ := claims["user_id"].(string)
		if userID == "" {
			response.Unauthorized(w, "Invalid token")
			return
		}
		employeeID, _ := claims["employee_id"].(string)
		roleStr, _ := claims["role"].(string)
		role := user.Role(roleStr)
		if !role.IsValid() {
			response.Forbidden(w, user.ErrInvalidRole.Error())
			return
		}

		actor := user.NewActor(userID, employeeID, role)
		next.ServeHTTP(w, r.WithContext(WithActor(r.Context(), actor)))
	})
}

// WithActor returns a copy of ctx carrying actor.
func WithActor(ctx context.Context, actor user.Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}

// ActorFromContext returns the authenticated caller. The zero Actor holds no
// permissions, so a missing value fails every capability check.
func ActorFromContext(ctx context.Context) user.Actor {
	actor, _ := ctx.Value(actorKey{}).(user.Actor)
	return actor
}
