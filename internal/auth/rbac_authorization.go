package auth

import (
	"log/slog"
	"net/http"

	"github.com/frahmantamala/asset-tracking/internal"
	"github.com/frahmantamala/asset-tracking/internal/transport"
)

// Gate enforces a Policy against the user placed in the request context by
// AuthMiddleware.
type Gate struct {
	*transport.BaseHandler
	policy Policy
}

func NewGate(policy Policy, logger *slog.Logger) *Gate {
	return &Gate{
		BaseHandler: transport.NewBaseHandler(logger),
		policy:      policy,
	}
}

// Authorize decides whether u may run op.
func (g *Gate) Authorize(u *internal.User, op Operation) error {
	if u == nil {
		return internal.ErrMissingToken
	}

	req, ok := g.policy[op]
	if !ok {
		return internal.ErrAccessDenied
	}

	switch req {
	case RequireUser:
		return nil
	case RequireAdmin:
		if u.IsAdmin() {
			return nil
		}
		return internal.ErrAdminRequired
	default:
		return internal.ErrAccessDenied
	}
}

// Guard wraps next so it only runs when the policy admits the caller.
func (g *Gate) Guard(op Operation, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u, _ := internal.UserFromContext(r.Context())

		if err := g.Authorize(u, op); err != nil {
			attrs := []any{"operation", op, "error", err}
			if u != nil {
				attrs = append(attrs, "username", u.Username, "role", u.Role)
			}
			g.Logger.WarnContext(r.Context(), "access denied", attrs...)
			g.HandleServiceError(w, err)
			return
		}

		next(w, r)
	}
}
