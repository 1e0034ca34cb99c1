package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/mcoot/sweepbot/internal/api/apierr"
	"github.com/mcoot/sweepbot/internal/model"
)

// Authorizer checks a control token for a game
type Authorizer interface {
	Authorize(ctx context.Context, id model.GameID, token string) error
}

// ControlToken requires a valid control token for the game named by the
// {id} route variable
func ControlToken(authorizer Authorizer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := ExtractToken(r)
			if token == "" {
				apierr.WriteError(w, apierr.NewUnauthorizedError())
				return
			}

			id := model.GameID(mux.Vars(r)["id"])
			if err := authorizer.Authorize(r.Context(), id, token); err != nil {
				apierr.WriteError(w, err)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// ExtractToken extracts the control token from the request
func ExtractToken(r *http.Request) string {
	// Check Authorization header first
	authHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}

	// Fall back to form field, as posted by the HTML board
	return r.PostFormValue("token")
}
