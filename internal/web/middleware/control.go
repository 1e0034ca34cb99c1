package middleware

import (
	"net/http"

	"github.com/mcoot/sweepbot/internal/model"
)

type contextKey string

const controlCookiePrefix = "sweep_ctl_"

func controlCookieName(id model.GameID) string {
	return controlCookiePrefix + string(id)
}

// SetControlToken remembers a game's control token in a cookie scoped to the
// game's pages
func SetControlToken(w http.ResponseWriter, id model.GameID, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     controlCookieName(id),
		Value:    token,
		Path:     "/games/" + string(id),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// ControlToken returns the token posted with a form, falling back to the
// game's control cookie
func ControlToken(r *http.Request, id model.GameID) string {
	if token := r.PostFormValue("token"); token != "" {
		return token
	}
	if cookie, err := r.Cookie(controlCookieName(id)); err == nil {
		return cookie.Value
	}
	return ""
}
