package handler

import (
	"net/http"

	"github.com/a-h/templ"

	"github.com/mcoot/sweepbot/internal/api/apierr"
	"github.com/mcoot/sweepbot/internal/web/templates/layout"
	"github.com/mcoot/sweepbot/internal/web/templates/pages"
)

// render writes an HTML page with the given status
func render(w http.ResponseWriter, r *http.Request, status int, page templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_ = page.Render(r.Context(), w)
}

// renderError writes an error page using the status the API would use for err
func renderError(w http.ResponseWriter, r *http.Request, err error, message, backURL string) {
	status := apierr.StatusCode(err)
	render(w, r, status, pages.Error(pages.ErrorData{
		PageData: layout.PageData{Title: http.StatusText(status)},
		Message:  message,
		BackURL:  backURL,
	}))
}
