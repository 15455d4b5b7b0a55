package ui

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/varsilias/portfolio-relay/internal/buildinfo"
)

func RegisterRoutes(mux chi.Router, h *UI) {
	mux.Get("/", h.Home)
	mux.Get("/ui/version-pill", h.VersionPill)
	mux.Handle("/static/*", h.Static())
}

type homeVM struct {
	pageView
	Version string
	Commit  string
	BuiltAt string
}

// Home renders the portfolio page with the chat widget.
func (u *UI) Home(w http.ResponseWriter, r *http.Request) {
	u.render(w, r, "layout.html", homeVM{
		pageView: u.page,
		Version:  buildinfo.Version,
		Commit:   buildinfo.Commit,
		BuiltAt:  buildinfo.BuiltAt,
	}, http.StatusOK)
}

type versionVM struct {
	Version string
	Commit  string
	BuiltAt string
}

func (u *UI) VersionPill(w http.ResponseWriter, r *http.Request) {
	// Fragment response; avoid caching so rollouts show quickly
	w.Header().Set("Cache-Control", "no-store")

	data := versionVM{
		Version: buildinfo.Version,
		Commit:  buildinfo.Commit,
		BuiltAt: buildinfo.BuiltAt,
	}
	u.render(w, r, "version-pill.html", data, http.StatusOK)
}
