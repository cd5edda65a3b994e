// Package api assembles the HTTP surface the rendering layer talks to. The
// engine owns all comment state; these routes only dispatch (action,
// commentId) pairs into it and hand snapshots back.
package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"postview/pkg/api/handlers"
	"postview/pkg/models"
	"postview/pkg/thread"
)

// Handler returns the /v1 API router.
func Handler(reg *thread.Registry, defaultSort models.Sort) http.Handler {
	r := mux.NewRouter()
	v1 := r.PathPrefix("/v1").Subrouter()
	handlers.RegisterComments(v1, reg, defaultSort)
	return r
}
