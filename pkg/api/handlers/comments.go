package handlers

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"postview/pkg/logger"
	"postview/pkg/models"
	"postview/pkg/telemetry"
	"postview/pkg/thread"
	"postview/pkg/utils"
)

// Comments wires the per-post engines to the rendering layer's routes.
type Comments struct {
	reg         *thread.Registry
	defaultSort models.Sort
}

// RegisterComments registers the comment-thread endpoints.
func RegisterComments(r *mux.Router, reg *thread.Registry, defaultSort models.Sort) {
	h := &Comments{reg: reg, defaultSort: defaultSort}

	r.HandleFunc("/posts/{postID}/comments", h.getThread).Methods(http.MethodGet)
	r.HandleFunc("/posts/{postID}/comments/load", h.loadThread).Methods(http.MethodPost)
	r.HandleFunc("/comments/{id}/vote", h.vote).Methods(http.MethodPost)
	r.HandleFunc("/comments/{id}", h.edit).Methods(http.MethodPut)
	r.HandleFunc("/comments/{id}/delete", h.deleteOrRestore).Methods(http.MethodPost)
}

// --- thread endpoints ---

func (h *Comments) getThread(w http.ResponseWriter, r *http.Request) {
	postID, err := thread.CoerceID(mux.Vars(r)["postID"])
	if err != nil {
		utils.JSONError(w, http.StatusBadRequest, "bad post id")
		return
	}
	eng, ok := h.reg.Find(postID)
	if !ok {
		utils.JSONError(w, http.StatusNotFound, "post not loaded")
		return
	}
	_ = utils.JSONWrite(w, http.StatusOK, eng.Snapshot())
}

func (h *Comments) loadThread(w http.ResponseWriter, r *http.Request) {
	postID, err := thread.CoerceID(mux.Vars(r)["postID"])
	if err != nil {
		utils.JSONError(w, http.StatusBadRequest, "bad post id")
		return
	}
	var body struct {
		Sort      string `json:"sort"`
		Community string `json:"community"`
	}
	if r.ContentLength > 0 {
		if err := utils.DecodeJSON(r, &body); err != nil {
			utils.JSONError(w, http.StatusBadRequest, err.Error())
			return
		}
	}
	sort := models.Sort(body.Sort)
	if body.Sort == "" {
		sort = h.defaultSort
	}

	eng := h.reg.Get(postID)
	if body.Community != "" {
		eng.SetCommunity(body.Community)
	}
	started, err := eng.Load(r.Context(), sort)
	if err != nil {
		telemetry.LoadsTotal.WithLabelValues("error").Inc()
		writeEngineError(w, err)
		return
	}
	if !started {
		// another load is already in flight; not queued, not cancelled
		telemetry.LoadsTotal.WithLabelValues("noop").Inc()
		_ = utils.JSONWrite(w, http.StatusAccepted, eng.Snapshot())
		return
	}
	telemetry.LoadsTotal.WithLabelValues("ok").Inc()
	logger.Info("thread_loaded", "post", postID, "sort", sort)
	_ = utils.JSONWrite(w, http.StatusOK, eng.Snapshot())
}

// --- comment actions ---

func (h *Comments) vote(w http.ResponseWriter, r *http.Request) {
	var body struct {
		PostID    int64 `json:"post_id"`
		Direction int   `json:"direction"`
	}
	if err := utils.DecodeJSON(r, &body); err != nil {
		utils.JSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.action(w, r, "vote", body.PostID, func(eng *thread.Engine) error {
		_, err := eng.Vote(r.Context(), mux.Vars(r)["id"], body.Direction)
		return err
	})
}

func (h *Comments) edit(w http.ResponseWriter, r *http.Request) {
	var body struct {
		PostID     int64  `json:"post_id"`
		Content    string `json:"content"`
		LanguageID int64  `json:"language_id"`
	}
	if err := utils.DecodeJSON(r, &body); err != nil {
		utils.JSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.action(w, r, "edit", body.PostID, func(eng *thread.Engine) error {
		_, err := eng.Edit(r.Context(), mux.Vars(r)["id"], body.Content, body.LanguageID)
		return err
	})
}

func (h *Comments) deleteOrRestore(w http.ResponseWriter, r *http.Request) {
	var body struct {
		PostID int64 `json:"post_id"`
	}
	if err := utils.DecodeJSON(r, &body); err != nil {
		utils.JSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.action(w, r, "delete", body.PostID, func(eng *thread.Engine) error {
		_, err := eng.DeleteOrRestore(r.Context(), mux.Vars(r)["id"])
		return err
	})
}

// action resolves the engine for the post, runs the mutation, and answers
// with a fresh snapshot so the renderer re-reads the mutated node.
func (h *Comments) action(w http.ResponseWriter, r *http.Request, name string, postID int64, run func(*thread.Engine) error) {
	eng, ok := h.reg.Find(postID)
	if !ok {
		telemetry.ActionsTotal.WithLabelValues(name, "error").Inc()
		utils.JSONError(w, http.StatusNotFound, "post not loaded")
		return
	}
	if err := run(eng); err != nil {
		telemetry.ActionsTotal.WithLabelValues(name, "error").Inc()
		logger.Warn("comment_action_failed", "action", name, "post", postID, "comment", mux.Vars(r)["id"], "error", err)
		writeEngineError(w, err)
		return
	}
	telemetry.ActionsTotal.WithLabelValues(name, "ok").Inc()
	_ = utils.JSONWrite(w, http.StatusOK, eng.Snapshot())
}

// writeEngineError maps the engine error taxonomy onto HTTP statuses.
func writeEngineError(w http.ResponseWriter, err error) {
	var verr *thread.ValidationError
	var aerr *thread.AuthorizationError
	var rerr *thread.RejectionError
	switch {
	case errors.As(err, &verr):
		utils.JSONError(w, http.StatusBadRequest, verr.Error())
	case errors.As(err, &aerr):
		utils.JSONError(w, http.StatusForbidden, aerr.Error())
	case errors.Is(err, thread.ErrNotFound), errors.Is(err, thread.ErrNotLoaded):
		utils.JSONError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, thread.ErrBusy):
		utils.JSONError(w, http.StatusConflict, err.Error())
	case errors.As(err, &rerr):
		switch rerr.Category {
		case thread.CategoryRateLimited:
			utils.JSONError(w, http.StatusTooManyRequests, rerr.Error())
		case thread.CategoryUnauthorized:
			utils.JSONError(w, http.StatusUnauthorized, rerr.Error())
		case thread.CategoryNotFound:
			utils.JSONError(w, http.StatusNotFound, rerr.Error())
		default:
			utils.JSONError(w, http.StatusBadGateway, rerr.Error())
		}
	default:
		utils.JSONError(w, http.StatusBadGateway, err.Error())
	}
}
