package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"pocketblog/middlewares"
	"pocketblog/models"
	"pocketblog/pagination"
	"pocketblog/validation"
	"strconv"

	"github.com/gorilla/mux"
)

// MaxPostBodyBytes caps the JSON body of POST /posts.
const MaxPostBodyBytes = 64 << 10

// PostsPage is one page of the collection as served by GET /posts.
type PostsPage struct {
	Posts      []models.Post   `json:"posts"`
	Page       pagination.Page `json:"page"`
	TotalPosts int             `json:"total_posts"`
}

// PostsHandler serves the collection and the composer over HTTP.
type PostsHandler struct {
	Screen *Screen
}

func (h *PostsHandler) SetupPostRoutes(r *mux.Router) {
	postsRouter := r.PathPrefix("/posts").Subrouter()
	postsRouter.HandleFunc("", h.GetPosts).Methods(http.MethodGet)
	postsRouter.HandleFunc("", h.CreatePost).Methods(http.MethodPost)
}

// GetPosts returns the requested page without moving the screen's page.
func (h *PostsHandler) GetPosts(w http.ResponseWriter, r *http.Request) {
	page := 1
	if raw := r.URL.Query().Get("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			middlewares.HttpError(w, r, "Invalid page parameter", http.StatusBadRequest, err)
			return
		}
		page = n
	}

	if !h.ready(w, r) {
		return
	}

	posts := h.Screen.Collection()
	p := pagination.New(len(posts), page, pagination.PageSize)
	visible := pagination.Slice(posts, p.Current, pagination.PageSize)
	if visible == nil {
		visible = []models.Post{}
	}
	middlewares.RespondJSON(w, PostsPage{Posts: visible, Page: p, TotalPosts: len(posts)}, http.StatusOK)
}

func (h *PostsHandler) CreatePost(w http.ResponseWriter, r *http.Request) {
	var draft models.Draft
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxPostBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&draft); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			middlewares.HttpError(w, r, "Request body too large", http.StatusRequestEntityTooLarge, err)
			return
		}
		middlewares.HttpError(w, r, "Invalid JSON payload", http.StatusBadRequest, err)
		return
	}

	post, err := h.Screen.Post(r.Context(), draft.Title, draft.Text)
	if err != nil {
		writeScreenError(w, r, err)
		return
	}
	middlewares.RespondJSON(w, post, http.StatusCreated)
}

// ready waits for the mount load and reports whether the handler may go on.
func (h *PostsHandler) ready(w http.ResponseWriter, r *http.Request) bool {
	status, err := h.Screen.Mount(r.Context()).Wait(r.Context())
	if err != nil {
		middlewares.HttpError(w, r, "Posts are still loading", http.StatusServiceUnavailable, err)
		return false
	}
	if status == StatusCorrupt {
		writeScreenError(w, r, ErrStoreCorrupt)
		return false
	}
	return true
}

func writeScreenError(w http.ResponseWriter, r *http.Request, err error) {
	var ve *validation.ValidationError
	switch {
	case errors.As(err, &ve):
		middlewares.HttpError(w, r, "Post rejected", http.StatusBadRequest, err, ve.Errors...)
	case errors.Is(err, ErrRejected):
		middlewares.HttpError(w, r, "Post rejected", http.StatusBadRequest, err)
	case errors.Is(err, ErrStoreCorrupt):
		middlewares.HttpError(w, r, ErrStoreCorrupt.Error(), http.StatusConflict, err)
	case errors.Is(err, ErrStoreHealthy):
		middlewares.HttpError(w, r, ErrStoreHealthy.Error(), http.StatusConflict, err)
	case errors.Is(err, ErrNotReady), errors.Is(err, ErrClosed),
		errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		middlewares.HttpError(w, r, "Service unavailable", http.StatusServiceUnavailable, err)
	default:
		middlewares.HttpError(w, r, "Internal server error", http.StatusInternalServerError, err)
	}
}
