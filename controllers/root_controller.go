package controllers

import (
	"net/http"
	"pocketblog/middlewares"
	"strconv"

	"github.com/gorilla/mux"
)

// Root is the body of GET /.
type Root struct {
	SiteName string `json:"site_name"`
	Welcome  string `json:"welcome"`
	Status   Status `json:"status"`
}

// ScreenHandler exposes the shared screen state: page, theme and recovery.
type ScreenHandler struct {
	Screen *Screen
}

func (h *ScreenHandler) SetupRootRoute(router *mux.Router) {
	router.HandleFunc("/", h.root).Methods(http.MethodGet)
	router.HandleFunc("/healthz", h.health).Methods(http.MethodGet)
}

func (h *ScreenHandler) SetupScreenRoutes(router *mux.Router) {
	s := router.PathPrefix("/screen").Subrouter()
	s.HandleFunc("", h.snapshot).Methods(http.MethodGet)
	s.HandleFunc("/page/next", h.nextPage).Methods(http.MethodPost)
	s.HandleFunc("/page/previous", h.previousPage).Methods(http.MethodPost)
	s.HandleFunc("/page/{n:-?[0-9]+}", h.goToPage).Methods(http.MethodPut)
	s.HandleFunc("/theme/toggle", h.toggleTheme).Methods(http.MethodPost)

	router.HandleFunc("/store/reset", h.resetStore).Methods(http.MethodPost)
}

func (h *ScreenHandler) root(w http.ResponseWriter, r *http.Request) {
	middlewares.RespondJSON(w, Root{
		SiteName: SiteName,
		Welcome:  WelcomeText,
		Status:   h.Screen.Snapshot().Status,
	}, http.StatusOK)
}

// health reports 503 until the store has been read.
func (h *ScreenHandler) health(w http.ResponseWriter, r *http.Request) {
	status := h.Screen.Snapshot().Status
	code := http.StatusOK
	if status == StatusLoading {
		code = http.StatusServiceUnavailable
	}
	middlewares.RespondJSON(w, map[string]Status{"status": status}, code)
}

func (h *ScreenHandler) snapshot(w http.ResponseWriter, r *http.Request) {
	middlewares.RespondJSON(w, h.Screen.Snapshot(), http.StatusOK)
}

func (h *ScreenHandler) nextPage(w http.ResponseWriter, r *http.Request) {
	h.Screen.NextPage()
	h.snapshot(w, r)
}

func (h *ScreenHandler) previousPage(w http.ResponseWriter, r *http.Request) {
	h.Screen.PreviousPage()
	h.snapshot(w, r)
}

func (h *ScreenHandler) goToPage(w http.ResponseWriter, r *http.Request) {
	n, err := strconv.Atoi(mux.Vars(r)["n"])
	if err != nil {
		middlewares.HttpError(w, r, "Invalid page number", http.StatusBadRequest, err)
		return
	}
	h.Screen.GoToPage(n)
	h.snapshot(w, r)
}

func (h *ScreenHandler) toggleTheme(w http.ResponseWriter, r *http.Request) {
	h.Screen.ToggleTheme()
	h.snapshot(w, r)
}

func (h *ScreenHandler) resetStore(w http.ResponseWriter, r *http.Request) {
	if err := h.Screen.ResetStore(r.Context()); err != nil {
		writeScreenError(w, r, err)
		return
	}
	middlewares.LoggerFrom(r.Context()).Warn("post store reset")
	h.snapshot(w, r)
}
