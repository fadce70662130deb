package routes

import (
	"net/http"
	"net/http/pprof"
	"pocketblog/controllers"
	"pocketblog/middlewares"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Config is the subset of the application configuration routing needs.
type Config interface {
	GetBearerToken() string
	Origins() []string
	GetRateLimit() int
}

// SetupRoutes sets up the application routes and middlewares. The returned
// stop func ends the rate limiter's cleanup loop.
func SetupRoutes(config Config, screen *controllers.Screen, logger *zap.Logger) (http.Handler, func()) {
	router := mux.NewRouter()
	postsHandler := &controllers.PostsHandler{Screen: screen}
	screenHandler := &controllers.ScreenHandler{Screen: screen}

	router.Use(middlewares.LoggingMiddleware(logger))

	stop := func() {}
	if limit := config.GetRateLimit(); limit > 0 {
		rateLimiter := middlewares.NewRateLimiter(limit, time.Minute, 2*time.Minute)
		router.Use(rateLimiter.Limit)
		stop = rateLimiter.Stop
	}

	// Probes and metrics stay outside the bearer check.
	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	router.HandleFunc("/debug/pprof/", pprof.Index)
	router.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	router.HandleFunc("/debug/pprof/profile", pprof.Profile)
	router.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	router.HandleFunc("/debug/pprof/trace", pprof.Trace)
	router.PathPrefix("/debug/pprof/").HandlerFunc(pprof.Index)

	protectedRouter := router.PathPrefix("/").Subrouter()
	protectedRouter.Use(middlewares.ValidateBearerToken(config.GetBearerToken()))

	screenHandler.SetupRootRoute(protectedRouter)
	screenHandler.SetupScreenRoutes(protectedRouter)
	postsHandler.SetupPostRoutes(protectedRouter)

	// CORS wraps the router so preflight requests are answered before mux
	// rejects the OPTIONS method.
	cors := middlewares.CorsMiddleware(&middlewares.CorsConfig{
		AllowedOrigins:   config.Origins(),
		AllowedMethods:   []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization", middlewares.RequestIDHeader},
		ExposedHeaders:   []string{middlewares.RequestIDHeader},
		AllowCredentials: true,
	})

	return cors(router), stop
}
