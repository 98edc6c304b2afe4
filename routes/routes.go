package routes

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/unrolled/secure"
	"github.com/upb/yamdb/app"
	"github.com/upb/yamdb/internal/authz"
	"github.com/upb/yamdb/middleware"
	"github.com/upb/yamdb/utils"
)

const defaultRequestTimeout = 10 * time.Second

// SetupRoutes configures all application routes and middleware
func SetupRoutes(deps *app.Dependencies) http.Handler {
	cfg := deps.Config
	r := chi.NewRouter()

	timeout := cfg.Server.RequestTimeout
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}

	// Core middleware
	r.Use(chimw.RealIP)
	r.Use(chimw.StripSlashes)
	r.Use(middleware.RequestID)
	r.Use(deps.HTTPMetrics.Middleware)
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(timeout))

	r.Use(secure.New(secure.Options{
		FrameDeny:             true,
		ContentTypeNosniff:    true,
		BrowserXssFilter:      true,
		ReferrerPolicy:        "strict-origin-when-cross-origin",
		ContentSecurityPolicy: "default-src 'none'; frame-ancestors 'none'",
		SSLRedirect:           cfg.IsProduction(),
		SSLProxyHeaders:       map[string]string{"X-Forwarded-Proto": "https"},
		IsDevelopment:         !cfg.IsProduction(),
	}).Handler)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.Server.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", middleware.RequestIDHeader},
		ExposedHeaders:   []string{middleware.RequestIDHeader},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Use(rateLimit(cfg.RateLimit.RequestsPerMinute))
	r.Use(deps.AuthMiddleware.Authenticate)

	// Health check endpoints
	r.Get("/healthz", deps.HealthHandler.HandleHealth)
	r.Get("/readyz", deps.HealthHandler.HandleReadiness)

	perm := deps.PermissionMiddleware

	r.Route("/api/v1", func(r chi.Router) {
		// Signup and token exchange get a stricter per-IP limit
		r.Route("/auth", func(r chi.Router) {
			r.Use(rateLimit(cfg.RateLimit.AuthRequestsPerMinute))
			r.Post("/signup", deps.AuthHandler.HandleSignup)
			r.Post("/token", deps.AuthHandler.HandleToken)
		})

		r.Route("/users", func(r chi.Router) {
			users := deps.UserHandler
			r.Group(func(r chi.Router) {
				r.Use(perm.Require(authz.SelfPolicy))
				r.Get("/me", users.HandleMe)
				r.Patch("/me", users.HandleUpdateMe)
			})
			r.Group(func(r chi.Router) {
				r.Use(perm.Require(authz.UserAdminPolicy))
				r.Get("/", users.HandleList)
				r.Post("/", users.HandleCreate)
				r.Get("/{username}", users.HandleGet)
				r.Patch("/{username}", users.HandleUpdate)
				r.Delete("/{username}", users.HandleDelete)
			})
		})

		catalog := deps.CatalogHandler
		r.Route("/categories", func(r chi.Router) {
			r.Use(perm.Require(authz.CatalogPolicy))
			r.Get("/", catalog.HandleListCategories)
			r.Post("/", catalog.HandleCreateCategory)
			r.Delete("/{slug}", catalog.HandleDeleteCategory)
		})
		r.Route("/genres", func(r chi.Router) {
			r.Use(perm.Require(authz.CatalogPolicy))
			r.Get("/", catalog.HandleListGenres)
			r.Post("/", catalog.HandleCreateGenre)
			r.Delete("/{slug}", catalog.HandleDeleteGenre)
		})

		r.Route("/titles", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				r.Use(perm.Require(authz.CatalogPolicy))
				r.Get("/", catalog.HandleListTitles)
				r.Post("/", catalog.HandleCreateTitle)
				r.Get("/{titleID}", catalog.HandleGetTitle)
				r.Patch("/{titleID}", catalog.HandleUpdateTitle)
				r.Delete("/{titleID}", catalog.HandleDeleteTitle)
			})

			r.Route("/{titleID}/reviews", func(r chi.Router) {
				r.Use(perm.Require(authz.ContentPolicy))
				reviews := deps.ReviewHandler

				r.Get("/", reviews.HandleListReviews)
				r.Post("/", reviews.HandleCreateReview)
				r.Get("/{reviewID}", reviews.HandleGetReview)
				r.Patch("/{reviewID}", reviews.HandleUpdateReview)
				r.Delete("/{reviewID}", reviews.HandleDeleteReview)

				r.Route("/{reviewID}/comments", func(r chi.Router) {
					r.Get("/", reviews.HandleListComments)
					r.Post("/", reviews.HandleCreateComment)
					r.Get("/{commentID}", reviews.HandleGetComment)
					r.Patch("/{commentID}", reviews.HandleUpdateComment)
					r.Delete("/{commentID}", reviews.HandleDeleteComment)
				})
			})
		})

		blog := deps.BlogHandler
		r.Route("/groups", func(r chi.Router) {
			r.Get("/", blog.HandleListGroups)
			r.Get("/{groupID}", blog.HandleGetGroup)
		})

		r.Route("/posts", func(r chi.Router) {
			r.Use(perm.Require(authz.OwnContentPolicy))

			r.Get("/", blog.HandleListPosts)
			r.Post("/", blog.HandleCreatePost)
			r.Get("/{postID}", blog.HandleGetPost)
			r.Put("/{postID}", blog.HandleReplacePost)
			r.Patch("/{postID}", blog.HandleUpdatePost)
			r.Delete("/{postID}", blog.HandleDeletePost)

			r.Route("/{postID}/comments", func(r chi.Router) {
				r.Get("/", blog.HandleListComments)
				r.Post("/", blog.HandleCreateComment)
				r.Get("/{commentID}", blog.HandleGetComment)
				r.Put("/{commentID}", blog.HandleUpdateComment)
				r.Patch("/{commentID}", blog.HandleUpdateComment)
				r.Delete("/{commentID}", blog.HandleDeleteComment)
			})
		})

		r.Route("/follow", func(r chi.Router) {
			r.Use(perm.Require(authz.SelfPolicy))
			r.Get("/", deps.FollowHandler.HandleList)
			r.Post("/", deps.FollowHandler.HandleFollow)
		})

		r.Route("/audit", func(r chi.Router) {
			r.Use(perm.Require(authz.UserAdminPolicy))
			r.Get("/logs", deps.AuditHandler.HandleList)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		_ = utils.WriteNotFound(w, "endpoint not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		_ = utils.WriteError(w, http.StatusMethodNotAllowed, "method not allowed", nil)
	})

	return r
}

// rateLimit limits requests per client IP per minute; zero disables it
func rateLimit(perMinute int) func(http.Handler) http.Handler {
	if perMinute <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	return httprate.Limit(perMinute, time.Minute,
		httprate.WithKeyFuncs(httprate.KeyByRealIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			_ = utils.WriteTooManyRequests(w, "too many requests, slow down", nil)
		}),
	)
}
