package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/recipebox/recipe-api/internal/api/handlers"
	"github.com/recipebox/recipe-api/internal/config"
	"github.com/recipebox/recipe-api/internal/metrics"
	"github.com/recipebox/recipe-api/internal/middleware"
)

type RouterDeps struct {
	Cfg        config.Config
	AuthMW     *middleware.AuthMiddleware
	User       *handlers.UserHandler
	Recipe     *handlers.RecipeHandler
	Tag        *handlers.TagHandler
	Ingredient *handlers.IngredientHandler
}

func NewRouter(d RouterDeps) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.Recover, middleware.RateLimit(d.Cfg.RateRPS), middleware.HTTPMetrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) { _, _ = w.Write([]byte("ok")) })
	r.Handle("/metrics", metrics.Handler())

	// Locally stored images are served straight off disk; the S3 driver
	// hands out presigned URLs instead.
	if d.Cfg.StorageDriver == "local" {
		fs := http.StripPrefix("/media/", http.FileServer(http.Dir(d.Cfg.MediaDir)))
		r.Get("/media/*", fs.ServeHTTP)
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/user", d.User.Create)
		r.Post("/user/token", d.User.Token)
		r.Post("/user/token/refresh", d.User.Refresh)

		r.Group(func(r chi.Router) {
			r.Use(d.AuthMW.Auth)

			r.Get("/user/me", d.User.Me)
			r.Patch("/user/me", d.User.UpdateMe)

			r.Route("/recipes", func(r chi.Router) {
				r.Get("/", d.Recipe.List)
				r.Post("/", d.Recipe.Create)
				r.Get("/{id}", d.Recipe.Get)
				r.Put("/{id}", d.Recipe.Put)
				r.Patch("/{id}", d.Recipe.Patch)
				r.Delete("/{id}", d.Recipe.Delete)
				r.Post("/{id}/image", d.Recipe.UploadImage)
			})

			r.Route("/tags", func(r chi.Router) {
				r.Get("/", d.Tag.List)
				r.Patch("/{id}", d.Tag.Patch)
				r.Delete("/{id}", d.Tag.Delete)
			})

			r.Route("/ingredients", func(r chi.Router) {
				r.Get("/", d.Ingredient.List)
				r.Patch("/{id}", d.Ingredient.Patch)
				r.Delete("/{id}", d.Ingredient.Delete)
			})
		})
	})

	return r
}
