package rest

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"

	"github.com/ramishka-devx/inquiry-system-api/internal/auth"
	"github.com/ramishka-devx/inquiry-system-api/internal/category"
	"github.com/ramishka-devx/inquiry-system-api/internal/complaint"
	"github.com/ramishka-devx/inquiry-system-api/internal/transport/middleware"
	"github.com/ramishka-devx/inquiry-system-api/internal/transport/swagger"
	"github.com/ramishka-devx/inquiry-system-api/internal/user"
)

func RegisterAllRoutes(router *chi.Mux, db *sql.DB, authHandler *auth.Handler, userHandler *user.Handler, categoryHandler *category.Handler, complaintHandler *complaint.Handler, logger *slog.Logger) {
	healthHandler := NewHealthHandler(db)

	// Apply global middleware
	router.Use(middleware.CORS)
	router.Use(middleware.RequestID)
	router.Use(middleware.LoggingMiddleware(logger))
	router.Use(middleware.RecoveryMiddleware(logger))

	// Complaints are immutable once filed; anything hitting an undeclared
	// method gets an explicit JSON 405 instead of silently falling through.
	router.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusMethodNotAllowed)
		w.Write([]byte(`{"error":"METHOD_NOT_ALLOWED","message":"method not allowed"}`))
	})

	// Serve OpenAPI spec at root (outside API prefix)
	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./api/openapi.yml")
	})
	// Swagger UI route at root
	router.Handle("/swagger/*", swagger.Handler())

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		r.Route("/auth", func(sr chi.Router) {
			sr.Post("/register", authHandler.Register)
			sr.Post("/login", authHandler.Login)
		})

		// Everything below requires a valid bearer token; each route is
		// additionally bound to one operation in the permission table.
		r.Group(func(pr chi.Router) {
			pr.Use(authHandler.AuthMiddleware)

			pr.Route("/categories", func(cr chi.Router) {
				cr.With(middleware.Authorize(auth.OpCategoryCreate)).Post("/", categoryHandler.Create)
				cr.With(middleware.Authorize(auth.OpCategoryList)).Get("/", categoryHandler.FindAll)
				cr.With(middleware.Authorize(auth.OpCategoryRead)).Get("/{id}", categoryHandler.FindOne)
				cr.With(middleware.Authorize(auth.OpCategoryUpdate)).Put("/{id}", categoryHandler.Update)
				cr.With(middleware.Authorize(auth.OpCategoryDelete)).Delete("/{id}", categoryHandler.Delete)
				cr.With(middleware.Authorize(auth.OpCategoryAssign)).Post("/{id}/assign", categoryHandler.Assign)
			})

			pr.Route("/complains", func(cr chi.Router) {
				cr.With(middleware.Authorize(auth.OpComplainCreate)).Post("/", complaintHandler.Create)
				cr.With(middleware.Authorize(auth.OpComplainList)).Get("/", complaintHandler.FindAll)
				cr.With(middleware.Authorize(auth.OpComplainListMy)).Get("/my", complaintHandler.FindMy)
				cr.With(middleware.Authorize(auth.OpComplainRead)).Get("/{id}", complaintHandler.FindOne)
				cr.With(middleware.Authorize(auth.OpActivityCreate)).Post("/{id}/activity", complaintHandler.CreateActivity)
			})

			pr.Route("/users", func(ur chi.Router) {
				ur.With(middleware.Authorize(auth.OpUserProfile)).Get("/profile", userHandler.Profile)
				ur.With(middleware.Authorize(auth.OpUserUpdateProfile)).Patch("/profile", userHandler.UpdateProfile)
				ur.With(middleware.Authorize(auth.OpUserList)).Get("/", userHandler.FindAll)
				ur.With(middleware.Authorize(auth.OpUserRead)).Get("/{id}", userHandler.FindOne)
				ur.With(middleware.Authorize(auth.OpUserUpdate)).Patch("/{id}", userHandler.Update)
			})
		})
	})
}
