package http

import (
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"

	"github.com/tutorbase/billing-backend-go/internal/handler/http/middleware"
	"github.com/tutorbase/billing-backend-go/internal/pkg/jwt"
)

func NewRouter(JWTService jwt.Service, authHandler AuthHandler, companyHandler CompanyHandler, payrollHandler PayrollHandler) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "tutorbase-billing"),
		slog.String("version", "v1.0.0"),
		slog.String("env", "development"),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {

		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", authHandler.Login)
			r.Post("/refresh", authHandler.RefreshToken)
			r.Post("/logout", authHandler.Logout)
		})

		// Requires an admin access token scoped to a company
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired(JWTService.JWTAuth()))
			r.Use(middleware.AdminOnly)
			r.Use(middleware.RequireCompany)

			r.Route("/companies", func(r chi.Router) {
				r.Get("/profile", companyHandler.Profile)
				r.Get("/students", companyHandler.ListRoster)

				r.Route("/tutors", func(r chi.Router) {
					r.Get("/", companyHandler.ListTutors)
					r.Get("/{id}", companyHandler.GetTutor)
					r.Put("/{id}/pricing", companyHandler.SetTutorPricing)
				})
			})

			r.Route("/payroll", func(r chi.Router) {
				r.Post("/prepare", payrollHandler.Prepare)
				r.Get("/", payrollHandler.List)

				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", payrollHandler.Get)
					r.Post("/charge-students", payrollHandler.ChargeStudents)
					r.Post("/pay-tutors", payrollHandler.PayTutors)
					r.Post("/pay-admin", payrollHandler.PayAdmin)
				})
			})
		})
	})
	return r
}
