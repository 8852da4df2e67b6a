package http

import (
	"log/slog"
	"os"

	"github.com/cruisehub/reseller-backend-go/internal/handler/http/middleware"
	"github.com/cruisehub/reseller-backend-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

func NewRouter(
	jwtService jwt.Service,
	profileHandler ProfileHandler,
	saleHandler SaleHandler,
	payslipHandler PayslipHandler,
	notificationHandler NotificationHandler,
) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "reseller-backend"),
		slog.String("version", "v1.0.0"),
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

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(jwtService.JWTAuth()))
			r.Use(middleware.AuthRequired(jwtService.JWTAuth()))

			r.Route("/profiles", func(r chi.Router) {
				r.Get("/me", profileHandler.GetMe)
				r.Get("/me/agents", profileHandler.ListAgents)
				r.Get("/{id}", profileHandler.GetByID)

				// Admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.AdminOnly)
					r.Post("/", profileHandler.Create)
					r.Post("/{id}/deactivate", profileHandler.Deactivate)
					r.Delete("/{id}", profileHandler.Delete)
					r.Get("/{id}/agents", profileHandler.ListAgents)
					r.Post("/{id}/agents", profileHandler.LinkAgent)
					r.Delete("/{id}/agents/{agentID}", profileHandler.UnlinkAgent)
				})
			})

			r.Route("/sales", func(r chi.Router) {
				r.Post("/", saleHandler.Create)
				r.Get("/", saleHandler.List)
				r.Get("/{id}", saleHandler.GetByID)
				r.Post("/{id}/submit", saleHandler.Submit)
				r.Post("/{id}/cancel-submission", saleHandler.CancelSubmission)

				// Admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.AdminOnly)
					r.Post("/{id}/approve", saleHandler.Approve)
					r.Post("/{id}/reject", saleHandler.Reject)
					r.Post("/{id}/refund", saleHandler.Refund)
					r.Post("/{id}/card-payment", saleHandler.MarkCardPayment)
					r.Post("/{id}/receipt", saleHandler.MarkReceipt)
				})
			})

			r.Route("/payslips", func(r chi.Router) {
				r.Get("/my", payslipHandler.ListMine)
				r.Get("/{id}", payslipHandler.GetByID)

				// Admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.AdminOnly)
					r.Get("/", payslipHandler.ListPending)
					r.Post("/generate", payslipHandler.Generate)
					r.Post("/generate-period", payslipHandler.GenerateForPeriod)
					r.Post("/dispatch", payslipHandler.DispatchApproved)
					r.Post("/{id}/approve", payslipHandler.Approve)
					r.Post("/{id}/send", payslipHandler.Send)
				})
			})

			r.Route("/notifications", func(r chi.Router) {
				r.Get("/", notificationHandler.ListMine)
				r.Post("/{id}/read", notificationHandler.MarkRead)
			})
		})
	})
	return r
}
