package main

import (
	"net/http"
	"time"

	"github.com/careerplus/careerplus-api/internal/api"
	apiMiddleware "github.com/careerplus/careerplus-api/internal/api/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// setupRouter creates and configures the application router with all routes and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware(app.logger))
	r.Use(apiMiddleware.CORS(app.config.Server.CORSOrigins))
	if secs := app.config.Server.RequestTimeoutSeconds; secs > 0 {
		r.Use(middleware.Timeout(time.Duration(secs) * time.Second))
	}

	authHandler := api.NewAuthHandler(app.accounts, app.logger)
	profileHandler := api.NewProfileHandler(app.profiles, app.logger)
	gigHandler := api.NewGigHandler(app.gigs, app.logger)
	messageHandler := api.NewMessageHandler(app.messages, app.logger)
	reviewHandler := api.NewReviewHandler(app.reviews, app.logger)
	systemHandler := api.NewSystemHandler(app.stats)

	assistantOpts := []api.AssistantOption{api.WithChatSecret(app.config.Telegram.WebhookSecret)}
	if app.updates != nil {
		assistantOpts = append(assistantOpts,
			api.WithTelegramWebhook(app.updates, app.taskRunner, app.config.Telegram.WebhookSecret))
	}
	assistantHandler := api.NewAssistantHandler(app.web, app.bot, app.logger, assistantOpts...)

	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService)

	r.Route("/api", func(r chi.Router) {
		// System endpoints
		r.Get("/", systemHandler.Root)
		r.Get("/health", systemHandler.Health)
		r.Get("/categories", systemHandler.Categories)
		r.Get("/stats", systemHandler.Stats)

		// Authentication endpoints (public)
		r.Post("/auth/signup", authHandler.Signup)
		r.Post("/auth/login", authHandler.Login)
		r.Post("/auth/google", authHandler.GoogleLogin)

		// Public browsing
		r.Get("/gigs", gigHandler.ListGigs)
		r.Get("/gigs/{id}", gigHandler.GetGig)
		r.Get("/profile/{id}", profileHandler.GetProfile)
		r.Get("/freelancers", profileHandler.ListFreelancers)
		r.Get("/reviews/{user_id}", reviewHandler.ListForUser)

		// Telegram bot
		r.Post("/telegram/chat", assistantHandler.TelegramChat)
		r.Post("/telegram/webhook", assistantHandler.TelegramWebhook)

		// Web assistant: page context is only used for signed-in callers
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Optional)
			r.Post("/ai/chat", assistantHandler.Chat)
		})

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			r.Get("/auth/me", authHandler.Me)

			r.Put("/profile", profileHandler.UpdateProfile)
			r.Post("/freelancer/register", profileHandler.RegisterFreelancer)

			r.Post("/gigs", gigHandler.CreateGig)
			r.Post("/gigs/{id}/apply", gigHandler.Apply)
			r.Get("/gigs/{id}/applications", gigHandler.ListApplications)
			r.Put("/applications/{id}/accept", gigHandler.AcceptApplication)
			r.Get("/my-gigs", gigHandler.MyGigs)
			r.Get("/my-applications", gigHandler.MyApplications)
			r.Get("/match/gigs", gigHandler.MatchGigs)
			r.Get("/match/freelancers/{gig_id}", gigHandler.MatchFreelancers)

			r.Post("/messages", messageHandler.Send)
			r.Get("/messages/{other_user_id}", messageHandler.Thread)
			r.Get("/conversations", messageHandler.Conversations)

			r.Post("/reviews", reviewHandler.Create)
		})
	})

	return r
}
