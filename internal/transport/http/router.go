package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"golang.org/x/time/rate"

	"github.com/campus-trust-api/internal/application/access"
	"github.com/campus-trust-api/internal/application/authority"
	"github.com/campus-trust-api/internal/application/contentguard"
	"github.com/campus-trust-api/internal/application/devicetrust"
	"github.com/campus-trust-api/internal/application/ratelimit"
	"github.com/campus-trust-api/internal/application/submission"
	"github.com/campus-trust-api/internal/application/trust"
	"github.com/campus-trust-api/internal/config"
	"github.com/campus-trust-api/internal/infrastructure/otp"
	snsinfra "github.com/campus-trust-api/internal/infrastructure/sns"
	"github.com/campus-trust-api/internal/infrastructure/token"
	"github.com/campus-trust-api/internal/transport/http/handler"
	appmiddleware "github.com/campus-trust-api/internal/transport/http/middleware"
)

// Deps holds all infrastructure dependencies for the router.
type Deps struct {
	UserRepo      UserRepository
	VouchRepo     VouchRepository
	DeviceRepo    DeviceRepository
	ChallengeRepo ChallengeRepository

	TokenProvider *token.Provider
	OTPVerifier   otp.Verifier
	Classifier    contentguard.Classifier // nil disables the AI stage
	ReviewQueue   snsinfra.ReviewQueue    // nil disables review publishing
	LimiterStore  ratelimit.Store
}

// NewRouter builds and returns the application router.
func NewRouter(cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	limitCfgs := make(map[string]ratelimit.Config, len(cfg.RateLimits))
	for name, rl := range cfg.RateLimits {
		limitCfgs[name] = ratelimit.Config{Limit: rl.Limit, Window: rl.Window}
	}
	limiters := ratelimit.NewRegistry(deps.LimiterStore, limitCfgs)

	adminAuthority := authority.New(cfg.AdminEmails, cfg.AdminPhones, cfg.DefaultCountry)
	guard := contentguard.NewService(deps.Classifier, cfg.ModerationTimeout)

	accessSvc := access.NewService(access.ServiceDeps{
		Tokens:         deps.TokenProvider,
		Users:          deps.UserRepo,
		Authority:      adminAuthority,
		Verifier:       deps.OTPVerifier,
		DefaultCountry: cfg.DefaultCountry,
		AdminTTL:       cfg.AdminTokenTTL,
		ContributorTTL: cfg.ContributorTokenTTL,
	})
	submissionSvc := submission.NewService(limiters, guard, deps.ReviewQueue)
	trustSvc := trust.NewService(deps.VouchRepo, deps.UserRepo)
	deviceGate := devicetrust.NewGate(deps.DeviceRepo, deps.ChallengeRepo, deps.OTPVerifier)

	healthH := handler.NewHealthHandler()
	tokenH := handler.NewTokenHandler(accessSvc)
	submissionH := handler.NewSubmissionHandler(submissionSvc)
	vouchH := handler.NewVouchHandler(trustSvc, deps.UserRepo)
	deviceH := handler.NewDeviceHandler(deviceGate)
	adminH := handler.NewAdminHandler(cfg, deps.UserRepo)

	authMw := appmiddleware.Auth(deps.TokenProvider)

	// 5 requests/second, burst of 10, per IP, ahead of the named limiters
	// on the sensitive public and OTP-consuming endpoints.
	burst := appmiddleware.NewBurstGuard(rate.Limit(5), 10)

	r.Route("/v1", func(r chi.Router) {
		// ── Public routes (no auth) ──────────────────────────────────────────
		r.Get("/health-check/{action}", healthH.Ping)
		r.With(burst.Limit, appmiddleware.NamedLimit(limiters, config.LimiterOTPRequest)).
			Post("/tokens", tokenH.Issue)

		// ── Authenticated routes ─────────────────────────────────────────────
		r.Group(func(r chi.Router) {
			r.Use(authMw)

			r.Post("/listings/screen", submissionH.ScreenListing)
			r.Post("/messages/screen", submissionH.ScreenMessage)

			r.Post("/vouches", vouchH.Create)
			r.Get("/users/{id}/trust", vouchH.Tier)

			r.Post("/devices/session", deviceH.StartSession)
			r.With(burst.Limit, appmiddleware.NamedLimit(limiters, config.LimiterOTPRequest)).
				Post("/devices/challenge", deviceH.VerifyChallenge)

			// Admin-only routes
			r.Group(func(r chi.Router) {
				r.Use(appmiddleware.RequireAdmin)

				r.Get("/admin/reports", adminH.Reports)
				r.Put("/admin/users/{id}/verification", adminH.SetVerification)
			})
		})
	})

	return r
}
