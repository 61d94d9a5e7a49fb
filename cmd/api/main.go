package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/campus-trust-api/internal/application/ratelimit"
	"github.com/campus-trust-api/internal/config"
	"github.com/campus-trust-api/internal/infrastructure/dynamo"
	"github.com/campus-trust-api/internal/infrastructure/moderation"
	"github.com/campus-trust-api/internal/infrastructure/otp"
	snsinfra "github.com/campus-trust-api/internal/infrastructure/sns"
	"github.com/campus-trust-api/internal/infrastructure/token"
	transporthttp "github.com/campus-trust-api/internal/transport/http"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading from environment")
	}

	cfg := config.Load()
	if cfg.JWTSecret == config.InsecureDefaultJWTSecret {
		log.Println("WARN: signing capability tokens with the development secret; set JWT_SECRET_KEY")
	}

	// Bootstrap DynamoDB tables (creates them if they don't exist).
	dynamoClient := dynamo.NewClient(cfg)
	dynamo.Bootstrap(context.Background(), dynamoClient, cfg.DynamoTables)

	// OTP verifier (required for token issue and device challenges; the
	// fallback rejects every code rather than letting the gates panic).
	var otpVerifier otp.Verifier = otp.Unavailable{}
	if v, err := otp.NewClient(cfg.OTPVerifyURL, cfg.OTPAPIKey); err == nil {
		otpVerifier = v
	} else {
		log.Printf("WARN: OTP verifier not available, OTP-gated paths will reject: %v", err)
	}

	deps := &transporthttp.Deps{
		UserRepo:      dynamo.NewUserRepo(dynamoClient, cfg.DynamoTables.Users),
		VouchRepo:     dynamo.NewVouchRepo(dynamoClient, cfg.DynamoTables.Vouches),
		DeviceRepo:    dynamo.NewDeviceRepo(dynamoClient, cfg.DynamoTables.TrustedDevices),
		ChallengeRepo: dynamo.NewChallengeRepo(dynamoClient, cfg.DynamoTables.DeviceChallenges),
		TokenProvider: token.NewProvider(cfg.JWTSecret),
		OTPVerifier:   otpVerifier,
	}

	// AI moderation stage (optional — unavailable means submissions pass on
	// pattern screening alone).
	if c, err := moderation.NewClient(cfg.ModerationAPIURL, cfg.ModerationAPIKey); err == nil {
		deps.Classifier = c
	} else {
		log.Printf("WARN: AI moderation not available, running pattern screening only: %v", err)
	}

	// SNS review queue (optional — flagged submissions still return the
	// review outcome, they just are not published anywhere).
	if q, err := snsinfra.NewReviewQueue(cfg); err == nil {
		deps.ReviewQueue = q
	} else {
		log.Printf("WARN: review queue not available: %v", err)
	}

	switch cfg.RateLimitBackend {
	case "dynamo":
		deps.LimiterStore = dynamo.NewRateLimitStore(dynamoClient, cfg.DynamoTables.RateLimits)
	default:
		deps.LimiterStore = ratelimit.NewMemoryStore()
	}

	router := transporthttp.NewRouter(cfg, deps)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.AppPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on :%s (env=%s)", cfg.AppPort, cfg.AppEnv)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("forced shutdown: %v", err)
	}
	log.Println("Server stopped")
}
