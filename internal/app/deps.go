package app

import (
	"context"
	"fmt"
	"time"

	"github.com/referiq/backend/internal/config"
	"github.com/referiq/backend/internal/db"
	"github.com/referiq/backend/internal/email"
	"github.com/referiq/backend/internal/handlers"
	"github.com/referiq/backend/internal/insights"
	"github.com/referiq/backend/internal/middleware"
	"github.com/referiq/backend/internal/referrals"
	"github.com/referiq/backend/internal/repositories"
	"github.com/referiq/backend/internal/storage"
)

// buildDependencies wires together concrete implementations used by the HTTP handlers.
func buildDependencies(ctx context.Context, pool db.Pool, cfg config.Config) (handlers.Dependencies, error) {
	objects, err := storage.NewS3Store(ctx, cfg.ObjectStore)
	if err != nil {
		return handlers.Dependencies{}, fmt.Errorf("configure object storage: %w", err)
	}

	repo := repositories.NewPostgresReferralRepository(pool)

	renderer, err := email.NewRenderer(cfg.PublicBaseURL)
	if err != nil {
		return handlers.Dependencies{}, err
	}

	sender, err := buildSender(cfg.Email, repo)
	if err != nil {
		return handlers.Dependencies{}, err
	}

	return handlers.Dependencies{
		Flow:          referrals.NewFlow(objects, repo, cfg.ObjectStore),
		Referrals:     repo,
		Objects:       objects,
		Buckets:       cfg.ObjectStore,
		Renderer:      renderer,
		Sender:        sender,
		Insights:      insights.NewCachingProvider(insights.Placeholder{}, 5*time.Minute),
		SubmitLimiter: middleware.NewIPRateLimiter(10, time.Minute, 3, 10*time.Minute),
		SendLimiter:   middleware.NewIPRateLimiter(20, time.Minute, 5, 10*time.Minute),
	}, nil
}

func buildSender(cfg config.EmailConfig, statuses email.StatusUpdater) (handlers.EmailSender, error) {
	switch cfg.Provider {
	case "function", "":
		return email.NewFunctionSender(cfg.FunctionURL), nil
	case "smtp":
		return email.NewSMTPSender(cfg, statuses), nil
	default:
		return nil, fmt.Errorf("unknown email provider %q", cfg.Provider)
	}
}
