package handlers

import (
	"context"

	"github.com/referiq/backend/internal/email"
	"github.com/referiq/backend/internal/models"
	"github.com/referiq/backend/internal/referrals"
)

// ReferralSubmitter runs the submission pipeline for a validated form.
type ReferralSubmitter interface {
	Submit(ctx context.Context, sub referrals.Submission) (models.Referral, error)
}

// ReferralStore captures the persistence operations required by the read and
// send endpoints.
type ReferralStore interface {
	GetByID(ctx context.Context, id string) (models.Referral, error)
	List(ctx context.Context) ([]models.Referral, error)
}

// ObjectURLResolver derives public URLs for stored objects.
type ObjectURLResolver interface {
	PublicURL(bucket, key string) string
}

// EmailRenderer produces referral email HTML for a given link variant.
type EmailRenderer interface {
	Render(input email.TemplateInput, variant email.Variant) (string, error)
}

// EmailSender dispatches a rendered referral email.
type EmailSender interface {
	Send(ctx context.Context, req email.SendRequest) (string, error)
}

// InsightsProvider supplies the analysis scores rendered into emails.
type InsightsProvider interface {
	For(ctx context.Context, referralID string) (models.AIInsights, error)
}
