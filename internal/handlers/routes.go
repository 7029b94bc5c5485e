package handlers

import (
	"net/http"

	"github.com/referiq/backend/internal/config"
	"github.com/referiq/backend/internal/middleware"
)

// RegisterRoutes wires HTTP handlers into the provided ServeMux.
func RegisterRoutes(mux *http.ServeMux, deps Dependencies) {
	health := HealthHandler{}
	referralHandler := ReferralHandler{
		Flow:      deps.Flow,
		Referrals: deps.Referrals,
		Objects:   deps.Objects,
		Buckets:   deps.Buckets,
	}
	emailHandler := EmailHandler{
		Referrals: deps.Referrals,
		Renderer:  deps.Renderer,
		Sender:    deps.Sender,
		Insights:  deps.Insights,
	}

	mux.HandleFunc("/healthz", health.Handle)
	mux.Handle("POST /api/v1/referrals", limit(deps.SubmitLimiter, referralHandler.Create))
	mux.HandleFunc("GET /api/v1/referrals", referralHandler.List)
	mux.HandleFunc("GET /api/v1/referrals/{id}", referralHandler.Get)
	mux.HandleFunc("GET /api/v1/referrals/{id}/email", emailHandler.Preview)
	mux.Handle("POST /api/v1/referrals/{id}/send", limit(deps.SendLimiter, emailHandler.Send))
}

// Dependencies aggregates collaborators required by HTTP handlers.
type Dependencies struct {
	Flow          ReferralSubmitter
	Referrals     ReferralStore
	Objects       ObjectURLResolver
	Buckets       config.ObjectStoreConfig
	Renderer      EmailRenderer
	Sender        EmailSender
	Insights      InsightsProvider
	SubmitLimiter middleware.RateLimiter
	SendLimiter   middleware.RateLimiter
}

func limit(limiter middleware.RateLimiter, next http.HandlerFunc) http.Handler {
	if limiter == nil {
		return next
	}
	return middleware.Limit(limiter, next)
}
