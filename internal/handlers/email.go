package handlers

import (
	"errors"
	"net/http"

	"github.com/referiq/backend/internal/email"
	"github.com/referiq/backend/internal/logging"
	"github.com/referiq/backend/internal/models"
	"github.com/referiq/backend/internal/repositories"
)

// EmailHandler implements the email preview and send endpoints.
type EmailHandler struct {
	Referrals ReferralStore
	Renderer  EmailRenderer
	Sender    EmailSender
	Insights  InsightsProvider
}

// Preview handles GET /api/v1/referrals/{id}/email. The variant query
// parameter selects the link mode; it defaults to the interactive preview.
func (h EmailHandler) Preview(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	variant := email.VariantInteractive
	switch r.URL.Query().Get("variant") {
	case "", string(email.VariantInteractive):
	case string(email.VariantOutbound):
		variant = email.VariantOutbound
	default:
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "variant must be interactive or outbound"})
		return
	}

	ref, insights, ok := h.load(w, r)
	if !ok {
		return
	}

	html, err := h.Renderer.Render(email.NewTemplateInput(ref, insights), variant)
	if err != nil {
		logger.Error("render email failed", "error", err, "referral_id", ref.ID)
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "unable to render email"})
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(html))
}

// Send handles POST /api/v1/referrals/{id}/send: it renders the outbound
// variant and dispatches it through the configured provider.
func (h EmailHandler) Send(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	ref, insights, ok := h.load(w, r)
	if !ok {
		return
	}

	html, err := h.Renderer.Render(email.NewTemplateInput(ref, insights), email.VariantOutbound)
	if err != nil {
		logger.Error("render email failed", "error", err, "referral_id", ref.ID)
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "unable to render email"})
		return
	}

	messageID, err := h.Sender.Send(ctx, email.SendRequest{
		ReferralID:     ref.ID,
		RecipientEmail: ref.RecipientEmail,
		RecipientName:  ref.RecipientName(),
		HTMLContent:    html,
		Subject:        email.Subject(ref.ReferrerName),
	})
	if err != nil {
		logger.Error("send email failed", "error", err, "referral_id", ref.ID)
		respondJSON(ctx, w, http.StatusBadGateway, map[string]string{"error": "unable to send referral email"})
		return
	}

	logger.Info("referral email dispatched", "referral_id", ref.ID, "message_id", messageID)
	respondJSON(ctx, w, http.StatusOK, map[string]string{"messageId": messageID})
}

// load fetches the referral and its insights, writing the error response
// itself when either step fails.
func (h EmailHandler) load(w http.ResponseWriter, r *http.Request) (models.Referral, models.AIInsights, bool) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	ref, err := h.Referrals.GetByID(ctx, r.PathValue("id"))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			respondJSON(ctx, w, http.StatusNotFound, map[string]string{"error": "referral not found"})
			return models.Referral{}, models.AIInsights{}, false
		}
		logger.Error("fetch referral failed", "error", err)
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "unable to fetch referral"})
		return models.Referral{}, models.AIInsights{}, false
	}

	insights, err := h.Insights.For(ctx, ref.ID)
	if err != nil {
		logger.Error("fetch insights failed", "error", err, "referral_id", ref.ID)
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "unable to load referral insights"})
		return models.Referral{}, models.AIInsights{}, false
	}

	return ref, insights, true
}
