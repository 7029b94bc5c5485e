package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/referiq/backend/internal/config"
	"github.com/referiq/backend/internal/logging"
	"github.com/referiq/backend/internal/models"
	"github.com/referiq/backend/internal/referrals"
	"github.com/referiq/backend/internal/repositories"
)

// maxSubmissionBytes bounds the in-memory portion of a multipart submission;
// larger file parts spill to temporary files.
const maxSubmissionBytes = 32 << 20

// ReferralHandler implements the referral submission and read endpoints.
type ReferralHandler struct {
	Flow      ReferralSubmitter
	Referrals ReferralStore
	Objects   ObjectURLResolver
	Buckets   config.ObjectStoreConfig
}

// Create handles POST /api/v1/referrals. The body is a multipart form with
// the referral fields plus optional "resume" and "video" file parts.
func (h ReferralHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	if h.Flow == nil {
		logger.Error("submission flow unavailable")
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "referral service unavailable"})
		return
	}

	if err := r.ParseMultipartForm(maxSubmissionBytes); err != nil {
		logger.Warn("invalid multipart submission", "error", err)
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "invalid multipart request body"})
		return
	}

	sub := referrals.Submission{
		ReferrerName:       r.FormValue("referrerName"),
		ReferrerEmail:      r.FormValue("referrerEmail"),
		RecipientFirstName: r.FormValue("recipientFirstName"),
		RecipientLastName:  r.FormValue("recipientLastName"),
		RecipientEmail:     r.FormValue("recipientEmail"),
		CandidateName:      r.FormValue("candidateName"),
		CandidateEmail:     r.FormValue("candidateEmail"),
		Position:           r.FormValue("position"),
		Relationship:       r.FormValue("relationship"),
		LinkedInURL:        r.FormValue("linkedinUrl"),
		PortfolioURL:       r.FormValue("portfolioUrl"),
		EndorsementText:    r.FormValue("endorsementText"),
		WhyFit:             r.FormValue("whyFit"),
		CultureAlignment:   r.FormValue("cultureAlignment"),
		ThumbnailURL:       r.FormValue("thumbnailUrl"),
	}

	resume, closeResume, err := formFile(r, "resume")
	if err != nil {
		logger.Warn("invalid resume part", "error", err)
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "invalid resume attachment"})
		return
	}
	if closeResume != nil {
		defer closeResume()
	}
	sub.Resume = resume

	video, closeVideo, err := formFile(r, "video")
	if err != nil {
		logger.Warn("invalid video part", "error", err)
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "invalid video attachment"})
		return
	}
	if closeVideo != nil {
		defer closeVideo()
	}
	sub.Video = video

	inserted, err := h.Flow.Submit(ctx, sub)
	if err != nil {
		switch {
		case errors.Is(err, referrals.ErrInvalidSubmission):
			logger.Warn("submission rejected", "error", err)
			respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		case errors.Is(err, repositories.ErrConflict):
			logger.Warn("submission conflict", "error", err)
			respondJSON(ctx, w, http.StatusConflict, map[string]string{"error": "referral already exists"})
		default:
			logger.Error("submission failed", "error", err)
			respondJSON(ctx, w, http.StatusBadGateway, map[string]string{"error": "unable to submit referral"})
		}
		return
	}

	respondJSON(ctx, w, http.StatusCreated, h.payload(inserted))
}

// List handles GET /api/v1/referrals.
func (h ReferralHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	records, err := h.Referrals.List(ctx)
	if err != nil {
		logger.Error("list referrals failed", "error", err)
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "unable to list referrals"})
		return
	}

	payload := make([]referralResponse, 0, len(records))
	for _, ref := range records {
		payload = append(payload, h.payload(ref))
	}

	respondJSON(ctx, w, http.StatusOK, map[string]any{"referrals": payload})
}

// Get handles GET /api/v1/referrals/{id}.
func (h ReferralHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	ref, err := h.Referrals.GetByID(ctx, r.PathValue("id"))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			respondJSON(ctx, w, http.StatusNotFound, map[string]string{"error": "referral not found"})
			return
		}
		logger.Error("fetch referral failed", "error", err)
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "unable to fetch referral"})
		return
	}

	respondJSON(ctx, w, http.StatusOK, h.payload(ref))
}

// formFile extracts one optional file part. A missing part is not an error.
func formFile(r *http.Request, field string) (*referrals.FileUpload, func(), error) {
	file, header, err := r.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, nil, nil
		}
		return nil, nil, err
	}

	upload := &referrals.FileUpload{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Content:     file,
	}
	return upload, func() { _ = file.Close() }, nil
}

type referralResponse struct {
	ID                 string    `json:"id"`
	ReferrerName       string    `json:"referrerName"`
	ReferrerEmail      string    `json:"referrerEmail"`
	RecipientFirstName string    `json:"recipientFirstName"`
	RecipientLastName  string    `json:"recipientLastName"`
	RecipientEmail     string    `json:"recipientEmail"`
	CandidateName      string    `json:"candidateName"`
	CandidateEmail     string    `json:"candidateEmail"`
	Position           string    `json:"position"`
	Relationship       string    `json:"relationship"`
	LinkedInURL        string    `json:"linkedinUrl,omitempty"`
	PortfolioURL       string    `json:"portfolioUrl,omitempty"`
	EndorsementText    string    `json:"endorsementText,omitempty"`
	WhyFit             string    `json:"whyFit,omitempty"`
	CultureAlignment   string    `json:"cultureAlignment,omitempty"`
	ResumeFilePath     *string   `json:"resumeFilePath"`
	VideoFilePath      *string   `json:"videoFilePath"`
	ResumeURL          string    `json:"resumeUrl,omitempty"`
	VideoURL           string    `json:"videoUrl,omitempty"`
	ThumbnailURL       *string   `json:"thumbnailUrl"`
	Status             string    `json:"status"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

// payload projects a record into its API shape, resolving public URLs for the
// stored objects so the front end never derives bucket layout itself.
func (h ReferralHandler) payload(ref models.Referral) referralResponse {
	resp := referralResponse{
		ID:                 ref.ID,
		ReferrerName:       ref.ReferrerName,
		ReferrerEmail:      ref.ReferrerEmail,
		RecipientFirstName: ref.RecipientFirstName,
		RecipientLastName:  ref.RecipientLastName,
		RecipientEmail:     ref.RecipientEmail,
		CandidateName:      ref.CandidateName,
		CandidateEmail:     ref.CandidateEmail,
		Position:           ref.Position,
		Relationship:       ref.Relationship,
		LinkedInURL:        ref.LinkedInURL,
		PortfolioURL:       ref.PortfolioURL,
		EndorsementText:    ref.EndorsementText,
		WhyFit:             ref.WhyFit,
		CultureAlignment:   ref.CultureAlignment,
		ResumeFilePath:     ref.ResumeFilePath,
		VideoFilePath:      ref.VideoFilePath,
		ThumbnailURL:       ref.ThumbnailURL,
		Status:             ref.Status,
		CreatedAt:          ref.CreatedAt,
		UpdatedAt:          ref.UpdatedAt,
	}

	if h.Objects != nil {
		if ref.ResumeFilePath != nil {
			resp.ResumeURL = h.Objects.PublicURL(h.Buckets.ResumeBucket, *ref.ResumeFilePath)
		}
		if ref.VideoFilePath != nil {
			resp.VideoURL = h.Objects.PublicURL(h.Buckets.VideoBucket, *ref.VideoFilePath)
		}
	}

	return resp
}
