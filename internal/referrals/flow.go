package referrals

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/mail"
	"strings"

	"github.com/google/uuid"

	"github.com/referiq/backend/internal/config"
	"github.com/referiq/backend/internal/logging"
	"github.com/referiq/backend/internal/models"
	"github.com/referiq/backend/internal/storage"
)

// ErrInvalidSubmission indicates the submission failed validation before any
// side effect ran.
var ErrInvalidSubmission = errors.New("invalid submission")

// FileUpload is one file attached to a submission.
type FileUpload struct {
	Filename    string
	ContentType string
	Content     io.Reader
}

// Submission is the in-memory form state handed to the flow. Resume and Video
// are optional; ThumbnailURL is set when a captured thumbnail was already
// promoted to durable storage.
type Submission struct {
	ReferrerName       string
	ReferrerEmail      string
	RecipientFirstName string
	RecipientLastName  string
	RecipientEmail     string
	CandidateName      string
	CandidateEmail     string
	Position           string
	Relationship       string
	LinkedInURL        string
	PortfolioURL       string
	EndorsementText    string
	WhyFit             string
	CultureAlignment   string
	ThumbnailURL       string
	Resume             *FileUpload
	Video              *FileUpload
}

// Validate checks the submission's invariants: required identity fields,
// syntactically valid email addresses, and a known relationship value.
func (s Submission) Validate() error {
	required := map[string]string{
		"referrerName":       s.ReferrerName,
		"recipientFirstName": s.RecipientFirstName,
		"candidateName":      s.CandidateName,
		"position":           s.Position,
	}
	for field, value := range required {
		if strings.TrimSpace(value) == "" {
			return fmt.Errorf("%w: %s is required", ErrInvalidSubmission, field)
		}
	}

	for field, value := range map[string]string{
		"referrerEmail":  s.ReferrerEmail,
		"recipientEmail": s.RecipientEmail,
		"candidateEmail": s.CandidateEmail,
	} {
		if _, err := mail.ParseAddress(value); err != nil {
			return fmt.Errorf("%w: %s is not a valid email address", ErrInvalidSubmission, field)
		}
	}

	if !models.ValidRelationship(s.Relationship) {
		return fmt.Errorf("%w: unknown relationship %q", ErrInvalidSubmission, s.Relationship)
	}

	return nil
}

// ObjectStore is the storage collaborator the flow uploads files through.
type ObjectStore interface {
	Upload(ctx context.Context, bucket, key, contentType string, r io.Reader) (string, error)
}

// ReferralStore is the table collaborator the flow inserts the record through.
type ReferralStore interface {
	Create(ctx context.Context, referral models.Referral) (models.Referral, error)
}

// Flow sequences a submission's side effects in strict order: upload the
// resume, upload the video, then insert the record. A failed step aborts the
// flow, so an inserted record only ever references objects that exist in
// storage. Uploaded objects are not deleted when a later step fails.
type Flow struct {
	objects      ObjectStore
	records      ReferralStore
	resumeBucket string
	videoBucket  string
}

// NewFlow constructs a submission flow over the given collaborators.
func NewFlow(objects ObjectStore, records ReferralStore, cfg config.ObjectStoreConfig) *Flow {
	return &Flow{
		objects:      objects,
		records:      records,
		resumeBucket: cfg.ResumeBucket,
		videoBucket:  cfg.VideoBucket,
	}
}

// Submit runs the flow and returns the inserted record.
func (f *Flow) Submit(ctx context.Context, sub Submission) (models.Referral, error) {
	if err := sub.Validate(); err != nil {
		return models.Referral{}, err
	}

	ctx, span := logging.StartSpan(ctx, "referral.submit")
	defer span.End()
	logger := logging.FromContext(ctx)

	referral := models.Referral{
		ID:                 uuid.NewString(),
		ReferrerName:       sub.ReferrerName,
		ReferrerEmail:      sub.ReferrerEmail,
		RecipientFirstName: sub.RecipientFirstName,
		RecipientLastName:  sub.RecipientLastName,
		RecipientEmail:     sub.RecipientEmail,
		CandidateName:      sub.CandidateName,
		CandidateEmail:     sub.CandidateEmail,
		Position:           sub.Position,
		Relationship:       sub.Relationship,
		LinkedInURL:        sub.LinkedInURL,
		PortfolioURL:       sub.PortfolioURL,
		EndorsementText:    sub.EndorsementText,
		WhyFit:             sub.WhyFit,
		CultureAlignment:   sub.CultureAlignment,
		Status:             models.StatusPending,
	}
	if sub.ThumbnailURL != "" {
		referral.ThumbnailURL = &sub.ThumbnailURL
	}

	if sub.Resume != nil {
		path, err := f.uploadStep(ctx, "referral.upload_resume", f.resumeBucket, sub.Resume)
		if err != nil {
			return models.Referral{}, fmt.Errorf("upload resume: %w", err)
		}
		referral.ResumeFilePath = &path
	}

	if sub.Video != nil {
		path, err := f.uploadStep(ctx, "referral.upload_video", f.videoBucket, sub.Video)
		if err != nil {
			return models.Referral{}, fmt.Errorf("upload video: %w", err)
		}
		referral.VideoFilePath = &path
	}

	inserted, err := f.records.Create(ctx, referral)
	if err != nil {
		return models.Referral{}, fmt.Errorf("insert referral: %w", err)
	}

	logger.Info("referral submitted",
		slog.String("referral_id", inserted.ID),
		slog.Bool("has_resume", inserted.ResumeFilePath != nil),
		slog.Bool("has_video", inserted.VideoFilePath != nil),
	)

	return inserted, nil
}

func (f *Flow) uploadStep(ctx context.Context, name, bucket string, file *FileUpload) (string, error) {
	ctx, span := logging.StartSpan(ctx, name)
	defer span.End()

	key := storage.ObjectKey(storage.ExtensionOf(file.Filename))
	return f.objects.Upload(ctx, bucket, key, file.ContentType, file.Content)
}
