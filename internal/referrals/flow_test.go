package referrals

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/referiq/backend/internal/config"
	"github.com/referiq/backend/internal/models"
)

type uploadCall struct {
	bucket      string
	key         string
	contentType string
	body        string
}

type fakeObjectStore struct {
	calls   []uploadCall
	failOn  string
	failErr error
}

func (f *fakeObjectStore) Upload(_ context.Context, bucket, key, contentType string, r io.Reader) (string, error) {
	if f.failOn != "" && bucket == f.failOn {
		return "", f.failErr
	}
	body, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	f.calls = append(f.calls, uploadCall{bucket: bucket, key: key, contentType: contentType, body: string(body)})
	return key, nil
}

type fakeReferralStore struct {
	created []models.Referral
	err     error
}

func (f *fakeReferralStore) Create(_ context.Context, referral models.Referral) (models.Referral, error) {
	if f.err != nil {
		return models.Referral{}, f.err
	}
	f.created = append(f.created, referral)
	return referral, nil
}

func storeConfig() config.ObjectStoreConfig {
	return config.ObjectStoreConfig{ResumeBucket: "resume", VideoBucket: "video"}
}

func validSubmission() Submission {
	return Submission{
		ReferrerName:       "Sam Referrer",
		ReferrerEmail:      "sam@example.com",
		RecipientFirstName: "Robin",
		RecipientLastName:  "Recruiter",
		RecipientEmail:     "robin@example.com",
		CandidateName:      "Jane Doe",
		CandidateEmail:     "jane@example.com",
		Position:           "Backend Engineer",
		Relationship:       models.RelationshipFriend,
	}
}

func TestSubmitWithoutFiles(t *testing.T) {
	objects := &fakeObjectStore{}
	records := &fakeReferralStore{}
	flow := NewFlow(objects, records, storeConfig())

	inserted, err := flow.Submit(context.Background(), validSubmission())
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	if inserted.ID == "" {
		t.Fatal("expected a generated id")
	}
	if inserted.ResumeFilePath != nil || inserted.VideoFilePath != nil {
		t.Fatalf("expected nil file paths, got %+v", inserted)
	}
	if inserted.Status != models.StatusPending {
		t.Fatalf("expected pending status, got %q", inserted.Status)
	}
	if len(objects.calls) != 0 {
		t.Fatalf("expected no uploads, got %d", len(objects.calls))
	}
	if len(records.created) != 1 {
		t.Fatalf("expected one insert, got %d", len(records.created))
	}
}

func TestSubmitUploadsInOrder(t *testing.T) {
	objects := &fakeObjectStore{}
	records := &fakeReferralStore{}
	flow := NewFlow(objects, records, storeConfig())

	sub := validSubmission()
	sub.Resume = &FileUpload{Filename: "cv.pdf", ContentType: "application/pdf", Content: strings.NewReader("resume-bytes")}
	sub.Video = &FileUpload{Filename: "endorsement.webm", ContentType: "video/webm", Content: strings.NewReader("video-bytes")}
	sub.ThumbnailURL = "https://cdn.example.com/email-assets/thumbnails/t.jpg"

	inserted, err := flow.Submit(context.Background(), sub)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	if len(objects.calls) != 2 {
		t.Fatalf("expected two uploads, got %d", len(objects.calls))
	}
	if objects.calls[0].bucket != "resume" || objects.calls[1].bucket != "video" {
		t.Fatalf("uploads out of order: %+v", objects.calls)
	}
	if !strings.HasSuffix(objects.calls[0].key, ".pdf") {
		t.Fatalf("resume key missing extension: %q", objects.calls[0].key)
	}
	if !strings.HasSuffix(objects.calls[1].key, ".webm") {
		t.Fatalf("video key missing extension: %q", objects.calls[1].key)
	}
	if objects.calls[0].body != "resume-bytes" || objects.calls[1].body != "video-bytes" {
		t.Fatalf("unexpected upload bodies: %+v", objects.calls)
	}

	if inserted.ResumeFilePath == nil || *inserted.ResumeFilePath != objects.calls[0].key {
		t.Fatalf("resume path not captured: %+v", inserted.ResumeFilePath)
	}
	if inserted.VideoFilePath == nil || *inserted.VideoFilePath != objects.calls[1].key {
		t.Fatalf("video path not captured: %+v", inserted.VideoFilePath)
	}
	if inserted.ThumbnailURL == nil || *inserted.ThumbnailURL != sub.ThumbnailURL {
		t.Fatalf("thumbnail url not captured: %+v", inserted.ThumbnailURL)
	}
}

func TestSubmitAbortsWhenVideoUploadFails(t *testing.T) {
	objects := &fakeObjectStore{failOn: "video", failErr: errors.New("bucket unavailable")}
	records := &fakeReferralStore{}
	flow := NewFlow(objects, records, storeConfig())

	sub := validSubmission()
	sub.Resume = &FileUpload{Filename: "cv.pdf", ContentType: "application/pdf", Content: strings.NewReader("resume-bytes")}
	sub.Video = &FileUpload{Filename: "endorsement.webm", ContentType: "video/webm", Content: strings.NewReader("video-bytes")}

	_, err := flow.Submit(context.Background(), sub)
	if err == nil {
		t.Fatal("expected upload failure to abort the flow")
	}
	if len(records.created) != 0 {
		t.Fatalf("expected zero inserts after failed upload, got %d", len(records.created))
	}
	// The resume upload already happened; the flow does not roll it back.
	if len(objects.calls) != 1 || objects.calls[0].bucket != "resume" {
		t.Fatalf("expected only the resume upload, got %+v", objects.calls)
	}
}

func TestSubmitAbortsWhenResumeUploadFails(t *testing.T) {
	objects := &fakeObjectStore{failOn: "resume", failErr: errors.New("bucket unavailable")}
	records := &fakeReferralStore{}
	flow := NewFlow(objects, records, storeConfig())

	sub := validSubmission()
	sub.Resume = &FileUpload{Filename: "cv.pdf", ContentType: "application/pdf", Content: strings.NewReader("resume-bytes")}

	if _, err := flow.Submit(context.Background(), sub); err == nil {
		t.Fatal("expected upload failure to abort the flow")
	}
	if len(records.created) != 0 {
		t.Fatalf("expected zero inserts, got %d", len(records.created))
	}
}

func TestSubmitSurfacesInsertFailure(t *testing.T) {
	objects := &fakeObjectStore{}
	records := &fakeReferralStore{err: errors.New("connection reset")}
	flow := NewFlow(objects, records, storeConfig())

	if _, err := flow.Submit(context.Background(), validSubmission()); err == nil {
		t.Fatal("expected insert failure to surface")
	}
}

func TestValidate(t *testing.T) {
	cases := map[string]func(*Submission){
		"missing referrer name":  func(s *Submission) { s.ReferrerName = " " },
		"missing recipient name": func(s *Submission) { s.RecipientFirstName = "" },
		"missing candidate name": func(s *Submission) { s.CandidateName = "" },
		"missing position":       func(s *Submission) { s.Position = "" },
		"bad referrer email":     func(s *Submission) { s.ReferrerEmail = "not-an-email" },
		"bad recipient email":    func(s *Submission) { s.RecipientEmail = "robin@" },
		"bad candidate email":    func(s *Submission) { s.CandidateEmail = "" },
		"unknown relationship":   func(s *Submission) { s.Relationship = "mentor" },
	}

	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			sub := validSubmission()
			mutate(&sub)
			err := sub.Validate()
			if !errors.Is(err, ErrInvalidSubmission) {
				t.Fatalf("expected ErrInvalidSubmission, got %v", err)
			}
		})
	}

	if err := validSubmission().Validate(); err != nil {
		t.Fatalf("valid submission rejected: %v", err)
	}

	// Validation runs before any side effect.
	objects := &fakeObjectStore{}
	records := &fakeReferralStore{}
	flow := NewFlow(objects, records, storeConfig())

	sub := validSubmission()
	sub.Relationship = "mentor"
	sub.Resume = &FileUpload{Filename: "cv.pdf", Content: strings.NewReader("resume-bytes")}

	if _, err := flow.Submit(context.Background(), sub); !errors.Is(err, ErrInvalidSubmission) {
		t.Fatalf("expected ErrInvalidSubmission, got %v", err)
	}
	if len(objects.calls) != 0 || len(records.created) != 0 {
		t.Fatal("validation failure must not trigger side effects")
	}
}
