package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/referiq/backend/internal/config"
	"github.com/referiq/backend/internal/models"
	"github.com/referiq/backend/internal/referrals"
	"github.com/referiq/backend/internal/repositories"
)

type fakeFlow struct {
	received referrals.Submission
	resume   string
	video    string
	result   models.Referral
	err      error
}

func (f *fakeFlow) Submit(_ context.Context, sub referrals.Submission) (models.Referral, error) {
	f.received = sub
	if sub.Resume != nil {
		body, _ := io.ReadAll(sub.Resume.Content)
		f.resume = string(body)
	}
	if sub.Video != nil {
		body, _ := io.ReadAll(sub.Video.Content)
		f.video = string(body)
	}
	if f.err != nil {
		return models.Referral{}, f.err
	}
	return f.result, nil
}

type fakeReferralStore struct {
	byID map[string]models.Referral
	list []models.Referral
	err  error
}

func (f *fakeReferralStore) GetByID(_ context.Context, id string) (models.Referral, error) {
	if f.err != nil {
		return models.Referral{}, f.err
	}
	ref, ok := f.byID[id]
	if !ok {
		return models.Referral{}, repositories.ErrNotFound
	}
	return ref, nil
}

func (f *fakeReferralStore) List(context.Context) ([]models.Referral, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.list, nil
}

type fakeResolver struct{}

func (fakeResolver) PublicURL(bucket, key string) string {
	return fmt.Sprintf("https://cdn.example.com/%s/%s", bucket, key)
}

type denyAllLimiter struct{}

func (denyAllLimiter) Allow(string) bool { return false }

func buckets() config.ObjectStoreConfig {
	return config.ObjectStoreConfig{ResumeBucket: "resume", VideoBucket: "video", AssetsBucket: "email-assets"}
}

func newMux(deps Dependencies) *http.ServeMux {
	mux := http.NewServeMux()
	RegisterRoutes(mux, deps)
	return mux
}

func sampleReferral() models.Referral {
	resume := "abc.pdf"
	return models.Referral{
		ID:                 "ref-1",
		ReferrerName:       "Sam Referrer",
		ReferrerEmail:      "sam@example.com",
		RecipientFirstName: "Robin",
		RecipientLastName:  "Recruiter",
		RecipientEmail:     "robin@example.com",
		CandidateName:      "Jane Doe",
		CandidateEmail:     "jane@example.com",
		Position:           "Backend Engineer",
		Relationship:       models.RelationshipFriend,
		ResumeFilePath:     &resume,
		Status:             models.StatusPending,
		CreatedAt:          time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		UpdatedAt:          time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

func multipartSubmission(t *testing.T, files map[string]string) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fields := map[string]string{
		"referrerName":       "Sam Referrer",
		"referrerEmail":      "sam@example.com",
		"recipientFirstName": "Robin",
		"recipientLastName":  "Recruiter",
		"recipientEmail":     "robin@example.com",
		"candidateName":      "Jane Doe",
		"candidateEmail":     "jane@example.com",
		"position":           "Backend Engineer",
		"relationship":       "friend",
		"endorsementText":    "Jane is great.",
	}
	for name, value := range fields {
		if err := w.WriteField(name, value); err != nil {
			t.Fatalf("write field %s: %v", name, err)
		}
	}
	for name, content := range files {
		part, err := w.CreateFormFile(name, name+".bin")
		if err != nil {
			t.Fatalf("create part %s: %v", name, err)
		}
		if _, err := part.Write([]byte(content)); err != nil {
			t.Fatalf("write part %s: %v", name, err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return &buf, w.FormDataContentType()
}

func TestCreateReferral(t *testing.T) {
	flow := &fakeFlow{result: sampleReferral()}
	mux := newMux(Dependencies{Flow: flow, Referrals: &fakeReferralStore{}, Objects: fakeResolver{}, Buckets: buckets()})

	body, contentType := multipartSubmission(t, map[string]string{"resume": "resume-bytes", "video": "video-bytes"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/referrals", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if flow.received.CandidateName != "Jane Doe" || flow.received.Relationship != "friend" {
		t.Fatalf("form fields not forwarded: %+v", flow.received)
	}
	if flow.resume != "resume-bytes" || flow.video != "video-bytes" {
		t.Fatalf("file parts not forwarded: resume=%q video=%q", flow.resume, flow.video)
	}

	var resp referralResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.ID != "ref-1" || resp.Status != models.StatusPending {
		t.Fatalf("unexpected response %+v", resp)
	}
	if resp.ResumeURL != "https://cdn.example.com/resume/abc.pdf" {
		t.Fatalf("expected resolved resume url, got %q", resp.ResumeURL)
	}
}

func TestCreateReferralWithoutFiles(t *testing.T) {
	flow := &fakeFlow{result: sampleReferral()}
	mux := newMux(Dependencies{Flow: flow, Referrals: &fakeReferralStore{}, Buckets: buckets()})

	body, contentType := multipartSubmission(t, nil)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/referrals", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if flow.received.Resume != nil || flow.received.Video != nil {
		t.Fatalf("expected nil uploads, got %+v", flow.received)
	}
}

func TestCreateReferralValidationFailure(t *testing.T) {
	flow := &fakeFlow{err: fmt.Errorf("%w: unknown relationship", referrals.ErrInvalidSubmission)}
	mux := newMux(Dependencies{Flow: flow, Referrals: &fakeReferralStore{}, Buckets: buckets()})

	body, contentType := multipartSubmission(t, nil)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/referrals", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestCreateReferralUpstreamFailure(t *testing.T) {
	flow := &fakeFlow{err: errors.New("upload video: bucket unavailable")}
	mux := newMux(Dependencies{Flow: flow, Referrals: &fakeReferralStore{}, Buckets: buckets()})

	body, contentType := multipartSubmission(t, nil)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/referrals", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", rec.Code)
	}
}

func TestCreateReferralRateLimited(t *testing.T) {
	mux := newMux(Dependencies{Flow: &fakeFlow{}, Referrals: &fakeReferralStore{}, Buckets: buckets(), SubmitLimiter: denyAllLimiter{}})

	body, contentType := multipartSubmission(t, nil)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/referrals", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", rec.Code)
	}
}

func TestListReferrals(t *testing.T) {
	store := &fakeReferralStore{list: []models.Referral{sampleReferral()}}
	mux := newMux(Dependencies{Flow: &fakeFlow{}, Referrals: store, Objects: fakeResolver{}, Buckets: buckets()})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/referrals", nil)
	rec := httptest.NewRecorder()

	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp struct {
		Referrals []referralResponse `json:"referrals"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Referrals) != 1 || resp.Referrals[0].ID != "ref-1" {
		t.Fatalf("unexpected listing %+v", resp)
	}
}

func TestGetReferral(t *testing.T) {
	store := &fakeReferralStore{byID: map[string]models.Referral{"ref-1": sampleReferral()}}
	mux := newMux(Dependencies{Flow: &fakeFlow{}, Referrals: store, Objects: fakeResolver{}, Buckets: buckets()})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/referrals/ref-1", nil)
	rec := httptest.NewRecorder()

	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/referrals/ref-404", nil)
	rec = httptest.NewRecorder()

	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestHealth(t *testing.T) {
	mux := newMux(Dependencies{Flow: &fakeFlow{}, Referrals: &fakeReferralStore{}, Buckets: buckets()})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()

	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}
