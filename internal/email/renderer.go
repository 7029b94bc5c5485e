package email

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"github.com/referiq/backend/internal/models"
)

// Variant selects how the rendered document's call-to-action links are
// rooted. The choice is always explicit: outbound HTML is read in mail
// clients with no routing context and needs fully-qualified URLs, while the
// in-app preview routes relative to the application.
type Variant string

const (
	VariantInteractive Variant = "interactive"
	VariantOutbound    Variant = "outbound"
)

// TemplateInput is the read-only projection of a referral used to
// parameterize rendering. Insights are required; defaults come from the
// caller, never from the renderer.
type TemplateInput struct {
	ReferralID        string
	ReferrerName      string
	CandidateName     string
	Position          string
	Relationship      string
	RecipientName     string
	VideoThumbnailURL string
	HasVideo          bool
	HasResume         bool
	LinkedInURL       string
	PortfolioURL      string
	EndorsementText   string
	Insights          models.AIInsights
}

// NewTemplateInput projects a referral record into renderer input.
// videoThumbnailURL may be empty even when a video exists; the video block
// then renders with a plain play placeholder.
func NewTemplateInput(ref models.Referral, insights models.AIInsights) TemplateInput {
	recipient := ref.RecipientName()
	if recipient == "" {
		recipient = "there"
	}

	thumbnailURL := ""
	if ref.ThumbnailURL != nil {
		thumbnailURL = *ref.ThumbnailURL
	}

	return TemplateInput{
		ReferralID:        ref.ID,
		ReferrerName:      ref.ReferrerName,
		CandidateName:     ref.CandidateName,
		Position:          ref.Position,
		Relationship:      models.RelationshipLabel(ref.Relationship),
		RecipientName:     recipient,
		VideoThumbnailURL: thumbnailURL,
		HasVideo:          ref.VideoFilePath != nil,
		HasResume:         ref.ResumeFilePath != nil,
		LinkedInURL:       ref.LinkedInURL,
		PortfolioURL:      ref.PortfolioURL,
		EndorsementText:   ref.EndorsementText,
		Insights:          insights,
	}
}

// templateData is the fully-resolved payload handed to the HTML template.
type templateData struct {
	TemplateInput
	Initials   string
	LandingURL string
}

// Renderer deterministically produces self-contained, email-client-safe HTML
// from referral data. All styling is inlined; no scripts, no external CSS.
type Renderer struct {
	baseURL string
	tmpl    *template.Template
}

// NewRenderer parses the built-in template. baseURL roots outbound links and
// must not end with a slash.
func NewRenderer(baseURL string) (*Renderer, error) {
	tmpl, err := template.New("referral").Parse(referralTemplate)
	if err != nil {
		return nil, fmt.Errorf("parse referral template: %w", err)
	}
	return &Renderer{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		tmpl:    tmpl,
	}, nil
}

// Render produces the HTML document for the given input and link variant.
// Identical input always yields identical output.
func (r *Renderer) Render(input TemplateInput, variant Variant) (string, error) {
	landing := "/referral/" + input.ReferralID
	if variant == VariantOutbound {
		landing = r.baseURL + landing
	}

	data := templateData{
		TemplateInput: input,
		Initials:      Initials(input.CandidateName),
		LandingURL:    landing,
	}

	var buf bytes.Buffer
	if err := r.tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render referral email: %w", err)
	}

	return buf.String(), nil
}

// Initials derives the candidate's display initials: the uppercased first
// character of each whitespace-separated name token. An empty name yields an
// empty string.
func Initials(name string) string {
	var b strings.Builder
	for _, token := range strings.Fields(name) {
		runes := []rune(token)
		b.WriteString(strings.ToUpper(string(runes[0])))
	}
	return b.String()
}
