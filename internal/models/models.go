package models

import "time"

// Relationship values describe how the referrer knows the candidate.
const (
	RelationshipFriend          = "friend"
	RelationshipFormerColleague = "former-colleague"
	RelationshipFamily          = "family"
	RelationshipClassmate       = "classmate"
	RelationshipOther           = "other"
)

var relationshipLabels = map[string]string{
	RelationshipFriend:          "Friend",
	RelationshipFormerColleague: "Former Colleague",
	RelationshipFamily:          "Family",
	RelationshipClassmate:       "Classmate",
	RelationshipOther:           "Other",
}

// ValidRelationship reports whether the value is one of the known relationship kinds.
func ValidRelationship(value string) bool {
	_, ok := relationshipLabels[value]
	return ok
}

// RelationshipLabel returns the display label for a relationship value.
// Unknown values are returned unchanged.
func RelationshipLabel(value string) string {
	if label, ok := relationshipLabels[value]; ok {
		return label
	}
	return value
}

const (
	StatusPending = "pending"
	StatusSent    = "sent"
	StatusFailed  = "failed"
)

// Referral is the durable record produced by a submission. Resume and video
// paths are object-storage keys and are populated only after the
// corresponding upload completed.
type Referral struct {
	ID                 string
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
	ResumeFilePath     *string
	VideoFilePath      *string
	ThumbnailURL       *string
	Status             string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// RecipientName joins the recipient's first and last names for display.
func (r Referral) RecipientName() string {
	switch {
	case r.RecipientFirstName == "":
		return r.RecipientLastName
	case r.RecipientLastName == "":
		return r.RecipientFirstName
	default:
		return r.RecipientFirstName + " " + r.RecipientLastName
	}
}

// AIInsights carries the analysis scores rendered into the email template.
// The scores are produced by an external analysis step; this service only
// displays the values it is given.
type AIInsights struct {
	RoleFit      int
	CulturalFit  int
	Authenticity int
	Summary      string
}
