package email

import (
	"context"
	"errors"
	"fmt"
)

// ErrSendFailed indicates the email collaborator could not dispatch the message.
var ErrSendFailed = errors.New("email dispatch failed")

// SendRequest carries everything the dispatch collaborator needs. HTMLContent
// must be the outbound variant: the document is read in a mail client with
// no routing context.
type SendRequest struct {
	ReferralID     string `json:"referralId"`
	RecipientEmail string `json:"recipientEmail"`
	RecipientName  string `json:"recipientName,omitempty"`
	HTMLContent    string `json:"htmlContent"`
	Subject        string `json:"subject"`
}

// Sender dispatches a rendered referral email and returns the provider's
// message id. A successful send is responsible for the referral's
// pending->sent transition; a failed send leaves the status untouched so the
// user can retry manually.
type Sender interface {
	Send(ctx context.Context, req SendRequest) (messageID string, err error)
}

// Subject builds the conventional subject line for a referral email.
func Subject(referrerName string) string {
	return fmt.Sprintf("You have a Referral from %s", referrerName)
}
