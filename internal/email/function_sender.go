package email

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// FunctionSender dispatches email through a remote send function. The
// function owns delivery and, on success, updates the referral's status out
// of band.
type FunctionSender struct {
	url    string
	client *http.Client
}

// NewFunctionSender constructs a sender posting to the given function URL.
func NewFunctionSender(url string) *FunctionSender {
	return &FunctionSender{
		url:    url,
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

type functionResponse struct {
	Success   bool   `json:"success"`
	MessageID string `json:"messageId"`
	Error     string `json:"error"`
}

// Send posts the request to the send function and returns its message id.
func (s *FunctionSender) Send(ctx context.Context, req SendRequest) (string, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("encode send request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build send request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrSendFailed, err)
	}
	defer resp.Body.Close()

	var fnResp functionResponse
	if err := json.NewDecoder(resp.Body).Decode(&fnResp); err != nil {
		return "", fmt.Errorf("%w: decode response: %v", ErrSendFailed, err)
	}

	if resp.StatusCode != http.StatusOK || !fnResp.Success {
		msg := fnResp.Error
		if msg == "" {
			msg = fmt.Sprintf("status %d", resp.StatusCode)
		}
		return "", fmt.Errorf("%w: %s", ErrSendFailed, msg)
	}

	return fnResp.MessageID, nil
}

var _ Sender = (*FunctionSender)(nil)
