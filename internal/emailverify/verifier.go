// Package emailverify checks that a signup email is real before an OTP is
// sent to it.
package emailverify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/mail"
	"net/url"
	"time"
)

type Verifier interface {
	Verify(ctx context.Context, email string) (bool, error)
}

// HTTPVerifier asks an external validation API (deliverability lookup).
// The API contract: GET {base}?email=...&api_key=... -> {"deliverable": bool}.
type HTTPVerifier struct {
	base   string
	apiKey string
	client *http.Client
}

func NewHTTP(base, apiKey string) *HTTPVerifier {
	return &HTTPVerifier{base: base, apiKey: apiKey, client: &http.Client{Timeout: 10 * time.Second}}
}

func (v *HTTPVerifier) Verify(ctx context.Context, email string) (bool, error) {
	q := url.Values{}
	q.Set("email", email)
	q.Set("api_key", v.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, v.base+"?"+q.Encode(), nil)
	if err != nil {
		return false, err
	}
	resp, err := v.client.Do(req)
	if err != nil {
		return false, fmt.Errorf("email verification request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("email verification: unexpected status %d", resp.StatusCode)
	}
	var out struct {
		Deliverable bool `json:"deliverable"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return false, fmt.Errorf("email verification: decode response: %w", err)
	}
	return out.Deliverable, nil
}

// SyntaxVerifier only checks the address parses. Used when no validation API
// is configured.
type SyntaxVerifier struct{}

func NewSyntax() *SyntaxVerifier { return &SyntaxVerifier{} }

func (SyntaxVerifier) Verify(ctx context.Context, email string) (bool, error) {
	_, err := mail.ParseAddress(email)
	return err == nil, nil
}
