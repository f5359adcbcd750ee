package linex

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultVerifyURL is LINE Login's ID token verification endpoint.
const DefaultVerifyURL = "https://api.line.me/oauth2/v2.1/verify"

// DefaultTimeout bounds a single verification round trip.
const DefaultTimeout = 10 * time.Second

// maxErrorBody caps how much of a rejection body is kept on VerificationError.
const maxErrorBody = 4 << 10

// maxProfileBody caps a successful verify response.
const maxProfileBody = 64 << 10

var (
	// ErrConfiguration means the verifier has no channel id and cannot call LINE.
	ErrConfiguration = errors.New("linex: channel id is not configured")

	// ErrMissingToken is returned for an empty ID token.
	ErrMissingToken = errors.New("linex: id token is required")
)

// VerificationError is returned when LINE rejects the token or cannot be
// reached. Status is zero for transport failures.
type VerificationError struct {
	Status int
	Body   string
	Err    error
}

func (e *VerificationError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("linex: verify request failed: %v", e.Err)
	}
	return fmt.Sprintf("linex: verify rejected with status %d: %s", e.Status, e.Body)
}

func (e *VerificationError) Unwrap() error { return e.Err }

// Verifier verifies LINE ID tokens against the LINE verify endpoint. No
// retries are attempted.
type Verifier struct {
	ChannelID  string
	Endpoint   string
	HTTPClient *http.Client
}

// NewVerifier returns a Verifier for channelID with the default endpoint and
// the given timeout (DefaultTimeout when zero).
func NewVerifier(channelID string, timeout time.Duration) *Verifier {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Verifier{
		ChannelID:  channelID,
		Endpoint:   DefaultVerifyURL,
		HTTPClient: &http.Client{Timeout: timeout},
	}
}

// Verify posts idToken to LINE and returns the verified profile.
func (v *Verifier) Verify(ctx context.Context, idToken string) (Profile, error) {
	if v.ChannelID == "" {
		return Profile{}, ErrConfiguration
	}
	if strings.TrimSpace(idToken) == "" {
		return Profile{}, ErrMissingToken
	}

	form := url.Values{}
	form.Set("id_token", idToken)
	form.Set("client_id", v.ChannelID)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.endpoint(), strings.NewReader(form.Encode()))
	if err != nil {
		return Profile{}, fmt.Errorf("linex: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := v.client().Do(req)
	if err != nil {
		return Profile{}, &VerificationError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return Profile{}, &VerificationError{Status: resp.StatusCode, Body: string(body)}
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxProfileBody+1))
	if err != nil {
		return Profile{}, &VerificationError{Status: resp.StatusCode, Err: err}
	}
	if len(raw) > maxProfileBody {
		return Profile{}, &VerificationError{
			Status: resp.StatusCode,
			Body:   truncate(raw),
			Err:    fmt.Errorf("verify response exceeds %d bytes", maxProfileBody),
		}
	}

	var p Profile
	if err := json.Unmarshal(raw, &p); err != nil {
		return Profile{}, &VerificationError{Status: resp.StatusCode, Body: truncate(raw), Err: err}
	}
	if p.Subject == "" {
		return Profile{}, &VerificationError{
			Status: resp.StatusCode,
			Body:   truncate(raw),
			Err:    errors.New("verified token has no subject"),
		}
	}
	p.Raw = json.RawMessage(raw)

	return p, nil
}

func (v *Verifier) endpoint() string {
	if v.Endpoint == "" {
		return DefaultVerifyURL
	}
	return v.Endpoint
}

func (v *Verifier) client() *http.Client {
	if v.HTTPClient == nil {
		return &http.Client{Timeout: DefaultTimeout}
	}
	return v.HTTPClient
}

func truncate(b []byte) string {
	if len(b) > maxErrorBody {
		b = b[:maxErrorBody]
	}
	return string(b)
}

// ChannelIDFromEnv resolves the LINE channel id: an explicit channel id
// wins, otherwise the prefix of a LIFF id ("<channel>-<suffix>") is used.
func ChannelIDFromEnv(channelID, liffID string) string {
	if channelID = strings.TrimSpace(channelID); channelID != "" {
		return channelID
	}
	prefix, _, _ := strings.Cut(strings.TrimSpace(liffID), "-")
	return prefix
}
