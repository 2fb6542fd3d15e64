// Package gateway is the HTTP client for the remote prize authority. It is
// the only producer of participant identifiers and authoritative spin
// outcomes; nothing in this repo ever substitutes a locally generated
// result for what it returns.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"prizewheel/internal/models"
)

// DefaultTimeout bounds every gateway call.
const DefaultTimeout = 10 * time.Second

// ErrAlreadySpun is returned by Spin when the authority reports the
// participant has already used their one spin. Callers treat it as
// reconciliation, not failure.
var ErrAlreadySpun = errors.New("participant has already spun")

// APIError is a non-conflict error envelope returned by the authority.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("authority returned status %d", e.Status)
}

// Client talks to the remote authority over HTTP.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a gateway client for the given API base URL. A zero
// timeout falls back to DefaultTimeout.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// Register submits participant identity and returns the stable participant
// identifier together with the authoritative prior-spin status.
func (c *Client) Register(ctx context.Context, form models.RegistrationForm) (*models.RegistrationResponse, error) {
	var resp models.RegistrationResponse
	if err := c.post(ctx, "/users/register", form, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Spin requests the one authoritative outcome for a participant. A 409 with
// code ALREADY_SPUN maps to ErrAlreadySpun.
func (c *Client) Spin(ctx context.Context, participantID string) (*models.SpinResult, error) {
	var resp models.SpinResponse
	if err := c.post(ctx, "/spin", models.SpinRequest{ParticipantID: participantID}, &resp); err != nil {
		return nil, err
	}
	return &resp.Result, nil
}

// WheelConfig fetches the ordered segment layout.
func (c *Client) WheelConfig(ctx context.Context) ([]models.WheelSegment, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/wheel", nil)
	if err != nil {
		return nil, err
	}
	var config models.WheelConfig
	if err := c.do(req, &config); err != nil {
		return nil, err
	}
	if len(config.Segments) == 0 {
		return nil, fmt.Errorf("wheel configuration has no segments")
	}
	return config.Segments, nil
}

func (c *Client) post(ctx context.Context, endpoint string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+endpoint, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("network error: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return decodeError(resp.StatusCode, data)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// decodeError maps an error response body to ErrAlreadySpun or APIError.
// Bodies that are not a valid envelope still produce a usable APIError.
func decodeError(status int, data []byte) error {
	var envelope models.ErrorEnvelope
	_ = json.Unmarshal(data, &envelope)
	if status == http.StatusConflict && envelope.Error == models.CodeAlreadySpun {
		if envelope.Message == "" {
			return ErrAlreadySpun
		}
		return fmt.Errorf("%s: %w", envelope.Message, ErrAlreadySpun)
	}
	return &APIError{Status: status, Code: envelope.Error, Message: envelope.Message}
}
