// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package identity talks to the external identity gateway. The gateway
// owns the whole sign-in flow (provider popups, credentials, second
// factors); this service only exchanges the token the SPA obtained for
// the authenticated user's identity.
package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ErrInvalidToken is returned when the gateway rejects the token
// (expired, malformed, or revoked).
var ErrInvalidToken = errors.New("identity: invalid token")

// Identity is the authenticated user as reported by the gateway.
type Identity struct {
	UID         string `json:"uid"`
	Email       string `json:"email"`
	DisplayName string `json:"name"`
	AvatarURL   string `json:"picture"`
}

// Verifier exchanges a gateway-issued token for the user's identity.
type Verifier interface {
	Verify(ctx context.Context, token string) (*Identity, error)
}

// Client is the HTTP implementation of Verifier against the gateway's
// token verification endpoint (POST /v1/tokens:verify).
type Client struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// New creates a gateway client. baseURL has no trailing slash.
func New(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

type verifyRequest struct {
	Token string `json:"token"`
}

// Verify posts the token to the gateway and returns the identity bound
// to it. A 401/403 from the gateway maps to ErrInvalidToken; anything
// else non-200 is a transport-level failure.
func (c *Client) Verify(ctx context.Context, token string) (*Identity, error) {
	if token == "" {
		return nil, ErrInvalidToken
	}

	payload, err := json.Marshal(verifyRequest{Token: token})
	if err != nil {
		return nil, fmt.Errorf("identity marshal: %w", err)
	}

	url := c.baseURL + "/v1/tokens:verify"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("identity request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("identity http: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("identity read body: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, ErrInvalidToken
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("identity gateway error (status %d): %s", resp.StatusCode, string(body))
	}

	var id Identity
	if err := json.Unmarshal(body, &id); err != nil {
		return nil, fmt.Errorf("identity unmarshal: %w", err)
	}

	if id.UID == "" {
		return nil, fmt.Errorf("identity gateway returned no uid")
	}

	return &id, nil
}
