/*
 * Copyright 2025 BranchFleet Networks, Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package dashboard provides the REST client for the managed-network
// control plane.
package dashboard

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/branchfleet/netrefresh/pkg/logger"
	"github.com/branchfleet/netrefresh/pkg/models"
)

const (
	defaultTimeout    = 30 * time.Second
	defaultAPIKeyEnv  = "NETREFRESH_API_KEY"
	defaultRetryAfter = 2 * time.Second
	maxRetryAfter     = 30 * time.Second
)

// Config holds the control-plane connection settings. The API key itself
// never appears here; APIKeyEnv names the environment variable that
// carries it.
type Config struct {
	Endpoint  string          `json:"endpoint"`
	OrgID     string          `json:"org_id"`
	APIKeyEnv string          `json:"api_key_env,omitempty"`
	Timeout   models.Duration `json:"timeout,omitempty"`

	// AuthHeader overrides bearer auth with a raw key header, for
	// control planes that still use vendor-specific key headers.
	AuthHeader string `json:"auth_header,omitempty"`
}

// Validate implements config.Validator.
func (c *Config) Validate() error {
	if c.Endpoint == "" {
		return errEndpointRequired
	}

	if c.OrgID == "" {
		return errOrgIDRequired
	}

	if c.APIKeyEnv == "" {
		c.APIKeyEnv = defaultAPIKeyEnv
	}

	if c.Timeout == 0 {
		c.Timeout = models.Duration(defaultTimeout)
	}

	return nil
}

// Client is the REST implementation of ControlPlane.
type Client struct {
	Config     *Config
	HTTPClient HTTPClient
	Logger     logger.Logger

	apiKey string
}

var _ ControlPlane = (*Client)(nil)

// NewClient creates a control-plane client. The API key is passed
// explicitly so callers decide how it is sourced.
func NewClient(config *Config, apiKey string, log logger.Logger) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	if apiKey == "" {
		return nil, errAPIKeyRequired
	}

	return &Client{
		Config:     config,
		HTTPClient: &http.Client{Timeout: config.Timeout.AsDuration()},
		Logger:     log,
		apiKey:     apiKey,
	}, nil
}

// do issues one JSON request against the control plane, retrying once on
// a 429 with the server's Retry-After honored. out may be nil for calls
// whose response body is irrelevant.
func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	resp, err := c.send(ctx, method, path, body)
	if err != nil {
		return err
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		wait := retryAfter(resp)
		drainAndClose(resp)

		c.Logger.Warn().
			Str("path", path).
			Dur("retry_after", wait).
			Msg("Control plane rate limited request, retrying once")

		select {
		case <-time.After(wait):
		case <-ctx.Done():
			return ctx.Err()
		}

		resp, err = c.send(ctx, method, path, body)
		if err != nil {
			return err
		}
	}

	defer drainAndClose(resp)

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: %s %s", ErrNotFound, method, path)
	case resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices:
		bodyBytes, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%w: %d, response: %s", errUnexpectedStatusCode, resp.StatusCode, string(bodyBytes))
	}

	if out == nil {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response from %s: %w", path, err)
	}

	return nil
}

func (c *Client) send(ctx context.Context, method, path string, body interface{}) (*http.Response, error) {
	var reader io.Reader = http.NoBody

	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}

		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.Config.Endpoint+path, reader)
	if err != nil {
		return nil, err
	}

	if c.Config.AuthHeader != "" {
		req.Header.Set(c.Config.AuthHeader, c.apiKey)
	} else {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	req.Header.Set("Accept", "application/json")

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.HTTPClient.Do(req)
}

func retryAfter(resp *http.Response) time.Duration {
	header := resp.Header.Get("Retry-After")
	if header == "" {
		return defaultRetryAfter
	}

	seconds, err := strconv.Atoi(header)
	if err != nil || seconds < 0 {
		return defaultRetryAfter
	}

	wait := time.Duration(seconds) * time.Second
	if wait > maxRetryAfter {
		wait = maxRetryAfter
	}

	return wait
}

func drainAndClose(resp *http.Response) {
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
}
