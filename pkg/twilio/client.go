// WaGate - WhatsApp webhook relay gateway
// License: MIT
//
// Copyright (c) 2026 WaGate contributors

// Package twilio sends outbound WhatsApp messages through the Twilio
// Messages API.
package twilio

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	twilioAPIBase  = "https://api.twilio.com"
	requestTimeout = 10 * time.Second
)

type Client struct {
	accountSID string
	authToken  string
	from       string
	baseURL    string
	client     *http.Client
}

// NewClient creates a Twilio Messages API client. from is the configured
// WhatsApp sender address, e.g. "whatsapp:+14155238886".
func NewClient(accountSID, authToken, from string) *Client {
	return NewClientWithBaseURL(accountSID, authToken, from, twilioAPIBase)
}

// NewClientWithBaseURL is NewClient with an overridable API host, for tests.
func NewClientWithBaseURL(accountSID, authToken, from, baseURL string) *Client {
	return &Client{
		accountSID: accountSID,
		authToken:  authToken,
		from:       from,
		baseURL:    strings.TrimRight(baseURL, "/"),
		client:     &http.Client{Timeout: requestTimeout},
	}
}

// SendMessage delivers body to the given destination address. to keeps its
// channel prefix ("whatsapp:+...") as Twilio expects.
func (c *Client) SendMessage(ctx context.Context, to, body string) error {
	form := url.Values{}
	form.Set("From", c.from)
	form.Set("To", to)
	form.Set("Body", body)

	endpoint := fmt.Sprintf("%s/2010-04-01/Accounts/%s/Messages.json", c.baseURL, c.accountSID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(c.accountSID, c.authToken)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("twilio request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("twilio API error (status %d): %s", resp.StatusCode, string(respBody))
	}

	return nil
}
