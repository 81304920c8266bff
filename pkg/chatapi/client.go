// WaGate - WhatsApp webhook relay gateway
// License: MIT
//
// Copyright (c) 2026 WaGate contributors

// Package chatapi is the client for the internal chat backend that computes
// replies to user messages.
package chatapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/relaykit/wagate/pkg/logger"
)

const requestTimeout = 20 * time.Second

type Client struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewClient creates a chat backend client. apiKey may be empty, in which case
// no x-api-key header is sent.
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: requestTimeout},
	}
}

type chatRequest struct {
	UserID  string `json:"user_id"`
	Message string `json:"message"`
}

type chatResponse struct {
	Reply string `json:"reply"`
}

// Reply forwards a user message to the chat backend and returns the reply
// text. A transport error or non-2xx status is an upstream failure. A valid
// response without a reply field returns the empty string; the caller decides
// the fallback text.
func (c *Client) Reply(ctx context.Context, userID, message string) (string, error) {
	body, err := json.Marshal(chatRequest{UserID: userID, Message: message})
	if err != nil {
		return "", fmt.Errorf("failed to marshal chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("x-api-key", c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("chat API request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("chat API error (status %d): %s", resp.StatusCode, string(respBody))
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		// A 2xx with an unexpected body still counts as answered; the
		// relay substitutes its fallback text for the missing reply.
		logger.WarnCF("chatapi", "Failed to decode chat API response", map[string]interface{}{
			"error": err.Error(),
		})
		return "", nil
	}

	return parsed.Reply, nil
}
