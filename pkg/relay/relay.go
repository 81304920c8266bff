// WaGate - WhatsApp webhook relay gateway
// License: MIT
//
// Copyright (c) 2026 WaGate contributors

// Package relay implements the webhook handler bridging Twilio's WhatsApp
// webhook with the internal chat backend.
package relay

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/relaykit/wagate/pkg/logger"
	"github.com/relaykit/wagate/pkg/utils"
)

const (
	whatsappPrefix = "whatsapp:"
	fallbackReply  = "I'm not sure how to reply to that."
)

// Replier computes a reply to a user message. Implemented by chatapi.Client.
type Replier interface {
	Reply(ctx context.Context, userID, message string) (string, error)
}

// Sender delivers a message to a destination address. Implemented by
// twilio.Client.
type Sender interface {
	SendMessage(ctx context.Context, to, body string) error
}

// Relay is the webhook pipeline: parse, validate, ask the backend, deliver
// the reply. It holds no mutable state, so one instance serves all requests.
type Relay struct {
	chat   Replier
	sender Sender
}

func New(chat Replier, sender Sender) *Relay {
	return &Relay{chat: chat, sender: sender}
}

func writeJSON(w http.ResponseWriter, status int, body map[string]string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// HandleWebhook processes one inbound Twilio webhook request.
//
// The pipeline is strictly sequential: the chat backend is always called
// before Twilio, and a backend failure short-circuits to 502 without
// attempting delivery. A delivery failure is logged and swallowed; the
// webhook caller still receives 200.
func (rl *Relay) HandleWebhook(w http.ResponseWriter, r *http.Request) {
	requestID := uuid.NewString()

	defer func() {
		if rec := recover(); rec != nil {
			logger.ErrorCF("relay", "Unexpected error handling webhook", map[string]interface{}{
				"request_id": requestID,
				"panic":      rec,
			})
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
		}
	}()

	if err := r.ParseForm(); err != nil {
		logger.WarnCF("relay", "Failed to parse webhook form", map[string]interface{}{
			"request_id": requestID,
			"error":      err.Error(),
		})
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid payload"})
		return
	}

	from := strings.ReplaceAll(strings.TrimSpace(r.PostFormValue("From")), " ", "")
	body := r.PostFormValue("Body")

	if from == "" || body == "" {
		logger.WarnCF("relay", "Missing required fields in Twilio payload", map[string]interface{}{
			"request_id": requestID,
		})
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid payload"})
		return
	}

	// The backend identifies users by the bare address; Twilio needs the
	// prefixed form as the delivery destination.
	userID := strings.TrimPrefix(from, whatsappPrefix)

	logger.InfoCF("relay", "Received WhatsApp message", map[string]interface{}{
		"request_id": requestID,
		"user_id":    userID,
		"preview":    utils.Truncate(body, 50),
	})

	reply, err := rl.chat.Reply(r.Context(), userID, body)
	if err != nil {
		logger.ErrorCF("relay", "Chat API call failed", map[string]interface{}{
			"request_id": requestID,
			"user_id":    userID,
			"error":      err.Error(),
		})
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": "Upstream service error"})
		return
	}

	if reply == "" {
		reply = fallbackReply
	}

	logger.DebugCF("relay", "Sending reply", map[string]interface{}{
		"request_id": requestID,
		"to":         from,
		"preview":    utils.Truncate(reply, 50),
	})

	if err := rl.sender.SendMessage(r.Context(), from, reply); err != nil {
		// Best effort: a failed delivery does not change the response.
		logger.ErrorCF("relay", "Twilio delivery failed", map[string]interface{}{
			"request_id": requestID,
			"to":         from,
			"error":      err.Error(),
		})
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "replied"})
}
