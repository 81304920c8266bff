// WaGate - WhatsApp webhook relay gateway
// License: MIT
//
// Copyright (c) 2026 WaGate contributors

// Lambda entry point. The relay itself is a plain http.Handler; this adapter
// only bridges API Gateway proxy events onto it.
package main

import (
	"fmt"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/awslabs/aws-lambda-go-api-proxy/httpadapter"

	"github.com/relaykit/wagate/pkg/chatapi"
	"github.com/relaykit/wagate/pkg/config"
	"github.com/relaykit/wagate/pkg/relay"
	"github.com/relaykit/wagate/pkg/twilio"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Printf("Invalid config: %v\n", err)
		os.Exit(1)
	}

	chat := chatapi.NewClient(cfg.ChatAPIURL, cfg.InternalAPIKey)
	sender := twilio.NewClient(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioWhatsAppNumber)
	srv := relay.NewServer(cfg.ListenAddr, cfg.WebhookPath, relay.New(chat, sender))

	lambda.Start(httpadapter.New(srv.Handler()).ProxyWithContext)
}
