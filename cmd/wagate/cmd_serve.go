// WaGate - WhatsApp webhook relay gateway
// License: MIT

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/relaykit/wagate/pkg/chatapi"
	"github.com/relaykit/wagate/pkg/config"
	"github.com/relaykit/wagate/pkg/logger"
	"github.com/relaykit/wagate/pkg/relay"
	"github.com/relaykit/wagate/pkg/twilio"
)

func serveCmd() {
	for _, arg := range os.Args[2:] {
		switch arg {
		case "--debug", "-d":
			logger.SetLevel(logger.DEBUG)
		}
	}

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

	logger.InfoCF("main", "Starting wagate", map[string]interface{}{
		"version": formatVersion(),
		"addr":    cfg.ListenAddr,
		"path":    cfg.WebhookPath,
	})

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			logger.ErrorCF("main", "Server error", map[string]interface{}{"error": err.Error()})
			os.Exit(1)
		}
	case sig := <-sigCh:
		logger.InfoCF("main", "Shutting down", map[string]interface{}{"signal": sig.String()})
		if err := srv.Stop(context.Background()); err != nil {
			logger.ErrorCF("main", "Shutdown error", map[string]interface{}{"error": err.Error()})
		}
	}
}
