package api

import (
	"context"
	"time"

	"fritz-tickets/internal/config"
	"fritz-tickets/internal/fritzbox"
	"fritz-tickets/internal/metrics"
	"fritz-tickets/internal/models"
	"fritz-tickets/internal/websocket"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// TicketPoller is the part of the poller the HTTP layer drives.
type TicketPoller interface {
	Poll(ctx context.Context) error
	Snapshot() models.TicketSnapshot
	ForceRelogin()
	ResetEndpoint()
}

// CredentialCheck runs the setup-time login check against a device.
type CredentialCheck func(ctx context.Context, creds fritzbox.Credentials) error

type Server struct {
	config   *config.Config
	poller   TicketPoller
	check    CredentialCheck
	wsHub    *websocket.Hub
	metrics  *metrics.Metrics
	logger   *zap.Logger
	validate *validator.Validate
}

func NewServer(cfg *config.Config, poller TicketPoller, check CredentialCheck, wsHub *websocket.Hub, m *metrics.Metrics, logger *zap.Logger) *Server {
	return &Server{
		config:   cfg,
		poller:   poller,
		check:    check,
		wsHub:    wsHub,
		metrics:  m,
		logger:   logger,
		validate: validator.New(),
	}
}

// DeviceCheck returns a CredentialCheck that logs into the device with a
// throwaway client.
func DeviceCheck(timeout time.Duration, logger *zap.Logger) CredentialCheck {
	return func(ctx context.Context, creds fritzbox.Credentials) error {
		client := fritzbox.NewClient(creds, fritzbox.WithTimeout(timeout), fritzbox.WithLogger(logger))
		defer client.Close()
		return client.Validate(ctx)
	}
}
