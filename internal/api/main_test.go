package api

import (
	"context"
	"log"
	"os"
	"sync"
	"testing"
	"time"

	"fritz-tickets/internal/auth"
	"fritz-tickets/internal/config"
	"fritz-tickets/internal/fritzbox"
	"fritz-tickets/internal/metrics"
	"fritz-tickets/internal/models"
	"fritz-tickets/internal/websocket"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

type stubPoller struct {
	mu             sync.Mutex
	snapshot       models.TicketSnapshot
	pollErr        error
	polls          int
	relogins       int
	endpointResets int
}

func (p *stubPoller) Poll(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.polls++
	return p.pollErr
}

func (p *stubPoller) Snapshot() models.TicketSnapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.snapshot
}

func (p *stubPoller) ForceRelogin() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.relogins++
}

func (p *stubPoller) ResetEndpoint() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.endpointResets++
}

func (p *stubPoller) reset(snapshot models.TicketSnapshot, pollErr error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.snapshot = snapshot
	p.pollErr = pollErr
	p.polls, p.relogins, p.endpointResets = 0, 0, 0
}

var (
	testServer      *Server
	testPoller      *stubPoller
	testRegistry    *prometheus.Registry
	testClientToken string
	testClaims      *auth.ClientClaims
	checkedCreds    []fritzbox.Credentials
	checkMu         sync.Mutex
)

func TestMain(m *testing.M) {
	cfg := &config.Config{
		JWT:    config.JWTConfig{Secret: "api_test_secret_long_enough"},
		Server: config.ServerConfig{Addr: ":0", CORSOrigins: []string{"http://dashboard.local"}},
	}

	testPoller = &stubPoller{}
	testRegistry = prometheus.NewRegistry()
	apiMetrics := metrics.New(testRegistry)

	hub := websocket.NewHub(zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)

	check := func(ctx context.Context, creds fritzbox.Credentials) error {
		checkMu.Lock()
		defer checkMu.Unlock()
		checkedCreds = append(checkedCreds, creds)
		if creds.Password != "correct" {
			return fritzbox.ErrCannotConnect
		}
		return nil
	}

	testServer = NewServer(cfg, testPoller, check, hub, apiMetrics, zap.NewNop())

	var err error
	testClientToken, err = auth.GenerateJWT("home-assistant", "test-token", time.Hour, cfg.JWT.Secret)
	if err != nil {
		log.Fatalf("Could not generate token: %s", err)
	}

	testClaims, err = auth.VerifyJWT(testClientToken, cfg.JWT.Secret)
	if err != nil {
		log.Fatalf("Could not verify token: %s", err)
	}

	code := m.Run()
	cancel()
	os.Exit(code)
}
