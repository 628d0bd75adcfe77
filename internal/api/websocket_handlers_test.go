package api

import (
	"context"
	"errors"
	"net"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	internalws "fritz-tickets/internal/websocket"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestServeWs_ReceivesPublishedSnapshots(t *testing.T) {
	srv := httptest.NewServer(testServer.Routes(testRegistry))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws?token=" + testClientToken
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return testServer.wsHub.Subscribers() > 0 }, 2*time.Second, 10*time.Millisecond)

	testServer.wsHub.Publish([]byte(`{"count":1,"tickets":["42"]}`))

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)
	require.JSONEq(t, `{"count":1,"tickets":["42"]}`, string(msg))
}

func TestServeWs_StoppedHubClosesConnection(t *testing.T) {
	hub := internalws.NewHub(zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	hub.Run(ctx)

	stopped := NewServer(testServer.config, testPoller, testServer.check, hub, testServer.metrics, zap.NewNop())
	srv := httptest.NewServer(stopped.Routes(prometheus.NewRegistry()))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws?token=" + testClientToken
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, _, err = conn.ReadMessage()
	require.Error(t, err)
	var netErr net.Error
	require.False(t, errors.As(err, &netErr) && netErr.Timeout(), "connection should be closed, not left hanging")
	require.Zero(t, hub.Subscribers())
}
