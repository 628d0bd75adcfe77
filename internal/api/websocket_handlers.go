package api

import (
	"net/http"

	"fritz-tickets/internal/auth"
	"fritz-tickets/internal/websocket"

	"go.uber.org/zap"
)

func (s *Server) ServeWsHandler(w http.ResponseWriter, r *http.Request) {
	tokenString := r.URL.Query().Get("token")
	if tokenString == "" {
		s.logger.Info("websocket connection attempt without token")
		http.Error(w, "token required", http.StatusUnauthorized)
		return
	}

	claims, err := auth.VerifyJWT(tokenString, s.config.JWT.Secret)
	if err != nil {
		s.logger.Info("websocket connection attempt with invalid token", zap.Error(err))
		http.Error(w, "Invalid or expired token", http.StatusUnauthorized)
		return
	}

	conn, err := websocket.Upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade error", zap.Error(err))
		return
	}

	client := websocket.NewClient(s.wsHub, conn, claims.Client)
	select {
	case s.wsHub.Register <- client:
	case <-s.wsHub.Done():
		s.logger.Info("websocket connection refused, hub stopped", zap.String("client", claims.Client))
		conn.Close()
		return
	}

	go client.ReadPump()
	go client.WritePump()
}
