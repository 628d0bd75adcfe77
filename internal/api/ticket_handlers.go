package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"fritz-tickets/internal/models"
	"fritz-tickets/internal/poller"

	"go.uber.org/zap"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// @Summary      Get open tickets
// @Description  Returns the ticket ids and count from the last successful poll, plus the outcome of the most recent poll.
// @Tags         tickets
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  models.TicketSnapshot
// @Failure      401  {string}  string "Unauthorized"
// @Router       /tickets [get]
func (s *Server) GetTicketsHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.poller.Snapshot())
}

// @Summary      Get open ticket count
// @Description  Returns only the number of open tickets, for simple sensors.
// @Tags         tickets
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  models.TicketCount
// @Failure      401  {string}  string "Unauthorized"
// @Router       /tickets/count [get]
func (s *Server) GetTicketCountHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, models.TicketCount{Count: s.poller.Snapshot().Count})
}

// @Summary      Refresh tickets now
// @Description  Polls the router immediately instead of waiting for the next scheduled poll. On failure the previous tickets stay in place.
// @Tags         tickets
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  models.TicketSnapshot
// @Failure      401  {string}  string "Unauthorized"
// @Failure      409  {string}  string "A poll is already running"
// @Failure      502  {string}  string "Router could not be polled"
// @Router       /tickets/refresh [post]
func (s *Server) RefreshTicketsHandler(w http.ResponseWriter, r *http.Request) {
	err := s.poller.Poll(r.Context())
	switch {
	case errors.Is(err, poller.ErrPollInProgress):
		http.Error(w, "A poll is already running", http.StatusConflict)
		return
	case err != nil:
		s.logger.Warn("manual refresh failed", zap.Error(err))
		http.Error(w, "Router could not be polled", http.StatusBadGateway)
		return
	}

	if claims := GetClientFromContext(r.Context()); claims != nil {
		s.logger.Info("manual refresh", zap.String("client", claims.Client))
	}

	writeJSON(w, http.StatusOK, s.poller.Snapshot())
}
