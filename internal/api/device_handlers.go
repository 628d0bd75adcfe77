package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"fritz-tickets/internal/fritzbox"

	"go.uber.org/zap"
)

type ValidateDeviceRequest struct {
	Host     string `json:"host" example:"http://fritz.box" validate:"omitempty,url"`
	Username string `json:"username" example:"kid-admin"`
	Password string `json:"password" example:"secret" validate:"required"`
}

type ErrorResponse struct {
	Error string `json:"error" example:"cannot_connect"`
}

// @Summary      Force a new router login
// @Description  Discards the cached router session; the next poll logs in again.
// @Tags         device
// @Security     BearerAuth
// @Success      202  {null}    nil "Accepted"
// @Failure      401  {string}  string "Unauthorized"
// @Router       /session/relogin [post]
func (s *Server) ForceReloginHandler(w http.ResponseWriter, r *http.Request) {
	s.poller.ForceRelogin()
	w.WriteHeader(http.StatusAccepted)
}

// @Summary      Re-detect the query endpoint
// @Description  Forgets the detected query endpoint; the next poll probes the known endpoints again.
// @Tags         device
// @Security     BearerAuth
// @Success      202  {null}    nil "Accepted"
// @Failure      401  {string}  string "Unauthorized"
// @Router       /endpoint/reset [post]
func (s *Server) ResetEndpointHandler(w http.ResponseWriter, r *http.Request) {
	s.poller.ResetEndpoint()
	w.WriteHeader(http.StatusAccepted)
}

// @Summary      Check router credentials
// @Description  Performs the router login with the given credentials once. Only success or failure is reported.
// @Tags         device
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      ValidateDeviceRequest  true  "Router credentials"
// @Success      204      {null}    nil "Credentials work"
// @Failure      400      {object}  ErrorResponse
// @Failure      401      {string}  string "Unauthorized"
// @Router       /device/validate [post]
func (s *Server) ValidateDeviceHandler(w http.ResponseWriter, r *http.Request) {
	var req ValidateDeviceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid_request"})
		return
	}
	if err := s.validate.Struct(req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid_request"})
		return
	}
	if req.Host == "" {
		req.Host = "http://fritz.box"
	}

	err := s.check(r.Context(), fritzbox.Credentials{
		Host:     req.Host,
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		if !errors.Is(err, fritzbox.ErrCannotConnect) {
			s.logger.Warn("credential check aborted", zap.Error(err))
		}
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "cannot_connect"})
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type HealthResponse struct {
	Status      string `json:"status" example:"ok"`
	Subscribers int    `json:"subscribers" example:"1"`
}

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  HealthResponse
// @Router       /health [get]
func (s *Server) HealthCheckHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok", Subscribers: s.wsHub.Subscribers()})
}
