package fritzbox

import "time"

// NoSessionSID is what login_sid.lua reports when there is no valid session.
const NoSessionSID = "0000000000000000"

// DefaultSIDLifetime stays below the box's own ~10 minute idle timeout.
const DefaultSIDLifetime = 9 * time.Minute

type Credentials struct {
	Host     string
	Username string
	Password string
}

type Session struct {
	SID       string    `json:"-"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (s Session) Valid(now time.Time) bool {
	return s.SID != "" && now.Before(s.ExpiresAt)
}

// Endpoint is a query path such as "/luaquery.lua". The zero value means
// it has not been resolved yet.
type Endpoint string

type Ticket string

// State is carried by the caller between polls.
type State struct {
	Session  Session
	Endpoint Endpoint
}
