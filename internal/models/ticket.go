package models

import "time"

// TicketSnapshot is the externally visible result of the last polls.
// Tickets and UpdatedAt only change on a successful poll; LastError reflects
// the most recent poll whatever its outcome.
type TicketSnapshot struct {
	Count      int        `json:"count" example:"2"`
	Tickets    []string   `json:"tickets" example:"42,43"`
	UpdatedAt  *time.Time `json:"updated_at,omitempty"`
	PollID     string     `json:"poll_id,omitempty" example:"3f1d2c4e-8a7b-4c6d-9e0f-1a2b3c4d5e6f"`
	LastPollAt *time.Time `json:"last_poll_at,omitempty"`
	LastError  string     `json:"last_error,omitempty"`
	Endpoint   string     `json:"endpoint,omitempty" example:"/luaquery.lua"`
}

type TicketCount struct {
	Count int `json:"count" example:"2"`
}
