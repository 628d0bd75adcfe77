package fritzbox

import (
	"bytes"
	"encoding/json"
)

// responseShape extracts the list of ticket objects from one known layout of
// the query response. ok is false when the payload is not in that layout.
type responseShape struct {
	name    string
	entries func(raw json.RawMessage) (entries []json.RawMessage, ok bool)
}

// responseShapes is tried top to bottom; the first matching layout wins.
var responseShapes = []responseShape{
	{name: "array", entries: bareArray},
	{name: "query", entries: nestedArray("query")},
	{name: "tickets", entries: nestedArray("tickets")},
}

func bareArray(raw json.RawMessage) ([]json.RawMessage, bool) {
	var entries []json.RawMessage
	// null decodes into a nil slice without error; it is not a list.
	if err := json.Unmarshal(raw, &entries); err != nil || entries == nil {
		return nil, false
	}
	return entries, true
}

func nestedArray(key string) func(json.RawMessage) ([]json.RawMessage, bool) {
	return func(raw json.RawMessage) ([]json.RawMessage, bool) {
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(raw, &obj); err != nil {
			return nil, false
		}
		inner, found := obj[key]
		if !found {
			return nil, false
		}
		return bareArray(inner)
	}
}

// ParseTickets extracts ticket ids from a query response. Unknown or
// malformed payloads yield an empty list. Entries without a string or
// numeric "id" are skipped; order and duplicates are kept.
func ParseTickets(body []byte) []Ticket {
	tickets := []Ticket{}

	raw := json.RawMessage(bytes.TrimSpace(body))
	if !json.Valid(raw) {
		return tickets
	}

	for _, shape := range responseShapes {
		entries, ok := shape.entries(raw)
		if !ok {
			continue
		}
		for _, entry := range entries {
			if id, ok := ticketID(entry); ok {
				tickets = append(tickets, id)
			}
		}
		return tickets
	}

	return tickets
}

func ticketID(entry json.RawMessage) (Ticket, bool) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(entry, &obj); err != nil {
		return "", false
	}
	raw, found := obj["id"]
	if !found {
		return "", false
	}

	raw = bytes.TrimSpace(raw)
	if len(raw) > 0 && raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", false
		}
		return Ticket(s), true
	}

	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil && n != "" {
		return Ticket(n.String()), true
	}

	return "", false
}
