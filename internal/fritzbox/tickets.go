package fritzbox

import (
	"context"
	"fmt"
	"net/http"

	"go.uber.org/zap"
)

// FetchTickets runs one poll: session (login when needed), endpoint (probe
// when unresolved), then the ticket query. The returned state is what the
// caller should keep for the next poll. When ctx is cancelled the input state
// comes back unchanged.
func (c *Client) FetchTickets(ctx context.Context, state State) ([]Ticket, State, error) {
	tickets, next, err := c.fetchTickets(ctx, state)
	if err != nil && ctx.Err() != nil {
		return nil, state, ctx.Err()
	}
	return tickets, next, err
}

func (c *Client) fetchTickets(ctx context.Context, state State) ([]Ticket, State, error) {
	next := state

	session, err := c.Session(ctx, state.Session)
	if err != nil {
		return nil, next, err
	}
	next.Session = session

	if next.Endpoint == "" {
		endpoint, err := c.ResolveEndpoint(ctx, session)
		if err != nil {
			return nil, next, err
		}
		next.Endpoint = endpoint
	}

	status, body, err := c.get(ctx, string(next.Endpoint), ticketParams(session))
	if err != nil {
		return nil, next, fmt.Errorf("%w: %s: %w", ErrFetch, next.Endpoint, err)
	}
	if !isSuccess(status) {
		if status == http.StatusForbidden {
			// The box dropped our SID early (reboot, logout from the UI).
			next.Session = Session{}
		}
		return nil, next, fmt.Errorf("%w: %s: status %d", ErrFetch, next.Endpoint, status)
	}

	tickets := ParseTickets(body)
	c.logger.Debug("tickets fetched",
		zap.String("endpoint", string(next.Endpoint)),
		zap.Int("count", len(tickets)),
	)

	return tickets, next, nil
}
