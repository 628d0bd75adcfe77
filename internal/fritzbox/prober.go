package fritzbox

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// ResolveEndpoint tries the candidate query paths in order and returns the
// first one that answers the ticket query with a 2xx status. Failing
// candidates are skipped, not reported.
func (c *Client) ResolveEndpoint(ctx context.Context, s Session) (Endpoint, error) {
	for _, path := range c.endpoints {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		status, _, err := c.get(ctx, path, ticketParams(s))
		ok := err == nil && isSuccess(status)
		if c.onProbe != nil {
			c.onProbe(path, ok)
		}
		if ok {
			c.logger.Info("query endpoint resolved", zap.String("endpoint", path))
			return Endpoint(path), nil
		}

		c.logger.Debug("query endpoint candidate failed",
			zap.String("endpoint", path),
			zap.Int("status", status),
			zap.Error(err),
		)
	}

	if err := ctx.Err(); err != nil {
		return "", err
	}
	return "", fmt.Errorf("%w: tried %v", ErrEndpointNotFound, c.endpoints)
}
