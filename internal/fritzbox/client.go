package fritzbox

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	loginPath   = "/login_sid.lua"
	ticketQuery = "userticket:settings/ticket/list(id)"

	maxBodyBytes = 1 << 20
)

// DefaultEndpoints lists the query paths known from different firmware
// releases, in probing order.
var DefaultEndpoints = []string{"/luaquery.lua", "/query.lua"}

// LoginObserver is told about every login attempt.
type LoginObserver func(err error)

// ProbeObserver is told about every probed candidate.
type ProbeObserver func(endpoint string, ok bool)

type Client struct {
	creds       Credentials
	httpClient  *http.Client
	timeout     time.Duration
	sidLifetime time.Duration
	endpoints   []string
	now         func() time.Time
	logger      *zap.Logger
	onLogin     LoginObserver
	onProbe     ProbeObserver
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

func WithSIDLifetime(d time.Duration) Option {
	return func(c *Client) { c.sidLifetime = d }
}

func WithEndpoints(paths []string) Option {
	return func(c *Client) {
		if len(paths) > 0 {
			c.endpoints = append([]string(nil), paths...)
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(c *Client) { c.now = now }
}

func WithLogger(l *zap.Logger) Option {
	return func(c *Client) { c.logger = l }
}

func WithLoginObserver(fn LoginObserver) Option {
	return func(c *Client) { c.onLogin = fn }
}

func WithProbeObserver(fn ProbeObserver) Option {
	return func(c *Client) { c.onProbe = fn }
}

// NewClient returns a client bound to one device. The credentials are fixed
// for the client's lifetime; call Close on shutdown to release connections.
func NewClient(creds Credentials, opts ...Option) *Client {
	c := &Client{
		creds:       creds,
		timeout:     5 * time.Second,
		sidLifetime: DefaultSIDLifetime,
		endpoints:   append([]string(nil), DefaultEndpoints...),
		now:         time.Now,
		logger:      zap.NewNop(),
	}
	c.creds.Host = strings.TrimRight(creds.Host, "/")

	for _, opt := range opts {
		opt(c)
	}

	if c.httpClient == nil {
		c.httpClient = &http.Client{
			Transport: &http.Transport{
				MaxIdleConns:        2,
				MaxIdleConnsPerHost: 2,
				IdleConnTimeout:     90 * time.Second,
			},
		}
	}

	return c
}

func (c *Client) Host() string {
	return c.creds.Host
}

func (c *Client) Close() {
	c.httpClient.CloseIdleConnections()
}

// get issues a GET against the device with the per-call timeout applied and
// returns the status code and a size-limited body.
func (c *Client) get(ctx context.Context, path string, params url.Values) (int, []byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	target := c.creds.Host + path
	if len(params) > 0 {
		target += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return 0, nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("read body: %w", err)
	}

	return resp.StatusCode, body, nil
}

func ticketParams(s Session) url.Values {
	return url.Values{
		"sid":   {s.SID},
		"query": {ticketQuery},
	}
}

func isSuccess(status int) bool {
	return status >= 200 && status < 300
}
