package poller

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"fritz-tickets/internal/config"
	"fritz-tickets/internal/fritzbox"
	"fritz-tickets/internal/metrics"
	"fritz-tickets/internal/models"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

var ErrPollInProgress = errors.New("poll already in progress")

type TicketSource interface {
	FetchTickets(ctx context.Context, state fritzbox.State) ([]fritzbox.Ticket, fritzbox.State, error)
}

type Publisher interface {
	Publish(data []byte)
}

// Poller owns the device state between polls and the snapshot shown to the
// outside. Timer and manual triggers both go through Poll.
type Poller struct {
	source     TicketSource
	publisher  Publisher
	metrics    *metrics.Metrics
	logger     *zap.Logger
	interval   time.Duration
	resetAfter int
	now        func() time.Time

	pollMu sync.Mutex

	mu                   sync.RWMutex
	state                fritzbox.State
	snapshot             models.TicketSnapshot
	fetchFailures        int
	pendingRelogin       bool
	pendingEndpointReset bool

	cron   *cron.Cron
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func New(source TicketSource, publisher Publisher, m *metrics.Metrics, cfg config.PollerConfig, logger *zap.Logger) *Poller {
	resetAfter := cfg.EndpointResetAfter
	if resetAfter < 1 {
		resetAfter = 1
	}
	return &Poller{
		source:     source,
		publisher:  publisher,
		metrics:    m,
		logger:     logger,
		interval:   cfg.Interval,
		resetAfter: resetAfter,
		now:        time.Now,
		snapshot:   models.TicketSnapshot{Tickets: []string{}},
	}
}

// Poll runs one fetch and updates the snapshot. It returns ErrPollInProgress
// instead of waiting when another poll is running. A failed poll keeps the
// previous tickets; a cancelled poll changes nothing.
func (p *Poller) Poll(ctx context.Context) error {
	if !p.pollMu.TryLock() {
		return ErrPollInProgress
	}
	defer p.pollMu.Unlock()

	pollID := uuid.NewString()
	logger := p.logger.With(zap.String("poll_id", pollID))
	start := p.now()

	state := p.takeState()

	tickets, next, err := p.source.FetchTickets(ctx, state)
	if ctx.Err() != nil {
		logger.Info("poll abandoned", zap.Error(ctx.Err()))
		return ctx.Err()
	}

	finished := p.now()
	p.metrics.PollDuration.Observe(finished.Sub(start).Seconds())

	p.mu.Lock()
	p.state = next
	p.snapshot.LastPollAt = &finished
	if err != nil {
		p.recordFailure(logger, err)
	} else {
		p.recordSuccess(pollID, finished, tickets)
	}
	snapshot := p.snapshotLocked()
	p.mu.Unlock()

	if err != nil {
		p.metrics.PollsTotal.WithLabelValues(errorKind(err)).Inc()
		logger.Warn("poll failed, keeping previous tickets", zap.Error(err))
	} else {
		p.metrics.PollsTotal.WithLabelValues("success").Inc()
		p.metrics.OpenTickets.Set(float64(snapshot.Count))
		p.metrics.LastSuccess.Set(float64(finished.Unix()))
		logger.Info("poll finished",
			zap.Int("tickets", snapshot.Count),
			zap.String("endpoint", snapshot.Endpoint),
			zap.Duration("took", finished.Sub(start)),
		)
	}

	p.publish(logger, snapshot)
	return err
}

// takeState applies queued resets and returns the state for the next fetch.
func (p *Poller) takeState() fritzbox.State {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.pendingRelogin {
		p.state.Session = fritzbox.Session{}
		p.pendingRelogin = false
	}
	if p.pendingEndpointReset {
		p.state.Endpoint = ""
		p.fetchFailures = 0
		p.pendingEndpointReset = false
	}
	return p.state
}

func (p *Poller) recordFailure(logger *zap.Logger, err error) {
	p.snapshot.LastError = err.Error()

	if !errors.Is(err, fritzbox.ErrFetch) {
		return
	}
	p.fetchFailures++
	if p.fetchFailures >= p.resetAfter && p.state.Endpoint != "" {
		logger.Warn("query endpoint keeps failing, probing again on next poll",
			zap.String("endpoint", string(p.state.Endpoint)),
			zap.Int("failures", p.fetchFailures),
		)
		p.state.Endpoint = ""
		p.fetchFailures = 0
	}
}

func (p *Poller) recordSuccess(pollID string, at time.Time, tickets []fritzbox.Ticket) {
	ids := make([]string, len(tickets))
	for i, t := range tickets {
		ids[i] = string(t)
	}

	p.fetchFailures = 0
	p.snapshot.Tickets = ids
	p.snapshot.Count = len(ids)
	p.snapshot.UpdatedAt = &at
	p.snapshot.PollID = pollID
	p.snapshot.LastError = ""
	p.snapshot.Endpoint = string(p.state.Endpoint)
}

func (p *Poller) publish(logger *zap.Logger, snapshot models.TicketSnapshot) {
	data, err := json.Marshal(snapshot)
	if err != nil {
		logger.Error("failed to encode snapshot", zap.Error(err))
		return
	}
	p.publisher.Publish(data)
}

func (p *Poller) snapshotLocked() models.TicketSnapshot {
	s := p.snapshot
	s.Tickets = append([]string(nil), p.snapshot.Tickets...)
	if s.Tickets == nil {
		s.Tickets = []string{}
	}
	return s
}

func (p *Poller) Snapshot() models.TicketSnapshot {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.snapshotLocked()
}

// ForceRelogin discards the cached session before the next poll.
func (p *Poller) ForceRelogin() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.pendingRelogin = true
}

// ResetEndpoint makes the next poll probe the query endpoints again.
func (p *Poller) ResetEndpoint() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.pendingEndpointReset = true
}

// Start polls once right away and then every interval until Stop.
// Overlapping scheduled runs are skipped.
func (p *Poller) Start(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)

	cronLogger := zapCronLogger{p.logger.Sugar()}
	c := cron.New(
		cron.WithLogger(cronLogger),
		cron.WithChain(cron.Recover(cronLogger), cron.SkipIfStillRunning(cronLogger)),
	)
	if _, err := c.AddFunc(fmt.Sprintf("@every %s", p.interval), func() { p.runScheduled(ctx) }); err != nil {
		cancel()
		return fmt.Errorf("schedule poll: %w", err)
	}

	p.cron = c
	p.cancel = cancel
	c.Start()

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		p.runScheduled(ctx)
	}()

	p.logger.Info("poller started", zap.Duration("interval", p.interval))
	return nil
}

// Stop cancels any in-flight poll and waits for it to return.
func (p *Poller) Stop() {
	if p.cron == nil {
		return
	}
	p.cancel()
	<-p.cron.Stop().Done()
	p.wg.Wait()
	p.logger.Info("poller stopped")
}

func (p *Poller) runScheduled(ctx context.Context) {
	if err := p.Poll(ctx); errors.Is(err, ErrPollInProgress) {
		p.logger.Debug("scheduled poll skipped, another poll is running")
	}
}

func errorKind(err error) string {
	switch {
	case errors.Is(err, fritzbox.ErrAuthentication):
		return "auth_error"
	case errors.Is(err, fritzbox.ErrEndpointNotFound):
		return "endpoint_not_found"
	case errors.Is(err, fritzbox.ErrFetch):
		return "fetch_error"
	default:
		return "error"
	}
}

type zapCronLogger struct {
	s *zap.SugaredLogger
}

func (l zapCronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.s.Debugw(msg, keysAndValues...)
}

func (l zapCronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.s.Errorw(msg, append(keysAndValues, "error", err)...)
}
