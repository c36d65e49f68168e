// Package session runs scans on behalf of callers: it turns textual
// requests into scan parameters, waits for completion by polling, records
// the outcome and fans results out to live sinks.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/lcalzada-xor/wscan/internal/core/domain"
	"github.com/lcalzada-xor/wscan/internal/core/ports"
	"github.com/lcalzada-xor/wscan/internal/telemetry"
)

const (
	DefaultPollInterval = 500 * time.Millisecond
	DefaultTimeout      = 30 * time.Second
)

// ErrTimeout is recorded when a scan does not finish in time.
var ErrTimeout = errors.New("scan did not complete before timeout")

// Options configures a Runner.
type Options struct {
	PollInterval time.Duration
	Timeout      time.Duration
	ChannelMax   int
	SSIDMax      int
}

// Runner executes scan sessions against a Scanner.
type Runner struct {
	scanner ports.Scanner
	repo    ports.ScanRepository
	sinks   []ports.ResultSink
	opts    Options
	logger  *slog.Logger

	mu   sync.Mutex
	last *tracker
}

// NewRunner creates a runner. repo may be nil to disable history.
func NewRunner(scanner ports.Scanner, repo ports.ScanRepository, opts Options, logger *slog.Logger, sinks ...ports.ResultSink) *Runner {
	if opts.PollInterval <= 0 {
		opts.PollInterval = DefaultPollInterval
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.ChannelMax <= 0 {
		opts.ChannelMax = domain.DefaultChannelMax
	}
	if opts.SSIDMax <= 0 {
		opts.SSIDMax = domain.DefaultSSIDFilterMax
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{
		scanner: scanner,
		repo:    repo,
		sinks:   sinks,
		opts:    opts,
		logger:  logger.With("component", "session"),
	}
}

// AddSink registers another live result sink.
func (r *Runner) AddSink(s ports.ResultSink) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sinks = append(r.sinks, s)
}

// tracker accumulates one session while the scan streams.
type tracker struct {
	mu      sync.Mutex
	session domain.ScanSession
	done    chan struct{}
}

func (t *tracker) snapshot() domain.ScanSession {
	t.mu.Lock()
	defer t.mu.Unlock()
	s := t.session
	s.Results = append([]domain.ScanResult(nil), t.session.Results...)
	s.ResultCount = len(s.Results)
	return s
}

// Start validates req and submits the scan. It returns once the scan is
// accepted; the session completes in the background. Busy and invalid
// requests are returned unchanged and are not recorded.
func (r *Runner) Start(ctx context.Context, req Request) (string, <-chan domain.ScanSession, error) {
	params, err := req.Params(r.opts.ChannelMax, r.opts.SSIDMax)
	if err != nil {
		return "", nil, err
	}

	t := &tracker{
		session: domain.ScanSession{
			ID:          uuid.New().String(),
			StartedAt:   time.Now(),
			ChannelSpec: req.Channels,
			BandSpec:    req.Bands,
			MaxBSSCount: req.MaxBSS,
			Status:      domain.SessionRunning,
		},
		done: make(chan struct{}),
	}

	r.mu.Lock()
	sinks := append([]ports.ResultSink(nil), r.sinks...)
	r.mu.Unlock()

	cb := func(res *domain.ScanResult) {
		if res == nil {
			close(t.done)
			return
		}
		t.mu.Lock()
		t.session.Results = append(t.session.Results, *res)
		id := t.session.ID
		t.mu.Unlock()
		for _, s := range sinks {
			s.PublishResult(id, *res)
		}
	}

	if err := r.scanner.StartScan(ctx, params, cb); err != nil {
		return "", nil, err
	}

	r.mu.Lock()
	r.last = t
	r.mu.Unlock()

	r.save(ctx, t.snapshot())
	r.logger.Info("scan session started", "session", t.session.ID, "channels", req.Channels, "bands", req.Bands)

	out := make(chan domain.ScanSession, 1)
	go func() {
		defer close(out)
		out <- r.wait(ctx, t, sinks)
	}()
	return t.session.ID, out, nil
}

// RunOnce runs one session to completion.
func (r *Runner) RunOnce(ctx context.Context, req Request) (domain.ScanSession, error) {
	_, done, err := r.Start(ctx, req)
	if err != nil {
		return domain.ScanSession{}, err
	}
	s := <-done
	switch s.Status {
	case domain.SessionTimeout:
		return s, ErrTimeout
	case domain.SessionFailed:
		return s, fmt.Errorf("scan session %s: %s", s.ID, s.Error)
	}
	return s, nil
}

// Loop rescans every interval until ctx is cancelled. Busy rejections and
// timeouts are logged and retried on the next tick; invalid requests stop
// the loop.
func (r *Runner) Loop(ctx context.Context, req Request, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		s, err := r.RunOnce(ctx, req)
		switch {
		case errors.Is(err, domain.ErrInvalidArgument):
			return err
		case errors.Is(err, domain.ErrBusy):
			r.logger.Warn("scanner busy, skipping cycle")
		case err != nil:
			r.logger.Error("scan cycle failed", "error", err)
		default:
			r.logger.Info("scan cycle complete", "session", s.ID, "results", len(s.Results))
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

// Current returns the most recent session, if any.
func (r *Runner) Current() (domain.ScanSession, bool) {
	r.mu.Lock()
	t := r.last
	r.mu.Unlock()
	if t == nil {
		return domain.ScanSession{}, false
	}
	return t.snapshot(), true
}

// wait polls the scanner until the final batch was delivered, the timeout
// expires or ctx is cancelled.
func (r *Runner) wait(ctx context.Context, t *tracker, sinks []ports.ResultSink) domain.ScanSession {
	ticker := time.NewTicker(r.opts.PollInterval)
	defer ticker.Stop()
	timeout := time.NewTimer(r.opts.Timeout)
	defer timeout.Stop()

	status := domain.SessionDone
	var failure string
poll:
	for !r.scanner.ScanDone() {
		select {
		case <-ticker.C:
		case <-timeout.C:
			status = domain.SessionTimeout
			failure = ErrTimeout.Error()
			break poll
		case <-ctx.Done():
			status = domain.SessionFailed
			failure = ctx.Err().Error()
			break poll
		}
	}

	if status == domain.SessionDone {
		// ScanDone flips just before the sentinel is delivered.
		select {
		case <-t.done:
		case <-time.After(r.opts.PollInterval):
		}
	}

	t.mu.Lock()
	t.session.Status = status
	t.session.Error = failure
	t.session.FinishedAt = time.Now()
	t.mu.Unlock()

	final := t.snapshot()
	telemetry.SessionDuration.WithLabelValues(string(status)).Observe(final.FinishedAt.Sub(final.StartedAt).Seconds())

	r.save(context.WithoutCancel(ctx), final)
	for _, s := range sinks {
		s.PublishSession(final)
	}

	r.logger.Info("scan session finished", "session", final.ID, "status", status, "results", len(final.Results))
	return final
}

func (r *Runner) save(ctx context.Context, s domain.ScanSession) {
	if r.repo == nil {
		return
	}
	if err := r.repo.SaveSession(ctx, s); err != nil {
		r.logger.Error("failed to save scan session", "session", s.ID, "error", err)
	}
}
