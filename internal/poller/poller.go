// Package poller drives the recurring fetch cycle behind the balance card.
package poller

import (
	"context"
	"sync"
	"time"

	"github.com/five82/purse/internal/balance"
	"github.com/five82/purse/internal/settings"
)

// Trigger says why a cycle ran.
type Trigger int

const (
	TriggerStart Trigger = iota
	TriggerTick
	TriggerManual
)

func (t Trigger) String() string {
	switch t {
	case TriggerTick:
		return "tick"
	case TriggerManual:
		return "manual"
	default:
		return "start"
	}
}

// Result is delivered once per cycle unless a newer cycle's result has
// already been delivered.
type Result struct {
	Seq      uint64
	Trigger  Trigger
	Endpoint string
	Record   *balance.Record
	Err      error
	At       time.Time
}

// Controller owns the schedule. Start, Stop and RefreshNow are the only
// mutators; all are safe for concurrent use.
type Controller struct {
	fetcher balance.Fetcher
	base    context.Context
	unit    time.Duration
	now     func() time.Time

	mu       sync.Mutex
	cancel   context.CancelFunc
	endpoint func() string
	onResult func(Result)
	onIssue  func(seq uint64, trigger Trigger)
	seq      uint64
	cycles   uint64

	// deliverMu orders deliveries so an older result can never land after
	// a newer one. delivered is the newest sequence handed to onResult.
	deliverMu sync.Mutex
	delivered uint64
}

// New returns a stopped Controller. ctx bounds every fetch it issues.
func New(ctx context.Context, fetcher balance.Fetcher) *Controller {
	if ctx == nil {
		ctx = context.Background()
	}
	return &Controller{
		fetcher: fetcher,
		base:    ctx,
		unit:    time.Minute,
		now:     time.Now,
	}
}

// Start stops any previous schedule, runs one fetch immediately and, when
// interval is enabled, one more every interval.
func (c *Controller) Start(interval settings.Minutes, endpoint func() string, onResult func(Result)) {
	c.Stop()

	every := interval.Every(c.unit)
	ctx, cancel := context.WithCancel(c.base)
	c.mu.Lock()
	c.endpoint = endpoint
	c.onResult = onResult
	if every > 0 {
		c.cancel = cancel
	}
	c.mu.Unlock()

	c.issue(c.base, TriggerStart)

	if every > 0 {
		go c.loop(ctx, every)
	} else {
		cancel()
	}
}

func (c *Controller) loop(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.issue(ctx, TriggerTick)
		}
	}
}

// RefreshNow runs an out-of-band cycle without touching the schedule. It
// reports false when the controller was never started.
func (c *Controller) RefreshNow() bool {
	return c.issue(c.base, TriggerManual)
}

// Stop cancels the recurring schedule. Fetches already in flight still
// complete. Calling Stop more than once is harmless.
func (c *Controller) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
}

// OnIssue registers fn to run as each cycle is issued, before its fetch
// starts. Cycles whose results are later dropped are still reported.
func (c *Controller) OnIssue(fn func(seq uint64, trigger Trigger)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onIssue = fn
}

// Scheduled reports whether a schedule is active.
func (c *Controller) Scheduled() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cancel != nil
}

// Cycles returns how many cycles have been issued.
func (c *Controller) Cycles() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cycles
}

func (c *Controller) issue(ctx context.Context, trigger Trigger) bool {
	c.mu.Lock()
	if c.onResult == nil || ctx.Err() != nil {
		c.mu.Unlock()
		return false
	}
	c.seq++
	c.cycles++
	seq := c.seq
	endpointFn, onResult, onIssue := c.endpoint, c.onResult, c.onIssue
	c.mu.Unlock()

	if onIssue != nil {
		onIssue(seq, trigger)
	}

	endpoint := ""
	if endpointFn != nil {
		endpoint = endpointFn()
	}

	go func() {
		rec, err := c.fetcher.Fetch(c.base, endpoint)
		res := Result{Seq: seq, Trigger: trigger, Endpoint: endpoint, Record: rec, Err: err, At: c.now()}

		c.deliverMu.Lock()
		defer c.deliverMu.Unlock()
		if seq < c.delivered {
			return
		}
		c.delivered = seq
		onResult(res)
	}()
	return true
}
