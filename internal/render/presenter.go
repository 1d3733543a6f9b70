package render

import (
	"errors"
	"slices"
	"sync"
	"time"

	"golang.org/x/text/language"

	"github.com/five82/purse/internal/balance"
	"github.com/five82/purse/internal/logging"
	"github.com/five82/purse/internal/poller"
	"github.com/five82/purse/internal/settings"
	"github.com/five82/purse/internal/state"
)

// Options wires a Presenter.
type Options struct {
	Settings *settings.Store
	Poller   *poller.Controller
	Store    *state.Store
	Logger   *logging.Logger
	Locale   language.Tag
	Location *time.Location
}

// Presenter binds settings, the poller and the state store into views.
type Presenter struct {
	settings *settings.Store
	poller   *poller.Controller
	store    *state.Store
	log      *logging.Logger
	locale   language.Tag
	location *time.Location
	sup      *Supervisor

	mu      sync.Mutex
	cfg     settings.Settings
	started bool
	nextSub int
	subs    map[int]func(View)
}

// NewPresenter returns a Presenter. Nothing is fetched until Start.
func NewPresenter(opts Options) *Presenter {
	store := opts.Store
	if store == nil {
		store = &state.Store{}
	}
	p := &Presenter{
		settings: opts.Settings,
		poller:   opts.Poller,
		store:    store,
		log:      opts.Logger,
		locale:   opts.Locale,
		location: opts.Location,
		subs:     make(map[int]func(View)),
	}
	p.sup = NewSupervisor(func(err error) {
		p.log.Error("Error caught by boundary", map[string]any{"error": err.Error(), "source": "CLIENT"})
	})
	if p.poller != nil {
		p.poller.OnIssue(p.onIssue)
	}
	return p
}

// Start reads settings once and begins polling.
func (p *Presenter) Start() {
	cfg := p.settings.Settings()
	p.log.Info("Loaded settings", map[string]any{"settings": cfg, "source": "CLIENT"})

	p.mu.Lock()
	p.cfg = cfg
	p.started = true
	p.mu.Unlock()

	p.startPoller(cfg.APIRefreshInterval)
}

func (p *Presenter) startPoller(interval settings.Minutes) {
	if !interval.Enabled() {
		p.log.Debug("Auto refresh disabled", map[string]any{"apiRefreshInterval": interval, "source": "CLIENT"})
	}
	p.poller.Start(interval, p.endpoint, p.onResult)
}

// endpoint is read for every cycle so apiUrl edits apply on the next fetch.
func (p *Presenter) endpoint() string {
	url := p.settings.Settings().Endpoint()
	p.log.Info("Fetching user from API", map[string]any{"apiUrl": url, "source": "CLIENT"})
	return url
}

func (p *Presenter) onIssue(seq uint64, trigger poller.Trigger) {
	if trigger == poller.TriggerTick {
		p.log.Debug("Auto refresh triggered", map[string]any{"seq": seq, "source": "CLIENT"})
	}
}

func (p *Presenter) onResult(r poller.Result) {
	var httpErr *balance.HTTPError
	switch {
	case r.Err == nil:
		p.log.Debug("Fetch response", map[string]any{"seq": r.Seq, "record": r.Record, "source": "CLIENT"})
	case errors.As(r.Err, &httpErr):
		p.log.Error("API Error", map[string]any{
			"status":     httpErr.StatusCode,
			"statusText": httpErr.StatusText,
			"text":       httpErr.Body,
			"source":     "CLIENT",
		})
	default:
		p.log.Error("Fetch error", map[string]any{"error": r.Err.Error(), "source": "CLIENT"})
	}

	p.store.Update(r.Seq, r.Record, r.Err, r.At)
	v := p.View()
	if v.Kind == KindError {
		p.log.Error("UI Rendered Error", map[string]any{"error": v.Message, "source": "CLIENT"})
	}
	p.publish(v)
}

// View returns the current panel.
func (p *Presenter) View() View {
	p.mu.Lock()
	cfg := p.cfg
	p.mu.Unlock()
	return p.sup.Render(Input{
		Snapshot: p.store.Snapshot(),
		Settings: cfg,
		Locale:   p.locale,
		Location: p.location,
	})
}

// Refresh runs an out-of-band fetch.
func (p *Presenter) Refresh() {
	p.log.Info("Refresh button clicked", map[string]any{"source": "CLIENT"})
	p.poller.RefreshNow()
}

// Reload discards all display state and starts over, like reloading the page.
func (p *Presenter) Reload() {
	p.log.Info("Reload requested", map[string]any{"source": "CLIENT"})
	p.store.Reset()
	p.sup.Reload()
	p.publish(p.View())
	p.Start()
}

// ReportFault latches a fault raised while drawing a view.
func (p *Presenter) ReportFault(err error) {
	p.sup.Report(err)
	p.publish(p.View())
}

// SettingsChanged applies a saved change. Interval edits restart the poller;
// identity edits re-render.
func (p *Presenter) SettingsChanged(c settings.Change) {
	p.mu.Lock()
	p.cfg = c.After
	started := p.started
	p.mu.Unlock()

	if started && c.Has(settings.FieldAPIRefreshInterval) {
		p.log.Info("Refresh interval changed", map[string]any{
			"from":   c.Before.APIRefreshInterval,
			"to":     c.After.APIRefreshInterval,
			"source": "CLIENT",
		})
		p.poller.Stop()
		p.startPoller(c.After.APIRefreshInterval)
	}
	p.publish(p.View())
}

// Stop halts the schedule.
func (p *Presenter) Stop() {
	p.poller.Stop()
}

// Subscribe registers fn to receive every new view. The returned function
// unregisters it.
func (p *Presenter) Subscribe(fn func(View)) func() {
	p.mu.Lock()
	id := p.nextSub
	p.nextSub++
	p.subs[id] = fn
	p.mu.Unlock()
	return func() {
		p.mu.Lock()
		delete(p.subs, id)
		p.mu.Unlock()
	}
}

func (p *Presenter) publish(v View) {
	p.mu.Lock()
	ids := make([]int, 0, len(p.subs))
	for id := range p.subs {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	fns := make([]func(View), 0, len(ids))
	for _, id := range ids {
		fns = append(fns, p.subs[id])
	}
	p.mu.Unlock()
	for _, fn := range fns {
		fn(v)
	}
}
