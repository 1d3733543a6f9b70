// Package command carries requests from display surfaces to the shell that
// owns windows and settings. Requests are handled one at a time, in arrival
// order, by a single worker.
package command

import (
	"context"
	"errors"
	"sync"

	"github.com/five82/purse/internal/settings"
	"github.com/five82/purse/internal/window"
)

// ErrClosed is returned once the bus has stopped.
var ErrClosed = errors.New("command bus closed")

// Op names a request.
type Op int

const (
	OpGetSettings Op = iota
	OpSaveSettings
	OpMinimizeWindow
	OpCloseWindow
	OpOpenSettings
	OpRefresh
	OpContentLoaded
	OpOpenLogsDirectory
	OpWriteLog
	OpRestartApp
)

var opNames = map[Op]string{
	OpGetSettings:       "getSettings",
	OpSaveSettings:      "saveSettings",
	OpMinimizeWindow:    "minimizeWindow",
	OpCloseWindow:       "closeWindow",
	OpOpenSettings:      "openSettings",
	OpRefresh:           "refresh",
	OpContentLoaded:     "contentLoaded",
	OpOpenLogsDirectory: "openLogsDirectory",
	OpWriteLog:          "writeLog",
	OpRestartApp:        "restartApp",
}

func (o Op) String() string {
	if name, ok := opNames[o]; ok {
		return name
	}
	return "unknown"
}

// Handler executes requests. The bus calls it from one goroutine only.
type Handler interface {
	GetSettings() settings.View
	SaveSettings(p settings.Partial) (settings.Change, error)
	MinimizeWindow(role window.Role)
	CloseWindow(role window.Role)
	OpenSettings()
	Refresh()
	ContentLoaded(role window.Role)
	OpenLogsDirectory(ctx context.Context) error
	WriteLog(level, message string, data map[string]any)
	RestartApp() error
}

type request struct {
	op      Op
	role    window.Role
	partial settings.Partial
	level   string
	message string
	data    map[string]any
	reply   chan reply
}

type reply struct {
	view   settings.View
	change settings.Change
	err    error
}

// Bus queues requests for a Handler.
type Bus struct {
	handler  Handler
	requests chan request

	stopOnce sync.Once
	stopped  chan struct{}
}

const defaultBuffer = 32

// NewBus returns a Bus for h. Call Run to start processing.
func NewBus(h Handler) *Bus {
	return &Bus{
		handler:  h,
		requests: make(chan request, defaultBuffer),
		stopped:  make(chan struct{}),
	}
}

// Run processes requests until ctx is done. Requests still queued at that
// point are answered with ErrClosed.
func (b *Bus) Run(ctx context.Context) {
	defer b.stop()
	for {
		select {
		case <-ctx.Done():
			return
		case req := <-b.requests:
			b.handle(ctx, req)
		}
	}
}

func (b *Bus) stop() {
	b.stopOnce.Do(func() { close(b.stopped) })
	for {
		select {
		case req := <-b.requests:
			if req.reply != nil {
				req.reply <- reply{err: ErrClosed}
			}
		default:
			return
		}
	}
}

func (b *Bus) handle(ctx context.Context, req request) {
	var out reply
	h := b.handler
	switch req.op {
	case OpGetSettings:
		out.view = h.GetSettings()
	case OpSaveSettings:
		out.change, out.err = h.SaveSettings(req.partial)
	case OpMinimizeWindow:
		h.MinimizeWindow(req.role)
	case OpCloseWindow:
		h.CloseWindow(req.role)
	case OpOpenSettings:
		h.OpenSettings()
	case OpRefresh:
		h.Refresh()
	case OpContentLoaded:
		h.ContentLoaded(req.role)
	case OpOpenLogsDirectory:
		out.err = h.OpenLogsDirectory(ctx)
	case OpWriteLog:
		h.WriteLog(req.level, req.message, req.data)
	case OpRestartApp:
		out.err = h.RestartApp()
	}
	if req.reply != nil {
		req.reply <- out
	}
}

// post queues a fire-and-forget request without blocking the caller, which
// is usually a UI thread.
func (b *Bus) post(req request) {
	select {
	case <-b.stopped:
		return
	default:
	}
	select {
	case b.requests <- req:
	default:
		go func() {
			select {
			case b.requests <- req:
			case <-b.stopped:
			}
		}()
	}
}

func (b *Bus) call(ctx context.Context, req request) (reply, error) {
	req.reply = make(chan reply, 1)
	select {
	case b.requests <- req:
	case <-b.stopped:
		return reply{}, ErrClosed
	case <-ctx.Done():
		return reply{}, ctx.Err()
	}
	select {
	case out := <-req.reply:
		return out, out.err
	case <-b.stopped:
		select {
		case out := <-req.reply:
			return out, out.err
		default:
			return reply{}, ErrClosed
		}
	case <-ctx.Done():
		return reply{}, ctx.Err()
	}
}

// GetSettings returns the current settings and derived paths.
func (b *Bus) GetSettings(ctx context.Context) (settings.View, error) {
	out, err := b.call(ctx, request{op: OpGetSettings})
	return out.view, err
}

// SaveSettings persists p. A write failure wraps settings.ErrSave.
func (b *Bus) SaveSettings(ctx context.Context, p settings.Partial) (settings.Change, error) {
	out, err := b.call(ctx, request{op: OpSaveSettings, partial: p})
	return out.change, err
}

// OpenLogsDirectory reveals the log directory in the file manager.
func (b *Bus) OpenLogsDirectory(ctx context.Context) error {
	_, err := b.call(ctx, request{op: OpOpenLogsDirectory})
	return err
}

// WriteLog appends a client record to the log sink.
func (b *Bus) WriteLog(ctx context.Context, level, message string, data map[string]any) error {
	_, err := b.call(ctx, request{op: OpWriteLog, level: level, message: message, data: data})
	return err
}

// RestartApp asks the shell to relaunch the process.
func (b *Bus) RestartApp(ctx context.Context) error {
	_, err := b.call(ctx, request{op: OpRestartApp})
	return err
}

func (b *Bus) MinimizeWindow(role window.Role) { b.post(request{op: OpMinimizeWindow, role: role}) }
func (b *Bus) CloseWindow(role window.Role)    { b.post(request{op: OpCloseWindow, role: role}) }
func (b *Bus) ContentLoaded(role window.Role)  { b.post(request{op: OpContentLoaded, role: role}) }
func (b *Bus) OpenSettings()                   { b.post(request{op: OpOpenSettings}) }
func (b *Bus) Refresh()                        { b.post(request{op: OpRefresh}) }
