package command

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/five82/purse/internal/settings"
	"github.com/five82/purse/internal/window"
)

type fakeHandler struct {
	mu      sync.Mutex
	calls   []string
	saveErr error
	block   chan struct{}
}

func (h *fakeHandler) record(s string) {
	h.mu.Lock()
	h.calls = append(h.calls, s)
	h.mu.Unlock()
}

func (h *fakeHandler) Calls() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.calls...)
}

func (h *fakeHandler) GetSettings() settings.View {
	h.record("get")
	return settings.View{Settings: settings.Settings{UserID: "u1"}, SettingsPath: "/tmp/settings.json"}
}

func (h *fakeHandler) SaveSettings(p settings.Partial) (settings.Change, error) {
	h.record("save")
	if h.saveErr != nil {
		return settings.Change{}, h.saveErr
	}
	return settings.Change{Fields: []string{settings.FieldUserID}}, nil
}

func (h *fakeHandler) MinimizeWindow(role window.Role) { h.record("minimize:" + role.String()) }
func (h *fakeHandler) CloseWindow(role window.Role) { h.record("close:" + role.String()) }
func (h *fakeHandler) OpenSettings() { h.record("openSettings") }

func (h *fakeHandler) Refresh() {
	if h.block != nil {
		<-h.block
	}
	h.record("refresh")
}

func (h *fakeHandler) ContentLoaded(role window.Role) { h.record("loaded:" + role.String()) }

func (h *fakeHandler) OpenLogsDirectory(ctx context.Context) error {
	h.record("openLogs")
	return nil
}

func (h *fakeHandler) WriteLog(level, message string, data map[string]any) {
	h.record(fmt.Sprintf("log:%s:%s:%v", level, message, data["source"]))
}

func (h *fakeHandler) RestartApp() error {
	h.record("restart")
	return nil
}

func startBus(t *testing.T, h Handler) (*Bus, context.CancelFunc) {
	t.Helper()
	b := NewBus(h)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		b.Run(ctx)
		close(done)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return b, cancel
}

func timeout(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func TestBus_RequestResponse(t *testing.T) {
	h := &fakeHandler{}
	b, _ := startBus(t, h)
	ctx := timeout(t)

	v, err := b.GetSettings(ctx)
	if err != nil || v.UserID != "u1" || v.SettingsPath == "" {
		t.Fatalf("GetSettings = %+v, %v", v, err)
	}
	c, err := b.SaveSettings(ctx, settings.Partial{})
	if err != nil || !c.Has(settings.FieldUserID) {
		t.Fatalf("SaveSettings = %+v, %v", c, err)
	}
	if err := b.WriteLog(ctx, "INFO", "hello", map[string]any{"source": "CLIENT"}); err != nil {
		t.Fatalf("WriteLog: %v", err)
	}
	if err := b.OpenLogsDirectory(ctx); err != nil {
		t.Fatalf("OpenLogsDirectory: %v", err)
	}
	if err := b.RestartApp(ctx); err != nil {
		t.Fatalf("RestartApp: %v", err)
	}

	want := []string{"get", "save", "log:INFO:hello:CLIENT", "openLogs", "restart"}
	if got := h.Calls(); !reflect.DeepEqual(got, want) {
		t.Fatalf("calls = %v, want %v", got, want)
	}
}

func TestBus_SaveErrorSurfaces(t *testing.T) {
	h := &fakeHandler{saveErr: fmt.Errorf("%w: disk full", settings.ErrSave)}
	b, _ := startBus(t, h)

	_, err := b.SaveSettings(timeout(t), settings.Partial{})
	if !errors.Is(err, settings.ErrSave) {
		t.Fatalf("err = %v, want ErrSave", err)
	}
}

func TestBus_FireAndForgetInOrder(t *testing.T) {
	h := &fakeHandler{}
	b, _ := startBus(t, h)

	b.ContentLoaded(window.RoleMain)
	b.Refresh()
	b.OpenSettings()
	b.MinimizeWindow(window.RoleMain)
	b.CloseWindow(window.RoleSettings)
	// A request/response call queued last proves the earlier ones ran.
	if _, err := b.GetSettings(timeout(t)); err != nil {
		t.Fatalf("GetSettings: %v", err)
	}

	want := []string{"loaded:main", "refresh", "openSettings", "minimize:main", "close:settings", "get"}
	if got := h.Calls(); !reflect.DeepEqual(got, want) {
		t.Fatalf("calls = %v, want %v", got, want)
	}
}

func TestBus_ContextCancelWhileQueued(t *testing.T) {
	h := &fakeHandler{block: make(chan struct{})}
	b, _ := startBus(t, h)
	defer close(h.block)

	b.Refresh()
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	if _, err := b.GetSettings(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("err = %v, want deadline exceeded", err)
	}
}

func TestBus_ClosedAfterRun(t *testing.T) {
	h := &fakeHandler{}
	b, cancel := startBus(t, h)
	cancel()

	deadline := time.Now().Add(2 * time.Second)
	for {
		_, err := b.GetSettings(context.Background())
		if errors.Is(err, ErrClosed) {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("err = %v, want ErrClosed", err)
		}
		time.Sleep(time.Millisecond)
	}
	b.Refresh()
}

func TestOpString(t *testing.T) {
	if OpSaveSettings.String() != "saveSettings" || Op(99).String() != "unknown" {
		t.Fatal("unexpected op names")
	}
}
