package gui

import (
	"context"
	"sync"
	"testing"
	"time"

	"fyne.io/fyne/v2/test"

	"github.com/five82/purse/internal/render"
	"github.com/five82/purse/internal/settings"
	"github.com/five82/purse/internal/window"
)

type fakeCommands struct {
	mu        sync.Mutex
	view      settings.View
	change    settings.Change
	saved     []settings.Partial
	loaded    []window.Role
	closed    []window.Role
	minimized []window.Role
	refreshes int
	opened    int
}

func (f *fakeCommands) GetSettings(context.Context) (settings.View, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.view, nil
}

func (f *fakeCommands) SaveSettings(_ context.Context, p settings.Partial) (settings.Change, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saved = append(f.saved, p)
	return f.change, nil
}

func (f *fakeCommands) OpenLogsDirectory(context.Context) error { return nil }
func (f *fakeCommands) RestartApp(context.Context) error { return nil }

func (f *fakeCommands) MinimizeWindow(r window.Role) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.minimized = append(f.minimized, r)
}

func (f *fakeCommands) CloseWindow(r window.Role) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = append(f.closed, r)
}

func (f *fakeCommands) ContentLoaded(r window.Role) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.loaded = append(f.loaded, r)
}

func (f *fakeCommands) OpenSettings() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.opened++
}

func (f *fakeCommands) Refresh() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.refreshes++
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not met before deadline")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestMainWindow_PanelsAndButtons(t *testing.T) {
	app := test.NewTempApp(t)
	cmds := &fakeCommands{}
	d := NewDriver(Options{App: app, Commands: cmds})

	if _, err := d.Create(window.Spec{Role: window.RoleMain, Size: window.DefaultSize(window.RoleMain)}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	mw := d.main
	if mw == nil || !mw.loading.Visible() {
		t.Fatal("main window not showing the loading panel")
	}

	d.Publish(render.View{Kind: render.KindCard, Card: render.Card{
		Identity: "Dana Levi", Amount: "5,000", Currency: "₪", AsOf: "10:30 9.3.2024",
	}})
	waitFor(t, mw.card.Visible)
	if mw.identity.Text != "Dana Levi" || mw.amount.Text != "5,000 ₪" || mw.asOf.Text != "as of 10:30 9.3.2024" {
		t.Fatalf("card = %q %q %q", mw.identity.Text, mw.amount.Text, mw.asOf.Text)
	}

	d.Publish(render.View{Kind: render.KindError, Message: "Network/API Error: refused"})
	waitFor(t, mw.errPanel.Visible)
	if mw.card.Visible() || mw.errText.Text != "Network/API Error: refused" {
		t.Fatalf("error panel text = %q", mw.errText.Text)
	}

	test.Tap(mw.refresh)
	test.Tap(mw.minimize)
	test.Tap(mw.close)

	cmds.mu.Lock()
	defer cmds.mu.Unlock()
	if len(cmds.loaded) != 1 {
		t.Fatalf("loaded = %v, want exactly one report", cmds.loaded)
	}
	if cmds.refreshes != 1 || len(cmds.minimized) != 1 || len(cmds.closed) != 1 {
		t.Fatalf("refreshes=%d minimized=%v closed=%v", cmds.refreshes, cmds.minimized, cmds.closed)
	}
}

func TestMainWindow_ReloadFromRecovery(t *testing.T) {
	app := test.NewTempApp(t)
	reloaded := make(chan struct{}, 1)
	d := NewDriver(Options{App: app, Commands: &fakeCommands{}, Reload: func() { reloaded <- struct{}{} }})
	if _, err := d.Create(window.Spec{Role: window.RoleMain}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	d.Publish(render.View{Kind: render.KindRecovery, Message: "render amount: NaN is not finite"})
	waitFor(t, d.main.recPanel.Visible)

	test.Tap(d.main.reload)
	select {
	case <-reloaded:
	case <-time.After(2 * time.Second):
		t.Fatal("reload not called")
	}
}

func TestSettingsWindow_LoadAndSave(t *testing.T) {
	app := test.NewTempApp(t)
	cmds := &fakeCommands{
		view: settings.View{
			Settings: settings.Settings{
				Version:            "1.2.0",
				RepresentativeName: "Dana",
				APIRefreshInterval: 5,
				EnableLogs:         true,
			},
			LogsDir: "/tmp/purse/logs",
		},
		change: settings.Change{Fields: []string{settings.FieldRepresentativeName}},
	}
	d := NewDriver(Options{App: app, Commands: cmds})

	sw := &settingsWindow{d: d, w: app.NewWindow("settings")}
	sw.build()
	if !sw.save.Disabled() {
		t.Fatal("save enabled before settings loaded")
	}
	sw.load()
	waitFor(t, func() bool { return !sw.save.Disabled() })
	if sw.name.Text != "Dana" || sw.interval.Text != "5" || !sw.logs.Checked {
		t.Fatalf("form = %q %q %v", sw.name.Text, sw.interval.Text, sw.logs.Checked)
	}

	sw.name.SetText("  Noa ")
	sw.interval.SetText("abc")
	test.Tap(sw.save)
	waitFor(t, func() bool { return sw.status.Text == "Saved representativeName" })

	cmds.mu.Lock()
	defer cmds.mu.Unlock()
	if len(cmds.saved) != 1 {
		t.Fatalf("saved %d times", len(cmds.saved))
	}
	p := cmds.saved[0]
	if *p.RepresentativeName != "Noa" || *p.APIRefreshInterval != 0 || !*p.EnableLogs {
		t.Fatalf("partial = %q %v %v", *p.RepresentativeName, *p.APIRefreshInterval, *p.EnableLogs)
	}
}

func TestTrayMenu(t *testing.T) {
	app := test.NewTempApp(t)
	cmds := &fakeCommands{}
	activated := make(chan struct{}, 1)
	quit := false
	d := NewDriver(Options{
		App:      app,
		Commands: cmds,
		Activate: func() { activated <- struct{}{} },
		Quit:     func() { quit = true },
	})

	menu := d.trayMenu()
	byLabel := map[string]func(){}
	for _, item := range menu.Items {
		byLabel[item.Label] = item.Action
	}
	for _, label := range []string{"Show", "Refresh", "Settings", "Quit"} {
		if byLabel[label] == nil {
			t.Fatalf("tray item %q missing", label)
		}
	}

	byLabel["Refresh"]()
	byLabel["Settings"]()
	byLabel["Quit"]()
	byLabel["Show"]()
	select {
	case <-activated:
	case <-time.After(2 * time.Second):
		t.Fatal("Show did not activate")
	}
	if cmds.refreshes != 1 || cmds.opened != 1 || !quit {
		t.Fatalf("refreshes=%d opened=%d quit=%v", cmds.refreshes, cmds.opened, quit)
	}
}
