package app

import (
	"testing"

	"github.com/five82/purse/internal/prefs"
)

func TestChooseFrontend(t *testing.T) {
	env := func(goos string, vars map[string]string, tty bool) environment {
		return environment{
			getenv:     func(k string) string { return vars[k] },
			goos:       goos,
			isTerminal: func() bool { return tty },
		}
	}

	tests := []struct {
		name string
		flag string
		pref string
		env  environment
		want string
	}{
		{name: "flag wins", flag: "tui", pref: "desktop", env: env("darwin", nil, false), want: prefs.FrontendTerminal},
		{name: "pref used when flag is auto", flag: "auto", pref: "terminal", env: env("darwin", nil, false), want: prefs.FrontendTerminal},
		{name: "invalid pref falls through", pref: "vr", env: env("linux", nil, true), want: prefs.FrontendTerminal},
		{name: "darwin defaults to desktop", env: env("darwin", nil, true), want: prefs.FrontendDesktop},
		{name: "x11 display", env: env("linux", map[string]string{"DISPLAY": ":0"}, true), want: prefs.FrontendDesktop},
		{name: "wayland display", env: env("linux", map[string]string{"WAYLAND_DISPLAY": "wayland-0"}, true), want: prefs.FrontendDesktop},
		{name: "headless terminal", env: env("linux", nil, true), want: prefs.FrontendTerminal},
		{name: "headless without terminal", env: env("linux", nil, false), want: prefs.FrontendDesktop},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := chooseFrontend(tt.flag, tt.pref, tt.env)
			if err != nil {
				t.Fatalf("chooseFrontend: %v", err)
			}
			if got != tt.want {
				t.Fatalf("chooseFrontend = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestChooseFrontend_InvalidFlag(t *testing.T) {
	if _, err := chooseFrontend("vr", "", environment{}); err == nil {
		t.Fatal("expected error for unknown -ui value")
	}
}
