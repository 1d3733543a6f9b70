package app

import (
	"os"
	"runtime"

	"golang.org/x/term"

	"github.com/five82/purse/internal/prefs"
)

// environment answers the questions auto-selection asks of the host.
type environment struct {
	getenv     func(string) string
	goos       string
	isTerminal func() bool
}

func (e environment) withDefaults() environment {
	if e.getenv == nil {
		e.getenv = os.Getenv
	}
	if e.goos == "" {
		e.goos = runtime.GOOS
	}
	if e.isTerminal == nil {
		e.isTerminal = func() bool { return term.IsTerminal(int(os.Stdout.Fd())) }
	}
	return e
}

// chooseFrontend resolves the flag, then the preference, then auto-detection.
func chooseFrontend(flagValue, pref string, env environment) (string, error) {
	choice, err := prefs.ParseFrontend(flagValue)
	if err != nil {
		return "", err
	}
	if choice != prefs.FrontendAuto {
		return choice, nil
	}
	// An invalid stored preference falls through to auto.
	if p, err := prefs.ParseFrontend(pref); err == nil && p != prefs.FrontendAuto {
		return p, nil
	}

	env = env.withDefaults()
	switch {
	case env.goos == "darwin" || env.goos == "windows":
		return prefs.FrontendDesktop, nil
	case env.getenv("DISPLAY") != "" || env.getenv("WAYLAND_DISPLAY") != "":
		return prefs.FrontendDesktop, nil
	case env.isTerminal():
		return prefs.FrontendTerminal, nil
	default:
		return prefs.FrontendDesktop, nil
	}
}
