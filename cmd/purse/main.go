package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/five82/purse/internal/app"
	"github.com/five82/purse/internal/balance"
	"github.com/five82/purse/internal/cli"
	"github.com/five82/purse/internal/platform"
	"github.com/five82/purse/internal/prefs"
	"github.com/five82/purse/internal/settings"
	"github.com/five82/purse/internal/version"
)

func main() {
	os.Exit(run())
}

func run() int {
	settingsPath := flag.String("settings", "", "override settings file path (optional)")
	prefsPath := flag.String("prefs", "", "override UI preferences path (optional)")
	frontend := flag.String("ui", "", "frontend: auto, desktop or terminal (optional)")
	showVersion := flag.Bool("version", false, "show version and exit")
	showSettings := flag.Bool("show-settings", false, "print settings as YAML and exit")
	fetchOnce := flag.Bool("fetch", false, "fetch the balance once, print it and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("purse %s\n", version.String())
		return 0
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if *showSettings || *fetchOnce {
		store := settings.Load(*settingsPath, settings.WithVersion(version.String()))
		client := balance.NewClient(store.Settings().Environment)
		c := cli.New(store, client, prefs.Load(*prefsPath).Language(), os.Stdout)

		var err error
		if *showSettings {
			err = c.ShowSettings()
		} else {
			err = c.Fetch(ctx)
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "purse: %v\n", err)
			return 1
		}
		return 0
	}

	err := app.Run(ctx, app.Options{
		SettingsPath: *settingsPath,
		PrefsPath:    *prefsPath,
		Frontend:     *frontend,
	})
	if errors.Is(err, app.ErrRestart) {
		if err := platform.Relaunch(); err != nil {
			fmt.Fprintf(os.Stderr, "purse: relaunch: %v\n", err)
			return 1
		}
		return 0
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "purse: %v\n", err)
		return 1
	}
	return 0
}
