// Package app is the composition root of purse.
//
// # Overview
//
// Run loads the settings store and UI preferences, opens the log sink,
// builds the balance client, poller and presenter, and hands them to one of
// two frontends:
//
//   - terminal: a Bubble Tea program (package ui)
//   - desktop: a Fyne application with a tray menu (package gui)
//
// Both frontends talk to the same Shell through a command bus. The Shell
// owns the window manager and applies saved settings live: logging is
// switched on or off, developer mode toggles the diagnostics panel, and
// interval or identity edits reach the presenter. An environment change only
// applies after a restart; Run then returns ErrRestart and main relaunches
// the process.
//
// # Startup
//
//  1. Resolve the frontend (-ui flag, prefs, then auto-detection)
//  2. settings.Load never fails; an unreadable file is logged and defaults used
//  3. Open the splash and a hidden main surface
//  4. Start polling; the first result reveals main once the splash has had
//     its minimum time on screen
//
// # Shutdown
//
// Closing the main surface ends Run, except on macOS where the desktop app
// stays in the dock and tray until Quit. Cancelling ctx always ends Run.
package app
