// Package ui is the terminal frontend for purse.
//
// # Architecture Overview
//
// The window manager asks a Driver for surfaces. In a terminal every surface
// shares one Bubble Tea program, so a Driver keeps the state of each screen
// (visible, diagnostics) under a lock and only nudges the program to redraw.
// The Model reads that state on every nudge and draws the topmost surface:
// settings over main over splash.
//
// # Data Flow
//
//  1. The presenter publishes views through Driver.Publish
//  2. The Model draws the card, error or recovery panel from the latest view
//  3. The first non-loading view of a main screen reports ContentLoaded
//  4. Key presses become command bus requests (refresh, minimize, close,
//     settings); request/response calls run as tea.Cmds with a timeout
//
// # Key Bindings
//
//   - r: Refresh now
//   - m: Minimize (suspend the program)
//   - x or Ctrl+C: Close
//   - Ctrl+O: Settings, from any screen
//   - R: Reload after a rendering fault
//   - T: Cycle theme
//   - ?: Help
package ui
