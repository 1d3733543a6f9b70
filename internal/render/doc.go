// Package render turns polling state into what the user sees.
//
// Compute is a pure function from a state snapshot to one of four panels:
// loading, card, error or recovery. It returns an error instead of panicking
// when the snapshot cannot be drawn; the Supervisor catches that error,
// logs it once and keeps showing the recovery panel until Reload.
//
// Presenter is the display layer's controller. It reads settings once on
// Start, drives the poller, stores each result and pushes the new View to
// every subscriber. Frontends only call Refresh, Reload, View and Subscribe.
package render
