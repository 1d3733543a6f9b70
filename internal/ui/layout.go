package ui

import "time"

// Sizes in terminal cells.
const (
	// CardWidth is the width of the balance card and error panels.
	CardWidth = 46

	// ModalWidth is the width of the settings and help overlays.
	ModalWidth = 56

	// DiagnosticsHeight is the number of log lines shown under the card.
	DiagnosticsHeight = 8
)

// Timing constants.
const (
	// TickInterval drives the diagnostics refresh.
	TickInterval = time.Second

	// CommandTimeout bounds request/response calls to the shell.
	CommandTimeout = 5 * time.Second
)
