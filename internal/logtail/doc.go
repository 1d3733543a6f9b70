// Package logtail reads the end of purse's daily log files and turns the
// JSON records into short lines for the diagnostics panel.
//
// Read keeps a ring buffer of the last N lines so the whole file is never
// held in memory. Parse decodes one record written by package logging and
// Format renders it as
//
//	10:30:00 INFO  Fetch response  status=200
//
// Lines that are not valid records are passed through unchanged. A missing
// file is not an error: logging may be disabled or nothing has been written
// today yet.
package logtail
