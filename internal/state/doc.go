// Package state holds the last polling result for the display layer.
//
// The poller writes through Update from its fetch goroutines and the
// presenter reads with Snapshot. A Snapshot is a value with its own copy of
// the record, so readers never observe a later write.
//
// Success and failure are mutually exclusive: a failed cycle clears the
// record and a successful one clears the error. Before the first result the
// snapshot is in the loading state.
package state
