// Package settings owns the persisted configuration record.
//
// A Store is created once per process by Load and passed to every component
// that needs configuration. Reads go through Settings or Get; the only
// mutation is Save, which merges a Partial, stamps the build version, rewrites
// the whole file and then runs the reactions registered with OnChange for
// each field that changed.
//
// Loading never fails. A missing file is normal on first run; an unreadable
// or malformed one is reported through LoadErr (wrapping ErrLoad) and the
// defaults are used. Defaults are seeded from PURSE_* environment variables.
package settings
