package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

const dayLayout = "2006-01-02"

// dailyFile appends to <dir>/YYYY-MM-DD.log, switching files when the local
// day changes. It is not safe for concurrent use; Logger serializes access.
type dailyFile struct {
	dir string
	now func() time.Time
	day string
	f   *os.File
}

// FileName returns the log file name for t.
func FileName(t time.Time) string {
	return t.Format(dayLayout) + ".log"
}

func (d *dailyFile) pathFor(t time.Time) string {
	return filepath.Join(d.dir, FileName(t))
}

func (d *dailyFile) Write(p []byte) (int, error) {
	now := d.now()
	day := now.Format(dayLayout)
	if d.f == nil || day != d.day {
		if err := d.open(now, day); err != nil {
			return 0, err
		}
	}
	return d.f.Write(p)
}

func (d *dailyFile) open(now time.Time, day string) error {
	_ = d.Close()
	if err := os.MkdirAll(d.dir, 0o755); err != nil {
		return fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(d.pathFor(now), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	d.f = f
	d.day = day
	return nil
}

func (d *dailyFile) Close() error {
	if d.f == nil {
		return nil
	}
	err := d.f.Close()
	d.f = nil
	d.day = ""
	return err
}
