package logtail

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// Read returns at most maxLines from the end of the file at path.
func Read(path string, maxLines int) ([]string, error) {
	if maxLines <= 0 {
		return nil, nil
	}
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open log: %w", err)
	}
	defer file.Close()

	ring := make([]string, maxLines)
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	count, next := 0, 0
	for scanner.Scan() {
		ring[next] = scanner.Text()
		next = (next + 1) % maxLines
		count++
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}

	if count < maxLines {
		return ring[:count:count], nil
	}
	return append(ring[next:], ring[:next]...), nil
}

// Entry is one decoded log record.
type Entry struct {
	Time    time.Time
	Level   string
	Message string
	Data    map[string]any
}

// Parse decodes a JSON log line. ok is false for anything that is not a record.
func Parse(line string) (Entry, bool) {
	var raw struct {
		Timestamp string         `json:"timestamp"`
		Level     string         `json:"level"`
		Message   string         `json:"message"`
		Data      map[string]any `json:"data"`
	}
	if err := json.Unmarshal([]byte(line), &raw); err != nil || raw.Message == "" {
		return Entry{}, false
	}
	e := Entry{Level: strings.ToUpper(raw.Level), Message: raw.Message, Data: raw.Data}
	if ts, err := time.Parse(time.RFC3339Nano, raw.Timestamp); err == nil {
		e.Time = ts
	}
	return e, true
}

// Format renders line for display. The session id is omitted since every
// line in a panel shares it.
func Format(line string, loc *time.Location) string {
	e, ok := Parse(line)
	if !ok {
		return line
	}
	if loc == nil {
		loc = time.Local
	}

	var b strings.Builder
	if !e.Time.IsZero() {
		b.WriteString(e.Time.In(loc).Format(time.TimeOnly))
		b.WriteByte(' ')
	}
	fmt.Fprintf(&b, "%-5s %s", e.Level, e.Message)

	keys := make([]string, 0, len(e.Data))
	for k := range e.Data {
		if k != "session" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, "  %s=%v", k, e.Data[k])
	}
	return b.String()
}

// Recent returns the last maxLines of the day's log in dir, formatted.
func Recent(dir string, day time.Time, maxLines int) ([]string, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, nil
	}
	lines, err := Read(filepath.Join(dir, day.Format("2006-01-02")+".log"), maxLines)
	if err != nil {
		return nil, err
	}
	out := make([]string, len(lines))
	for i, line := range lines {
		out[i] = Format(line, day.Location())
	}
	return out, nil
}
