package logging

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// LogEntry is one parsed line of a potpanel log file.
type LogEntry struct {
	Timestamp time.Time      `json:"time"`
	Level     string         `json:"level"`
	Message   string         `json:"msg"`
	Task      string         `json:"task,omitempty"`
	RunID     string         `json:"run_id,omitempty"`
	Attrs     map[string]any `json:"attrs,omitempty"`
}

// LogFilter selects log entries. Empty fields do not filter.
// Multiple criteria combine with AND.
type LogFilter struct {
	// Level keeps entries at or above this level.
	Level string
	// Task keeps entries logged by this task ("sampling", "button", ...).
	Task string
	// RunID keeps entries from a single run.
	RunID string
	// MessageContains keeps entries whose message contains this substring.
	MessageContains string
	// Since keeps entries at or after this time.
	Since time.Time
}

var levelOrder = map[string]int{
	LevelDebug: 0,
	LevelInfo:  1,
	LevelWarn:  2,
	LevelError: 3,
}

// ReadLogs parses {logDir}/potpanel.log. Lines that are not valid JSON are
// skipped. Entries are returned sorted by timestamp.
func ReadLogs(logDir string) ([]LogEntry, error) {
	path := filepath.Join(logDir, LogFileName)

	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("no log file found in %s: %w", logDir, err)
		}
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var entries []LogEntry
	scanner := bufio.NewScanner(file)
	const maxLine = 1024 * 1024
	scanner.Buffer(make([]byte, 64*1024), maxLine)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		entry, err := parseLogEntry(line)
		if err != nil {
			continue
		}
		entries = append(entries, entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading log file: %w", err)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Timestamp.Before(entries[j].Timestamp)
	})
	return entries, nil
}

func parseLogEntry(line string) (LogEntry, error) {
	var raw map[string]any
	if err := json.Unmarshal([]byte(line), &raw); err != nil {
		return LogEntry{}, fmt.Errorf("invalid JSON: %w", err)
	}

	entry := LogEntry{Attrs: make(map[string]any)}
	for k, v := range raw {
		s, _ := v.(string)
		switch k {
		case "time":
			if ts, err := time.Parse(time.RFC3339Nano, s); err == nil {
				entry.Timestamp = ts
			}
		case "level":
			entry.Level = s
		case "msg":
			entry.Message = s
		case "task":
			entry.Task = s
		case "run_id":
			entry.RunID = s
		default:
			entry.Attrs[k] = v
		}
	}
	return entry, nil
}

// FilterLogs returns the entries matching filter.
func FilterLogs(entries []LogEntry, filter LogFilter) []LogEntry {
	var out []LogEntry
	for _, e := range entries {
		if matchesFilter(e, filter) {
			out = append(out, e)
		}
	}
	return out
}

func matchesFilter(e LogEntry, f LogFilter) bool {
	if f.Level != "" {
		want, okWant := levelOrder[strings.ToUpper(f.Level)]
		got, okGot := levelOrder[e.Level]
		if okWant && okGot && got < want {
			return false
		}
	}
	if f.Task != "" && e.Task != f.Task {
		return false
	}
	if f.RunID != "" && e.RunID != f.RunID {
		return false
	}
	if f.MessageContains != "" && !strings.Contains(e.Message, f.MessageContains) {
		return false
	}
	if !f.Since.IsZero() && e.Timestamp.Before(f.Since) {
		return false
	}
	return true
}

// FormatEntry renders an entry as a single human-readable line.
func FormatEntry(e LogEntry) string {
	var sb strings.Builder
	sb.WriteString(e.Timestamp.Format("15:04:05.000"))
	sb.WriteString(fmt.Sprintf(" %-5s", e.Level))
	if e.Task != "" {
		sb.WriteString(fmt.Sprintf(" [%s]", e.Task))
	}
	sb.WriteString(" ")
	sb.WriteString(e.Message)

	keys := make([]string, 0, len(e.Attrs))
	for k := range e.Attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		sb.WriteString(fmt.Sprintf(" %s=%v", k, e.Attrs[k]))
	}
	return sb.String()
}
