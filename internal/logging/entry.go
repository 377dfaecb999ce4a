package logging

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Entry is a parsed slog JSON log line.
type Entry struct {
	Time    time.Time
	Level   string
	Message string
	Attrs   map[string]any
}

// levelOrder defines the ordering of log levels for filtering.
var levelOrder = map[string]int{
	LevelDebug: 0,
	LevelInfo:  1,
	LevelWarn:  2,
	LevelError: 3,
}

// ParseEntry parses a single JSON log line. Fields other than time, level
// and msg are collected into Attrs.
func ParseEntry(line string) (Entry, error) {
	var raw map[string]any
	if err := json.Unmarshal([]byte(line), &raw); err != nil {
		return Entry{}, fmt.Errorf("invalid JSON: %w", err)
	}

	entry := Entry{
		Attrs: make(map[string]any),
	}

	if timeStr, ok := raw["time"].(string); ok {
		if t, err := time.Parse(time.RFC3339Nano, timeStr); err == nil {
			entry.Time = t
		}
	}
	if level, ok := raw["level"].(string); ok {
		entry.Level = strings.ToUpper(level)
	}
	if msg, ok := raw["msg"].(string); ok {
		entry.Message = msg
	}

	for k, v := range raw {
		switch k {
		case "time", "level", "msg":
		default:
			entry.Attrs[k] = v
		}
	}

	return entry, nil
}

// AtLeast reports whether the entry's level is at or above minLevel.
// Entries or filters with unknown levels always pass.
func (e Entry) AtLeast(minLevel string) bool {
	if minLevel == "" {
		return true
	}
	want, ok := levelOrder[strings.ToUpper(minLevel)]
	if !ok {
		return true
	}
	got, ok := levelOrder[e.Level]
	if !ok {
		return true
	}
	return got >= want
}
