// Package applog writes one-line JSON log entries shared by startup,
// migration, seeding and tracing code.
package applog

import (
	"encoding/json"
	"io"
	"log"
	"os"
	"sync"
	"time"
)

var (
	mu  sync.Mutex
	out io.Writer = os.Stdout
)

// SetOutput redirects log entries, mainly for tests. It returns the previous writer.
func SetOutput(w io.Writer) io.Writer {
	mu.Lock()
	defer mu.Unlock()
	prev := out
	out = w
	return prev
}

// JSON stamps data with "ts" in loc and a "level" derived from "status"
// (error when status == "error", info otherwise) unless one is already set.
func JSON(loc *time.Location, data map[string]any) {
	if loc == nil {
		loc = time.UTC
	}
	data["ts"] = time.Now().In(loc).Format(time.RFC3339Nano)
	if _, ok := data["level"]; !ok {
		if data["status"] == "error" {
			data["level"] = "error"
		} else {
			data["level"] = "info"
		}
	}

	b, err := json.Marshal(data)
	if err != nil {
		log.Printf("failed to marshal log entry: %v", err)
		return
	}

	mu.Lock()
	defer mu.Unlock()
	_, _ = out.Write(append(b, '\n'))
}

// Error logs msg at error level together with err.
func Error(loc *time.Location, msg string, err error, fields map[string]any) {
	entry := map[string]any{"level": "error", "msg": msg, "error": err.Error()}
	for k, v := range fields {
		entry[k] = v
	}
	JSON(loc, entry)
}

// Info logs msg at info level.
func Info(loc *time.Location, msg string, fields map[string]any) {
	entry := map[string]any{"level": "info", "msg": msg}
	for k, v := range fields {
		entry[k] = v
	}
	JSON(loc, entry)
}
