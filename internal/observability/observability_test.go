package observability

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"autosales-dashboard/internal/config"
)

func TestNewLogger_Formats(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, config.LoggerConfig{Level: "info", Format: "json"})
	logger.Info("hello", "key", "value")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("json format should emit JSON, got %q", buf.String())
	}
	if entry["service"] != "autosales-dashboard" {
		t.Errorf("service = %v", entry["service"])
	}
	if _, ok := entry["source"]; ok {
		t.Error("source should only be attached at debug level")
	}

	buf.Reset()
	logger = newLogger(&buf, config.LoggerConfig{Level: "debug", Format: "text"})
	logger.Debug("hello")
	if !strings.Contains(buf.String(), "msg=hello") || !strings.Contains(buf.String(), "source=") {
		t.Errorf("text debug output = %q", buf.String())
	}
}

func TestNewLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, config.LoggerConfig{Level: "warn", Format: "json"})
	logger.Info("dropped")
	if buf.Len() != 0 {
		t.Errorf("info should be filtered at warn level, got %q", buf.String())
	}
}

func TestRequestIDContext(t *testing.T) {
	ctx := WithRequestID(context.Background(), "req-1")
	if got := GetRequestID(ctx); got != "req-1" {
		t.Errorf("GetRequestID() = %q", got)
	}
	if got := GetRequestID(context.Background()); got != "" {
		t.Errorf("GetRequestID() on empty ctx = %q", got)
	}
}

func TestSpans(t *testing.T) {
	ctx, parent := StartSpan(context.Background(), "render")
	_, child := StartSpan(ctx, "aggregate")

	if child.TraceID != parent.TraceID {
		t.Error("child should inherit trace id")
	}
	if child.ParentID != parent.SpanID {
		t.Error("child parent id should be the parent span id")
	}

	child.SetTag("mode", "yearly")
	child.SetError(errors.New("boom"))

	var buf bytes.Buffer
	child.End(newLogger(&buf, config.LoggerConfig{Level: "debug", Format: "json"}))

	out := buf.String()
	for _, want := range []string{`"operation":"aggregate"`, `"mode":"yearly"`, `"status":"ERROR"`, `"error":"boom"`} {
		if !strings.Contains(out, want) {
			t.Errorf("span log should contain %s, got %s", want, out)
		}
	}
}
