package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestLoggerLevels(t *testing.T) {
	var buf bytes.Buffer

	logger := New(Config{
		Level:     DEBUG,
		Format:    JSONFormat,
		Output:    &buf,
		Component: "test",
	})

	logger.Debug("debug message")
	logger.Info("info message")
	logger.Warn("warn message")
	logger.Error("error message", nil)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("Expected 4 log lines, got %d", len(lines))
	}

	for i, line := range lines {
		var entry LogEntry
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			t.Errorf("Line %d is not valid JSON: %v", i+1, err)
		}
	}
}

func TestLoggerLevelFiltering(t *testing.T) {
	var buf bytes.Buffer

	logger := New(Config{
		Level:  WARN,
		Format: JSONFormat,
		Output: &buf,
	})

	logger.Debug("debug message")
	logger.Info("info message")
	logger.Warn("warn message")
	logger.Error("error message", nil)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Errorf("Expected 2 log lines with WARN level, got %d", len(lines))
	}
}

func TestSetLevelAtRuntime(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: ERROR, Format: JSONFormat, Output: &buf})

	logger.Info("hidden")
	if buf.Len() != 0 {
		t.Fatalf("Expected no output at ERROR level, got %q", buf.String())
	}

	logger.SetLevel(INFO)
	logger.Info("visible")
	if !strings.Contains(buf.String(), "visible") {
		t.Errorf("Expected message after lowering level, got %q", buf.String())
	}
}

func TestJSONFormat(t *testing.T) {
	var buf bytes.Buffer

	logger := New(Config{
		Level:     INFO,
		Format:    JSONFormat,
		Output:    &buf,
		Component: "scenario",
	})

	logger.Info("chart rendered", map[string]interface{}{
		"kind":   "line",
		"series": 4,
	})

	var entry LogEntry
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("Failed to parse JSON output: %v", err)
	}

	if entry.Level != "INFO" {
		t.Errorf("Expected level INFO, got %s", entry.Level)
	}
	if entry.Message != "chart rendered" {
		t.Errorf("Expected message 'chart rendered', got %s", entry.Message)
	}
	if entry.Component != "scenario" {
		t.Errorf("Expected component 'scenario', got %s", entry.Component)
	}
	if entry.Fields["kind"] != "line" {
		t.Errorf("Expected field kind='line', got %v", entry.Fields["kind"])
	}
	if entry.Fields["series"] != float64(4) {
		t.Errorf("Expected field series=4, got %v", entry.Fields["series"])
	}
	if entry.Timestamp == "" {
		t.Error("Expected timestamp to be set")
	}
}

func TestTextFormat(t *testing.T) {
	var buf bytes.Buffer

	logger := New(Config{
		Level:     INFO,
		Format:    TextFormat,
		Output:    &buf,
		Component: "charts",
	})

	logger.Info("test message", map[string]interface{}{"key1": "value1"})

	output := buf.String()
	for _, want := range []string{"INFO", "charts", "test message", `"key1":"value1"`} {
		if !strings.Contains(output, want) {
			t.Errorf("Expected output to contain %q, got %q", want, output)
		}
	}
	if json.Valid(bytes.TrimSpace(buf.Bytes())) {
		t.Error("Text format should not produce a bare JSON line")
	}
}

func TestSetFormatSwitchesEncoder(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: INFO, Format: TextFormat, Output: &buf})

	logger.SetFormat(JSONFormat)
	logger.Info("now json")

	var entry LogEntry
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("Expected JSON after SetFormat, got %q: %v", buf.String(), err)
	}
}

func TestWithComponent(t *testing.T) {
	var buf bytes.Buffer

	base := New(Config{
		Level:     INFO,
		Format:    JSONFormat,
		Output:    &buf,
		Component: "base",
	})

	base.WithComponent("storage").Info("test message")

	var entry LogEntry
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("Failed to parse JSON output: %v", err)
	}
	if entry.Component != "storage" {
		t.Errorf("Expected component 'storage', got %s", entry.Component)
	}
}

func TestErrorLogging(t *testing.T) {
	var buf bytes.Buffer

	logger := New(Config{
		Level:  ERROR,
		Format: JSONFormat,
		Output: &buf,
	})

	logger.Error("operation failed", &testError{msg: "test error"}, map[string]interface{}{
		"operation": "render",
	})

	var entry LogEntry
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("Failed to parse JSON output: %v", err)
	}
	if entry.Error != "test error" {
		t.Errorf("Expected error 'test error', got %s", entry.Error)
	}
	if entry.Fields["operation"] != "render" {
		t.Errorf("Expected operation field 'render', got %v", entry.Fields["operation"])
	}
}

func TestGlobalLogger(t *testing.T) {
	var buf bytes.Buffer

	original := GetGlobalLogger()
	defer SetGlobalLogger(original)

	SetGlobalLogger(New(Config{
		Level:     INFO,
		Format:    JSONFormat,
		Output:    &buf,
		Component: "global-test",
	}))

	Info("global info message")
	Warn("global warn message")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("Expected 2 log lines, got %d", len(lines))
	}

	var first, second LogEntry
	if err := json.Unmarshal([]byte(lines[0]), &first); err != nil {
		t.Fatalf("Failed to parse first JSON line: %v", err)
	}
	if err := json.Unmarshal([]byte(lines[1]), &second); err != nil {
		t.Fatalf("Failed to parse second JSON line: %v", err)
	}
	if first.Level != "INFO" || first.Message != "global info message" {
		t.Errorf("First line incorrect: level=%s, message=%s", first.Level, first.Message)
	}
	if second.Level != "WARN" || second.Message != "global warn message" {
		t.Errorf("Second line incorrect: level=%s, message=%s", second.Level, second.Message)
	}
}

func TestFormattedLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: INFO, Format: JSONFormat, Output: &buf})

	logger.Infof("Rendered %d charts for %s", 7, "dashboard")

	var entry LogEntry
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("Failed to parse JSON output: %v", err)
	}
	if entry.Message != "Rendered 7 charts for dashboard" {
		t.Errorf("Unexpected message %q", entry.Message)
	}
}

func TestParseHelpers(t *testing.T) {
	levels := map[string]LogLevel{
		"DEBUG": DEBUG, "debug": DEBUG, "info": INFO, "warning": WARN,
		"WARN": WARN, "error": ERROR, "fatal": FATAL, "verbose": -1, "": -1,
	}
	for in, want := range levels {
		if got := parseLogLevel(in); got != want {
			t.Errorf("parseLogLevel(%q) = %v, want %v", in, got, want)
		}
	}

	formats := map[string]LogFormat{
		"json": JSONFormat, "JSON": JSONFormat, "text": TextFormat, "console": TextFormat, "xml": -1,
	}
	for in, want := range formats {
		if got := parseLogFormat(in); got != want {
			t.Errorf("parseLogFormat(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestLogLevelString(t *testing.T) {
	tests := []struct {
		level    LogLevel
		expected string
	}{
		{DEBUG, "DEBUG"},
		{INFO, "INFO"},
		{WARN, "WARN"},
		{ERROR, "ERROR"},
		{FATAL, "FATAL"},
		{LogLevel(42), "UNKNOWN"},
	}

	for _, test := range tests {
		if test.level.String() != test.expected {
			t.Errorf("Expected %s, got %s", test.expected, test.level.String())
		}
	}
}

type testError struct {
	msg string
}

func (e *testError) Error() string {
	return e.msg
}

func BenchmarkJSONLogging(b *testing.B) {
	var buf bytes.Buffer
	logger := New(Config{Level: INFO, Format: JSONFormat, Output: &buf})

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		logger.Info("benchmark message", map[string]interface{}{"iteration": i})
	}
}

func BenchmarkLevelFiltering(b *testing.B) {
	var buf bytes.Buffer
	logger := New(Config{Level: WARN, Format: JSONFormat, Output: &buf})

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		logger.Debug("debug message that should be filtered")
	}
}
