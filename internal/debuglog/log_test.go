package debuglog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLogLevelString(t *testing.T) {
	tests := []struct {
		level    LogLevel
		expected string
	}{
		{LevelDebug, "DEBUG"},
		{LevelInfo, "INFO"},
		{LevelWarn, "WARN"},
		{LevelError, "ERROR"},
		{LevelOff, "OFF"},
		{LogLevel(42), "UNKNOWN"},
	}

	for _, test := range tests {
		if got := test.level.String(); got != test.expected {
			t.Errorf("LogLevel.String() = %q, want %q", got, test.expected)
		}
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected LogLevel
	}{
		{"DEBUG", LevelDebug},
		{"debug", LevelDebug},
		{"INFO", LevelInfo},
		{"WARN", LevelWarn},
		{"WARNING", LevelWarn},
		{"error", LevelError},
		{" off ", LevelOff},
		{"INVALID", LevelInfo},
		{"", LevelInfo},
	}

	for _, test := range tests {
		if got := ParseLogLevel(test.input); got != test.expected {
			t.Errorf("ParseLogLevel(%q) = %v, want %v", test.input, got, test.expected)
		}
	}
}

func readLog(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return string(content)
}

func TestSetupWithLevel(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "test.log")

	if err := Setup(LevelInfo, logPath); err != nil {
		t.Fatalf("Setup failed: %v", err)
	}

	if GetLevel() != LevelInfo {
		t.Errorf("GetLevel() = %v, want %v", GetLevel(), LevelInfo)
	}

	Debugf("debug message")
	Infof("info message")
	Warnf("warn message")
	Errorf("error message")

	if err := Close(); err != nil {
		t.Errorf("Close() failed: %v", err)
	}

	logContent := readLog(t, logPath)
	if strings.Contains(logContent, "debug message") {
		t.Error("DEBUG message should not appear with INFO level")
	}
	for _, want := range []string{"[INFO] info message", "[WARN] warn message", "[ERROR] error message"} {
		if !strings.Contains(logContent, want) {
			t.Errorf("log should contain %q", want)
		}
	}
}

func TestSetupCreatesParentDirectory(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "nested", "dir", "folio.log")

	if err := Setup(LevelDebug, logPath); err != nil {
		t.Fatalf("Setup failed: %v", err)
	}
	Debugf("hello")
	if err := Close(); err != nil {
		t.Fatal(err)
	}

	if !strings.Contains(readLog(t, logPath), "hello") {
		t.Error("expected message in nested log file")
	}
}

func TestSetupWithLevelOff(t *testing.T) {
	if err := Setup(LevelOff); err != nil {
		t.Fatalf("Setup with LevelOff failed: %v", err)
	}

	if GetLevel() != LevelOff {
		t.Errorf("GetLevel() = %v, want %v", GetLevel(), LevelOff)
	}

	// Nothing is open, these must be no-ops
	Debugf("debug message")
	Errorf("error message")
	For("catalog").Infof("ignored")
}

func TestFieldLogger(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "field_test.log")

	if err := Setup(LevelDebug, logPath); err != nil {
		t.Fatalf("Setup failed: %v", err)
	}
	defer Close()

	logger := WithFields(map[string]interface{}{
		"component": "test",
		"action":    "testing",
		"count":     42,
	})
	logger.Infof("test message with fields")

	For("browse").With("offset", 24).Debugf("page applied")

	if err := Close(); err != nil {
		t.Errorf("Close() failed: %v", err)
	}

	logContent := readLog(t, logPath)
	if !strings.Contains(logContent, "test message with fields [action=testing component=test count=42]") {
		t.Errorf("fields should be rendered sorted, got %s", logContent)
	}
	if !strings.Contains(logContent, "page applied [component=browse offset=24]") {
		t.Errorf("component logger output missing, got %s", logContent)
	}
}

func TestWithDoesNotMutateParent(t *testing.T) {
	parent := For("catalog")
	child := parent.With("query", "*")

	if _, ok := parent.fields["query"]; ok {
		t.Error("With should not add fields to the parent logger")
	}
	if child.fields["component"] != "catalog" {
		t.Error("child logger should inherit parent fields")
	}
}

func TestSetLevel(t *testing.T) {
	SetLevel(LevelDebug)
	if GetLevel() != LevelDebug {
		t.Errorf("SetLevel(LevelDebug) failed, got %v", GetLevel())
	}

	SetLevel(LevelError)
	if GetLevel() != LevelError {
		t.Errorf("SetLevel(LevelError) failed, got %v", GetLevel())
	}

	SetLevel(LevelOff)
}
