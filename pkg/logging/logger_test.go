package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestNewLogger(t *testing.T) {
	tests := []struct {
		name      string
		baseDir   string
		sessionID string
	}{
		{"valid directory and session ID", t.TempDir(), "test-session-123"},
		{"creates directories if not exist", filepath.Join(t.TempDir(), "nested", "path"), "session-456"},
		{"generated session ID", t.TempDir(), NewSessionID()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := NewLogger(tt.baseDir, tt.sessionID)
			if err != nil {
				t.Fatalf("NewLogger() error = %v", err)
			}
			defer logger.Close()

			if logger.SessionID() != tt.sessionID {
				t.Errorf("SessionID() = %v, want %v", logger.SessionID(), tt.sessionID)
			}
			if logger.minLevel != LevelInfo {
				t.Errorf("minLevel = %v, want %v", logger.minLevel, LevelInfo)
			}
			if _, err := os.Stat(logger.SessionPath()); os.IsNotExist(err) {
				t.Errorf("session log file not created")
			}
			if _, err := os.Stat(filepath.Join(tt.baseDir, "errors.jsonl")); os.IsNotExist(err) {
				t.Errorf("errors.jsonl not created")
			}
		})
	}
}

func TestNewLoggerInvalidDirectory(t *testing.T) {
	filePath := filepath.Join(t.TempDir(), "file-not-dir")
	if err := os.WriteFile(filePath, []byte("test"), 0644); err != nil {
		t.Fatalf("setup failed: %v", err)
	}

	if _, err := NewLogger(filePath, "test-session"); err == nil {
		t.Fatal("expected error when baseDir is a file, got nil")
	}
}

func TestLogEvent(t *testing.T) {
	baseDir := t.TempDir()
	logger, err := NewLogger(baseDir, "test-session")
	if err != nil {
		t.Fatalf("NewLogger failed: %v", err)
	}
	defer logger.Close()

	event := Event{
		Level:     LevelInfo,
		Category:  CategoryWindow,
		EventType: "window_created",
		Message:   "created window",
		Details:   map[string]any{"title": "Test", "width": 200},
	}
	if err := logger.Log(event); err != nil {
		t.Fatalf("Log() failed: %v", err)
	}

	events, err := ReadRecentEvents(logger.SessionPath(), 1)
	if err != nil {
		t.Fatalf("ReadRecentEvents failed: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}

	logged := events[0]
	if logged.Category != CategoryWindow {
		t.Errorf("Category = %v, want %v", logged.Category, CategoryWindow)
	}
	if logged.EventType != "window_created" {
		t.Errorf("EventType = %v, want window_created", logged.EventType)
	}
	if logged.SessionID != "test-session" {
		t.Errorf("SessionID = %v, want test-session", logged.SessionID)
	}
	if logged.Timestamp.IsZero() {
		t.Error("Timestamp should be set automatically")
	}
	if logged.Details["title"] != "Test" {
		t.Errorf("Details[title] = %v, want Test", logged.Details["title"])
	}
}

func TestLogKeepsExplicitTimestamp(t *testing.T) {
	logger, err := NewLogger(t.TempDir(), "s")
	if err != nil {
		t.Fatalf("NewLogger failed: %v", err)
	}
	defer logger.Close()

	ts := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	logger.Log(Event{Timestamp: ts, Level: LevelInfo, Category: CategoryInput, EventType: "x"})

	events, _ := ReadRecentEvents(logger.SessionPath(), 1)
	if len(events) != 1 || !events[0].Timestamp.Equal(ts) {
		t.Errorf("timestamp not preserved: %+v", events)
	}
}

func TestLogErrorEvent(t *testing.T) {
	baseDir := t.TempDir()
	logger, err := NewLogger(baseDir, "test-session")
	if err != nil {
		t.Fatalf("NewLogger failed: %v", err)
	}
	defer logger.Close()

	logger.Info(CategoryDevice, "opened", "", nil)
	logger.Error(CategoryDevice, "read_failed", "pointer read failed", nil)

	errorsLog := filepath.Join(baseDir, "errors.jsonl")
	events, err := ReadRecentEvents(errorsLog, 10)
	if err != nil {
		t.Fatalf("ReadRecentEvents failed: %v", err)
	}
	if len(events) != 1 || events[0].EventType != "read_failed" {
		t.Errorf("errors.jsonl = %+v, want only read_failed", events)
	}
}

func TestSetMinLevel(t *testing.T) {
	logger, err := NewLogger(t.TempDir(), "test-session")
	if err != nil {
		t.Fatalf("NewLogger failed: %v", err)
	}
	defer logger.Close()

	logger.Debug(CategoryDispatch, "tick", "", nil)
	events, _ := ReadRecentEvents(logger.SessionPath(), 10)
	if len(events) != 0 {
		t.Errorf("expected 0 events (debug filtered), got %d", len(events))
	}

	logger.SetMinLevel(LevelDebug)
	logger.Debug(CategoryDispatch, "tick", "", nil)
	events, _ = ReadRecentEvents(logger.SessionPath(), 10)
	if len(events) != 1 {
		t.Errorf("expected 1 event after SetMinLevel(Debug), got %d", len(events))
	}

	logger.SetMinLevel(LevelError)
	logger.Warn(CategoryDispatch, "slow_tick", "", nil)
	events, _ = ReadRecentEvents(logger.SessionPath(), 10)
	if len(events) != 1 {
		t.Errorf("expected 1 event (warn filtered), got %d", len(events))
	}
}

func TestShouldLog(t *testing.T) {
	logger := &Logger{}

	tests := []struct {
		minLevel  Level
		logLevel  Level
		shouldLog bool
	}{
		{LevelDebug, LevelDebug, true},
		{LevelInfo, LevelDebug, false},
		{LevelInfo, LevelWarn, true},
		{LevelWarn, LevelInfo, false},
		{LevelError, LevelWarn, false},
		{LevelError, LevelError, true},
	}

	for _, tt := range tests {
		logger.minLevel = tt.minLevel
		if got := logger.shouldLog(tt.logLevel); got != tt.shouldLog {
			t.Errorf("shouldLog(%v) with minLevel %v = %v, want %v",
				tt.logLevel, tt.minLevel, got, tt.shouldLog)
		}
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]Level{
		"debug":   LevelDebug,
		"INFO":    LevelInfo,
		"Warning": LevelWarn,
		" error ": LevelError,
	}
	for in, want := range tests {
		got, ok := ParseLevel(in)
		if !ok || got != want {
			t.Errorf("ParseLevel(%q) = %v, %v; want %v", in, got, ok, want)
		}
	}
	if _, ok := ParseLevel("fatal"); ok {
		t.Error("ParseLevel(fatal) should be rejected")
	}
}

func TestConsoleMirror(t *testing.T) {
	var buf bytes.Buffer
	logger := NewConsoleLogger(&buf, "console-session")

	logger.Info(CategoryWindow, "window_closed", "window closed", map[string]any{"id": "abc"})
	logger.Debug(CategoryWindow, "hidden", "should not appear", nil)

	out := buf.String()
	if !strings.Contains(out, "window closed") {
		t.Errorf("console output missing message: %q", out)
	}
	if !strings.Contains(out, "category=window") {
		t.Errorf("console output missing category: %q", out)
	}
	if strings.Contains(out, "should not appear") {
		t.Errorf("debug event leaked at info level: %q", out)
	}
	if logger.SessionPath() != "" {
		t.Errorf("console logger SessionPath() = %q, want empty", logger.SessionPath())
	}
}

func TestNilLogger(t *testing.T) {
	var logger *Logger
	if err := logger.Info(CategoryInput, "x", "", nil); err != nil {
		t.Errorf("nil logger Info() = %v", err)
	}
	logger.SetMinLevel(LevelDebug)
	if err := logger.Close(); err != nil {
		t.Errorf("nil logger Close() = %v", err)
	}
}

func TestClose(t *testing.T) {
	logger, err := NewLogger(t.TempDir(), "test-session")
	if err != nil {
		t.Fatalf("NewLogger failed: %v", err)
	}
	if err := logger.Close(); err != nil {
		t.Errorf("Close() = %v", err)
	}
	if err := logger.Close(); err != nil {
		t.Errorf("second Close() = %v", err)
	}
	if err := logger.Info(CategorySession, "after_close", "", nil); err != nil {
		t.Errorf("Log after Close() = %v", err)
	}
}

func TestReadRecentEventsOrder(t *testing.T) {
	logger, err := NewLogger(t.TempDir(), "test-session")
	if err != nil {
		t.Fatalf("NewLogger failed: %v", err)
	}
	defer logger.Close()

	for _, typ := range []string{"a", "b", "c", "d"} {
		logger.Info(CategoryInput, typ, "", nil)
	}

	events, err := ReadRecentEvents(logger.SessionPath(), 2)
	if err != nil {
		t.Fatalf("ReadRecentEvents failed: %v", err)
	}
	if len(events) != 2 || events[0].EventType != "c" || events[1].EventType != "d" {
		t.Errorf("ReadRecentEvents = %+v, want c then d", events)
	}
}

func TestReadRecentEventsNonexistent(t *testing.T) {
	if _, err := ReadRecentEvents(filepath.Join(t.TempDir(), "missing.jsonl"), 1); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestConcurrentWrites(t *testing.T) {
	logger, err := NewLogger(t.TempDir(), "test-session")
	if err != nil {
		t.Fatalf("NewLogger failed: %v", err)
	}
	defer logger.Close()

	done := make(chan bool)
	for i := 0; i < 10; i++ {
		go func(id int) {
			for j := 0; j < 10; j++ {
				logger.Info(CategoryDispatch, "concurrent", "", map[string]any{
					"goroutine": id,
					"iteration": j,
				})
			}
			done <- true
		}(i)
	}
	for i := 0; i < 10; i++ {
		<-done
	}

	events, err := ReadRecentEvents(logger.SessionPath(), 200)
	if err != nil {
		t.Fatalf("ReadRecentEvents failed: %v", err)
	}
	if len(events) != 100 {
		t.Errorf("expected 100 events, got %d", len(events))
	}
}
