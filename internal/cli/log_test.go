package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/dockworks/pkg/config"
)

func TestNewLoggerLevels(t *testing.T) {
	tests := []struct {
		name    string
		level   log.Level
		logFunc func(*log.Logger)
		wantLog bool
	}{
		{"info at info", log.InfoLevel, func(l *log.Logger) { l.Info("restored") }, true},
		{"debug at info", log.InfoLevel, func(l *log.Logger) { l.Debug("request") }, false},
		{"debug at debug", log.DebugLevel, func(l *log.Logger) { l.Debug("request") }, true},
		{"warn at error", log.ErrorLevel, func(l *log.Logger) { l.Warn("skipped record") }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.logFunc(newLogger(&buf, tt.level))
			if got := buf.Len() > 0; got != tt.wantLog {
				t.Errorf("wrote output = %v, want %v", got, tt.wantLog)
			}
		})
	}
}

func TestNewLoggerKeyValues(t *testing.T) {
	var buf bytes.Buffer
	newLogger(&buf, log.InfoLevel).Warn("skipped record", "dock", "clip 2", "index", 4)

	out := buf.String()
	for _, want := range []string{"skipped record", "dock=", "index=4"} {
		if !strings.Contains(out, want) {
			t.Errorf("output %q lacks %q", out, want)
		}
	}
}

func TestProgress(t *testing.T) {
	var buf bytes.Buffer
	prog := newProgress(newLogger(&buf, log.InfoLevel))
	time.Sleep(5 * time.Millisecond)
	prog.done("Restored 3 icons")

	if out := buf.String(); !strings.Contains(out, "Restored 3 icons (") {
		t.Errorf("progress output = %q, want message with elapsed time", out)
	}
}

func TestTeeLogFile(t *testing.T) {
	var buf bytes.Buffer
	path := filepath.Join(t.TempDir(), "dockworks.log")
	logger := newLogger(&buf, log.InfoLevel)

	closer := teeLogFile(logger, &buf, path)
	logger.Info("restored", "icons", 3)
	if err := closer.Close(); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("log file not written: %v", err)
	}
	if !bytes.Contains(data, []byte("restored")) || !bytes.Contains(buf.Bytes(), []byte("restored")) {
		t.Errorf("message missing: file %q, stderr %q", data, buf.String())
	}
}

func TestApplyLogConfig(t *testing.T) {
	tests := []struct {
		name  string
		start log.Level
		cfg   string
		want  log.Level
	}{
		{"config raises level", log.InfoLevel, "warn", log.WarnLevel},
		{"config lowers level", log.InfoLevel, "debug", log.DebugLevel},
		{"verbose flag wins", log.DebugLevel, "error", log.DebugLevel},
		{"empty keeps level", log.InfoLevel, "", log.InfoLevel},
		{"bad level ignored", log.InfoLevel, "loud", log.InfoLevel},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			c := New(&buf, tt.start)
			cfg := config.Default()
			cfg.Log.Level = tt.cfg
			c.applyLogConfig(cfg)
			if got := c.Logger.GetLevel(); got != tt.want {
				t.Errorf("level = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLoggerFromContext(t *testing.T) {
	if loggerFromContext(context.Background()) != log.Default() {
		t.Error("loggerFromContext(empty) is not the default logger")
	}

	custom := newLogger(&bytes.Buffer{}, log.InfoLevel)
	ctx := withLogger(context.Background(), custom)
	if got := loggerFromContext(ctx); got != custom {
		t.Error("loggerFromContext did not return the attached logger")
	}
}
