package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestLogFilePathDefaultsToWorkdirLogs(t *testing.T) {
	tmpDir := t.TempDir()
	oldWD, err := os.Getwd()
	if err != nil {
		t.Fatalf("get wd failed: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(oldWD) })
	if err := os.Chdir(tmpDir); err != nil {
		t.Fatalf("chdir failed: %v", err)
	}

	got, err := logFilePath(Options{})
	if err != nil {
		t.Fatalf("resolve default log path failed: %v", err)
	}
	realTmpDir, _ := filepath.EvalSymlinks(tmpDir)
	realGot, _ := filepath.EvalSymlinks(filepath.Dir(got))
	if realGot != filepath.Join(realTmpDir, defaultDir) || filepath.Base(got) != defaultFilename {
		t.Fatalf("unexpected log path: %s", got)
	}
}

func TestReleaseLoggerWritesJSONFile(t *testing.T) {
	tmpDir := t.TempDir()
	log := New("release", Options{Dir: tmpDir, Filename: "cart.log"})
	log.Sugar().Infow("cart_hydrated", "lines", 2)
	log.Sugar().Debugw("cart_line_vanished_on_add", "product_id", "1")
	_ = log.Sync()

	content, err := os.ReadFile(filepath.Join(tmpDir, "cart.log"))
	if err != nil {
		t.Fatalf("read release log failed: %v", err)
	}
	text := string(content)
	if !strings.Contains(text, `"message":"cart_hydrated"`) || !strings.Contains(text, `"lines":2`) {
		t.Fatalf("unexpected log content: %s", text)
	}
	if strings.Contains(text, "cart_line_vanished_on_add") {
		t.Fatalf("release mode defaults to info level: %s", text)
	}
}

func TestLevelOverride(t *testing.T) {
	tmpDir := t.TempDir()
	log := New("release", Options{Dir: tmpDir, Filename: "warn.log", Level: "WARN"})
	log.Info("cart_hydrated")
	log.Warn("cart_hydrate_failed")
	_ = log.Sync()

	content, err := os.ReadFile(filepath.Join(tmpDir, "warn.log"))
	if err != nil {
		t.Fatalf("read log failed: %v", err)
	}
	if strings.Contains(string(content), `"cart_hydrated"`) || !strings.Contains(string(content), "cart_hydrate_failed") {
		t.Fatalf("warn level should drop info entries: %s", content)
	}
}

func TestDebugLoggerSkipsFile(t *testing.T) {
	tmpDir := t.TempDir()
	log := New(" DEBUG ", Options{Dir: tmpDir, Filename: "debug.log"})
	log.Info("debug-log-test")

	if _, err := os.Stat(filepath.Join(tmpDir, "debug.log")); !os.IsNotExist(err) {
		t.Fatalf("debug mode should not create log file")
	}
}

func TestResolveLevel(t *testing.T) {
	cases := []struct {
		raw   string
		debug bool
		want  zapcore.Level
	}{
		{raw: "", debug: true, want: zapcore.DebugLevel},
		{raw: "", debug: false, want: zapcore.InfoLevel},
		{raw: "error", debug: true, want: zapcore.ErrorLevel},
		{raw: "loud", debug: false, want: zapcore.InfoLevel},
	}
	for _, tc := range cases {
		if got := resolveLevel(tc.raw, tc.debug).Level(); got != tc.want {
			t.Fatalf("resolveLevel(%q,%v) want %s got %s", tc.raw, tc.debug, tc.want, got)
		}
	}
}

func TestPositiveOr(t *testing.T) {
	if positiveOr(0, 7) != 7 || positiveOr(-3, 7) != 7 || positiveOr(3, 7) != 3 {
		t.Fatalf("unexpected positiveOr result")
	}
}
