package tracelog_test

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/jellevandenhooff/weft/internal/tracelog"
)

func TestWriterOrdersStepAndThreadFirst(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(tracelog.NewWriter(&buf), nil))

	logger.Info("put completed", "step", 3, "thread", 1, "cvar", 7)

	out := buf.String()
	stepIdx := strings.Index(out, "3")
	threadIdx := strings.Index(out, "t1")
	msgIdx := strings.Index(out, "put completed")
	cvarIdx := strings.Index(out, "cvar=")

	if stepIdx == -1 || threadIdx == -1 || msgIdx == -1 || cvarIdx == -1 {
		t.Fatalf("expected all parts present in output: %q", out)
	}
	if !(stepIdx < threadIdx && threadIdx < msgIdx && msgIdx < cvarIdx) {
		t.Fatalf("expected step < thread < message < fields ordering, got: %q", out)
	}
}

func TestWriterQuotesFieldsNeedingIt(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(tracelog.NewWriter(&buf), nil))

	logger.Info("scheduled", "reason", "space separated")

	if !strings.Contains(buf.String(), `reason="space separated"`) {
		t.Fatalf("expected quoted field value, got: %q", buf.String())
	}
}

func TestWriterPutsErrorFieldFirstAmongFields(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(tracelog.NewWriter(&buf), nil))

	logger.Info("failed", "zz", "last", "err", "boom")

	out := buf.String()
	errIdx := strings.Index(out, "err=")
	zzIdx := strings.Index(out, "zz=")
	if errIdx == -1 || zzIdx == -1 || errIdx > zzIdx {
		t.Fatalf("expected err= field before zz= field, got: %q", out)
	}
}

func TestWriterRendersWokenAsThreadList(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(tracelog.NewWriter(&buf), &slog.HandlerOptions{Level: slog.LevelDebug}))

	logger.Debug("Put", "step", 1, "thread", 0, "decision", "Start", "woken", []int{2, 3})

	out := buf.String()
	if !strings.Contains(out, "woken=[t2 t3]") {
		t.Fatalf("expected woken=[t2 t3], got: %q", out)
	}
	if !strings.Contains(out, "decision=Start") {
		t.Fatalf("expected decision=Start, got: %q", out)
	}
}
