package wrappers

import (
	"context"
	"strings"
	"testing"
	"time"
)

func TestRunCommandExitCodes(t *testing.T) {
	ctx := context.Background()

	code, stdout, _ := runCommand(ctx, "", 0, "sh", "-c", "echo hello")
	if code != 0 || stdout != "hello" {
		t.Errorf("expected 0/hello, got %d/%q", code, stdout)
	}

	code, _, _ = runCommand(ctx, "", 0, "sh", "-c", "exit 3")
	if code != 3 {
		t.Errorf("expected exit 3, got %d", code)
	}

	code, _, stderr := runCommand(ctx, "", 0, "definitely-not-a-binary-xyz")
	if code != exitCommandNotFound {
		t.Errorf("expected %d for missing binary, got %d", exitCommandNotFound, code)
	}
	if !strings.Contains(stderr, "could not be started") {
		t.Errorf("expected start failure message, got %q", stderr)
	}
}

func TestRunCommandTimeout(t *testing.T) {
	code, _, stderr := runCommand(context.Background(), "", 50*time.Millisecond, "sh", "-c", "sleep 5")
	if code != exitTimeout {
		t.Errorf("expected %d on timeout, got %d", exitTimeout, code)
	}
	if !strings.Contains(stderr, "timed out") {
		t.Errorf("expected timeout message, got %q", stderr)
	}
}

func TestDecodeLenient(t *testing.T) {
	var v struct {
		A int `json:"a"`
	}

	if !decodeLenient(`{"a": 1}`, &v) || v.A != 1 {
		t.Error("expected strict parse to succeed")
	}

	v.A = 0
	noisy := "WARNING: deprecation notice\n{\"a\": 2}\ntrailing log line"
	if !decodeLenient(noisy, &v) || v.A != 2 {
		t.Errorf("expected noisy payload recovery, got a=%d", v.A)
	}

	if decodeLenient("no json here at all", &v) {
		t.Error("expected failure on output with no JSON object")
	}
	if decodeLenient("", &v) {
		t.Error("expected failure on empty output")
	}
}

func TestFirstNonEmpty(t *testing.T) {
	if got := firstNonEmpty("", "  ", "value", "other"); got != "value" {
		t.Errorf("expected value, got %q", got)
	}
	if got := firstNonEmpty("", "  "); got != "" {
		t.Errorf("expected empty result, got %q", got)
	}
}
