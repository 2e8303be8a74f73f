package cli

import (
	"bytes"
	"errors"
	"os/exec"
	"strings"
	"testing"

	"github.com/julienstroheker/linegate/internal/logging"
)

func testLogger(buf *bytes.Buffer) *logging.Logger {
	return logging.NewWithOutput(logging.DebugLevel, logging.FormatConsole, buf)
}

func TestBuildHooks_Patterns(t *testing.T) {
	logs := &bytes.Buffer{}
	hooks, err := buildHooks(runOptions{patterns: []string{"up", "listening"}}, testLogger(logs))
	if err != nil {
		t.Fatalf("buildHooks failed: %v", err)
	}
	if len(hooks) != 2 {
		t.Fatalf("Expected 2 hooks, got %d", len(hooks))
	}

	hooks[0].Fn("service is up")
	if !strings.Contains(logs.String(), "Pattern matched") {
		t.Errorf("Expected match to be logged, got: %q", logs.String())
	}
	if !strings.Contains(logs.String(), "pattern=up") {
		t.Errorf("Expected pattern field in log, got: %q", logs.String())
	}
}

func TestBuildHooks_InvalidPattern(t *testing.T) {
	_, err := buildHooks(runOptions{patterns: []string{"(unclosed"}}, nil)
	if err == nil {
		t.Fatal("Expected error for invalid pattern")
	}
}

func TestBuildHooks_AwaitFiresOnce(t *testing.T) {
	logs := &bytes.Buffer{}
	hooks, err := buildHooks(runOptions{await: "ready"}, testLogger(logs))
	if err != nil {
		t.Fatalf("buildHooks failed: %v", err)
	}
	if len(hooks) != 1 {
		t.Fatalf("Expected 1 hook, got %d", len(hooks))
	}

	hooks[0].Fn("ready on :8080")
	hooks[0].Fn("ready again")

	if got := strings.Count(logs.String(), "Service is ready"); got != 1 {
		t.Errorf("Expected ready to be logged once, logged %d times: %q", got, logs.String())
	}
}

func TestApplyEncodings_InvalidName(t *testing.T) {
	err := applyEncodings(runOptions{sourceEncoding: "no-such-charset"})
	if err == nil {
		t.Error("Expected error for unknown source encoding")
	}

	err = applyEncodings(runOptions{outputEncoding: "no-such-charset"})
	if err == nil {
		t.Error("Expected error for unknown output encoding")
	}
}

func TestRunProcess_RelaysDecoratedOutput(t *testing.T) {
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	logs := &bytes.Buffer{}

	opts := runOptions{
		prefix: "[svc] ",
		header: "--- begin ---\n",
		footer: "--- end ---\n",
	}
	err := runProcess(opts, []string{"echo", "hello world"}, stdout, stderr, testLogger(logs))
	if err != nil {
		t.Fatalf("runProcess failed: %v", err)
	}

	expected := "--- begin ---\n[svc] hello world\n--- end ---\n"
	if stdout.String() != expected {
		t.Errorf("Expected stdout %q, got %q", expected, stdout.String())
	}
	if stderr.Len() != 0 {
		t.Errorf("Expected empty stderr, got %q", stderr.String())
	}
}

func TestRunProcess_PatternHookFires(t *testing.T) {
	stdout := &bytes.Buffer{}
	logs := &bytes.Buffer{}

	opts := runOptions{patterns: []string{"Service is (up|running)"}}
	err := runProcess(opts, []string{"echo", "Service is running on 127.0.0.1:1111"}, stdout, &bytes.Buffer{}, testLogger(logs))
	if err != nil {
		t.Fatalf("runProcess failed: %v", err)
	}

	if !strings.Contains(stdout.String(), "Service is running") {
		t.Errorf("Expected relayed line in stdout, got %q", stdout.String())
	}
	if !strings.Contains(logs.String(), "Pattern matched") {
		t.Errorf("Expected match to be logged, got %q", logs.String())
	}
}

func TestRunProcess_RelaysStderr(t *testing.T) {
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}

	opts := runOptions{prefix: "! "}
	err := runProcess(opts, []string{"sh", "-c", "echo oops >&2"}, stdout, stderr, nil)
	if err != nil {
		t.Fatalf("runProcess failed: %v", err)
	}

	if stderr.String() != "! oops\n" {
		t.Errorf("Expected stderr %q, got %q", "! oops\n", stderr.String())
	}
	// Header and footer frame stdout only
	if stdout.Len() != 0 {
		t.Errorf("Expected empty stdout, got %q", stdout.String())
	}
}

func TestRunProcess_PropagatesExitError(t *testing.T) {
	err := runProcess(runOptions{}, []string{"sh", "-c", "exit 3"}, &bytes.Buffer{}, &bytes.Buffer{}, nil)
	if err == nil {
		t.Fatal("Expected error for non-zero exit")
	}

	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("Expected *exec.ExitError, got: %v", err)
	}
	if exitErr.ExitCode() != 3 {
		t.Errorf("Expected exit code 3, got %d", exitErr.ExitCode())
	}
}

func TestRunProcess_UnknownCommand(t *testing.T) {
	err := runProcess(runOptions{}, []string{"definitely-not-a-command"}, &bytes.Buffer{}, &bytes.Buffer{}, nil)
	if err == nil {
		t.Fatal("Expected error for unknown command")
	}
	if !strings.Contains(err.Error(), "starting command") {
		t.Errorf("Expected start failure, got: %v", err)
	}
}

func TestRunProcess_InvalidEncoding(t *testing.T) {
	err := runProcess(runOptions{sourceEncoding: "no-such-charset"}, []string{"echo", "x"}, &bytes.Buffer{}, &bytes.Buffer{}, nil)
	if err == nil {
		t.Fatal("Expected error for unknown encoding")
	}
}
