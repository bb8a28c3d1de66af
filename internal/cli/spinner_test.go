package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"
)

func quietSpinner(ctx context.Context, msg string) (*Spinner, *bytes.Buffer) {
	var buf bytes.Buffer
	s := newSpinnerWithContext(ctx, msg)
	s.w = &buf
	return s, &buf
}

func TestSpinnerDraws(t *testing.T) {
	s, _ := quietSpinner(context.Background(), "Rendering sacred...")
	s.Start()
	time.Sleep(250 * time.Millisecond)
	s.Stop()

	// Stop waits for the goroutine, so reading the buffer is race-free.
	s.mu.Lock()
	out := s.w.(*bytes.Buffer).String()
	s.mu.Unlock()
	if !strings.Contains(out, "Rendering sacred...") {
		t.Errorf("spinner output %q does not contain the message", out)
	}
	if s.Cancelled() {
		t.Error("Cancelled() = true after a plain Stop")
	}
}

func TestSpinnerParentCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s, _ := quietSpinner(ctx, "x")
	s.Start()
	cancel()
	s.Stop()

	if !s.Cancelled() {
		t.Error("Cancelled() = false after parent cancellation")
	}
}

func TestSpinnerStopIdempotent(t *testing.T) {
	s, _ := quietSpinner(context.Background(), "x")
	s.Start()
	s.Start()
	s.Stop()
	s.Stop()
}

func TestSpinnerStopWithoutStart(t *testing.T) {
	s, _ := quietSpinner(context.Background(), "x")
	done := make(chan struct{})
	go func() {
		s.Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Stop() blocked on a spinner that never started")
	}
}

func TestSpinnerStopWithMessages(t *testing.T) {
	var out bytes.Buffer
	old := stdout
	stdout = &out
	defer func() { stdout = old }()

	s, _ := quietSpinner(context.Background(), "x")
	s.Start()
	s.StopWithSuccess("Rendered")
	s2, _ := quietSpinner(context.Background(), "y")
	s2.StopWithError("Failed")

	if !strings.Contains(out.String(), "Rendered") || !strings.Contains(out.String(), "Failed") {
		t.Errorf("output = %q", out.String())
	}
}
