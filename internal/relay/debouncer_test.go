package relay

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// recordingSender captures sent payloads.
type recordingSender struct {
	mu       sync.Mutex
	payloads []Payload
	err      error
}

func (r *recordingSender) send(ctx context.Context, payload Payload) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.payloads = append(r.payloads, payload)
	return nil
}

func (r *recordingSender) sent() []Payload {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Payload, len(r.payloads))
	copy(out, r.payloads)
	return out
}

func (r *recordingSender) setErr(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.err = err
}

func TestSubmitCoalescesToLastPayload(t *testing.T) {
	sender := &recordingSender{}
	d := NewDebouncer(true, 50*time.Millisecond, sender.send, nil, nil)
	defer d.Stop()

	// Submissions at t=0, ~10ms, ~20ms within one 50ms window.
	d.Submit(Payload{ID: "1"})
	time.Sleep(10 * time.Millisecond)
	d.Submit(Payload{ID: "2"})
	time.Sleep(10 * time.Millisecond)
	d.Submit(Payload{ID: "3"})

	time.Sleep(100 * time.Millisecond)

	sent := sender.sent()
	if len(sent) != 1 {
		t.Fatalf("expected exactly 1 send per window, got %d", len(sent))
	}
	if sent[0].ID != "3" {
		t.Errorf("expected last submission to win, got payload %q", sent[0].ID)
	}
}

func TestSubmitDisabledIsNoop(t *testing.T) {
	sender := &recordingSender{}
	d := NewDebouncer(false, 10*time.Millisecond, sender.send, nil, nil)
	defer d.Stop()

	d.Submit(Payload{ID: "1"})
	time.Sleep(50 * time.Millisecond)

	if len(sender.sent()) != 0 {
		t.Errorf("disabled debouncer must not send, got %d sends", len(sender.sent()))
	}
}

func TestConsecutiveWindowsSendIndependently(t *testing.T) {
	sender := &recordingSender{}
	d := NewDebouncer(true, 30*time.Millisecond, sender.send, nil, nil)
	defer d.Stop()

	d.Submit(Payload{ID: "a"})
	time.Sleep(60 * time.Millisecond)
	d.Submit(Payload{ID: "b"})
	time.Sleep(60 * time.Millisecond)

	sent := sender.sent()
	if len(sent) != 2 {
		t.Fatalf("expected 2 sends across 2 windows, got %d", len(sent))
	}
	if sent[0].ID != "a" || sent[1].ID != "b" {
		t.Errorf("expected sends [a b], got %v", sent)
	}
}

func TestSendFailureDoesNotBlockNextWindow(t *testing.T) {
	sender := &recordingSender{}
	sender.setErr(errors.New("network down"))
	d := NewDebouncer(true, 20*time.Millisecond, sender.send, nil, nil)
	defer d.Stop()

	d.Submit(Payload{ID: "fails"})
	time.Sleep(50 * time.Millisecond)

	sender.setErr(nil)
	d.Submit(Payload{ID: "recovers"})
	time.Sleep(50 * time.Millisecond)

	sent := sender.sent()
	if len(sent) != 1 {
		t.Fatalf("expected 1 successful send after recovery, got %d", len(sent))
	}
	if sent[0].ID != "recovers" {
		t.Errorf("expected payload 'recovers', got %q", sent[0].ID)
	}
}

func TestStopCancelsPendingSend(t *testing.T) {
	sender := &recordingSender{}
	d := NewDebouncer(true, 30*time.Millisecond, sender.send, nil, nil)

	d.Submit(Payload{ID: "doomed"})
	d.Stop()
	time.Sleep(60 * time.Millisecond)

	if len(sender.sent()) != 0 {
		t.Errorf("expected no send after Stop, got %d", len(sender.sent()))
	}

	// Submits after Stop stay no-ops.
	d.Submit(Payload{ID: "late"})
	time.Sleep(60 * time.Millisecond)
	if len(sender.sent()) != 0 {
		t.Errorf("expected no send for submit after Stop, got %d", len(sender.sent()))
	}
}

func TestSubmitDuringActiveWindowDoesNotExtendIt(t *testing.T) {
	sender := &recordingSender{}
	d := NewDebouncer(true, 60*time.Millisecond, sender.send, nil, nil)
	defer d.Stop()

	start := time.Now()
	d.Submit(Payload{ID: "first"})
	// Keep submitting past the original deadline; the timer must not reset.
	for time.Since(start) < 50*time.Millisecond {
		d.Submit(Payload{ID: "again"})
		time.Sleep(5 * time.Millisecond)
	}
	time.Sleep(40 * time.Millisecond)

	sent := sender.sent()
	if len(sent) != 1 {
		t.Fatalf("expected a single send at original expiry, got %d", len(sent))
	}
}
