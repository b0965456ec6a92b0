package notify

import (
	"testing"
	"time"
)

func newTestQueue(now *time.Time) *Queue {
	q := NewQueue()
	q.now = func() time.Time { return *now }
	return q
}

func TestPushUsesDefaultDuration(t *testing.T) {
	now := time.Unix(0, 0)
	q := newTestQueue(&now)

	id := q.Info("Weather updated")
	if id == "" {
		t.Fatal("Expected an id")
	}

	active := q.Active(now.Add(DefaultDuration - time.Millisecond))
	if len(active) != 1 {
		t.Fatalf("Expected 1 notification, got %d", len(active))
	}
	if active[0].Kind != Info || active[0].Duration != DefaultDuration {
		t.Errorf("Expected info with default duration, got %+v", active[0])
	}

	if active := q.Active(now.Add(DefaultDuration)); len(active) != 0 {
		t.Errorf("Expected notification to expire, got %d", len(active))
	}
}

func TestPushNeverExpires(t *testing.T) {
	now := time.Unix(0, 0)
	q := newTestQueue(&now)

	q.Push(Warning, "sticky", -1)
	if active := q.Active(now.Add(time.Hour)); len(active) != 1 {
		t.Errorf("Expected sticky notification, got %d", len(active))
	}
}

func TestActiveOrderAndDismiss(t *testing.T) {
	now := time.Unix(0, 0)
	q := newTestQueue(&now)

	first := q.Success("one")
	q.Error("two")

	active := q.Active(now)
	if len(active) != 2 || active[0].Message != "one" || active[1].Message != "two" {
		t.Fatalf("Expected oldest first, got %+v", active)
	}

	if !q.Dismiss(first) {
		t.Errorf("Expected dismiss to succeed")
	}
	if q.Dismiss(first) {
		t.Errorf("Expected second dismiss to fail")
	}
	if active := q.Active(now); len(active) != 1 || active[0].Kind != Error {
		t.Errorf("Expected only the error left, got %+v", active)
	}

	q.Clear()
	if active := q.Active(now); len(active) != 0 {
		t.Errorf("Expected empty queue, got %d", len(active))
	}
}

func TestDisabledQueueKeepsErrors(t *testing.T) {
	now := time.Unix(0, 0)
	q := newTestQueue(&now)
	q.SetEnabled(false)

	if id := q.Info("ignored"); id != "" {
		t.Errorf("Expected info to be dropped, got %q", id)
	}
	if id := q.Error("kept"); id == "" {
		t.Errorf("Expected error to be kept")
	}
	if active := q.Active(now); len(active) != 1 {
		t.Errorf("Expected 1 notification, got %d", len(active))
	}
}
