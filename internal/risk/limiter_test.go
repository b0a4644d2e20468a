package risk

import "testing"

func TestCheck_AllowsWithinAllLimits(t *testing.T) {
	l := New(nil)
	if reason, _ := l.Check(); reason != ReasonNone {
		t.Fatalf("reason = %q, want none", reason)
	}
}

func TestCheck_BlocksAtMaxOpenArbs(t *testing.T) {
	l := New(nil)
	for i := 0; i < MaxOpenArbs; i++ {
		l.RecordOpen()
	}
	reason, status := l.Check()
	if reason != ReasonMaxOpenArbs {
		t.Fatalf("reason = %q, want %q", reason, ReasonMaxOpenArbs)
	}
	if status.OpenArbs != MaxOpenArbs {
		t.Errorf("OpenArbs = %d, want %d", status.OpenArbs, MaxOpenArbs)
	}
}

func TestCheck_BlocksAtMaxDailyLoss(t *testing.T) {
	l := New(nil)
	l.RecordOrders(1, -MaxDailyLossCents)
	if reason, _ := l.Check(); reason != ReasonMaxDailyLoss {
		t.Fatalf("reason = %q, want %q", reason, ReasonMaxDailyLoss)
	}
}

func TestCheck_BlocksAtMaxDailyOrders(t *testing.T) {
	l := New(nil)
	l.RecordOrders(MaxDailyOrders, 0)
	if reason, _ := l.Check(); reason != ReasonMaxDailyOrders {
		t.Fatalf("reason = %q, want %q", reason, ReasonMaxDailyOrders)
	}
}

func TestRolloverLocked_ResetsDailyCountersButNotOpenArbs(t *testing.T) {
	l := New(nil)
	l.RecordOpen()
	l.RecordOrders(10, -200)

	// Force a rollover by backdating "today" directly.
	l.mu.Lock()
	l.today = "2000-01-01"
	l.mu.Unlock()

	_, status := l.Check()
	if status.DailyOrders != 0 {
		t.Errorf("DailyOrders after rollover = %d, want 0", status.DailyOrders)
	}
	if status.DailyPnLCents != 0 {
		t.Errorf("DailyPnLCents after rollover = %d, want 0", status.DailyPnLCents)
	}
	if status.OpenArbs != 1 {
		t.Errorf("OpenArbs after rollover = %d, want 1 (must survive rollover)", status.OpenArbs)
	}
}
