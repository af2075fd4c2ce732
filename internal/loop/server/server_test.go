package server

import (
	"testing"
	"time"

	"github.com/tomz197/gridsnake/internal/logx"
)

func TestRegisterAndUnregister(t *testing.T) {
	s := NewServer(logx.Discard())
	a := s.RegisterClient("alice")
	b := s.RegisterClient("bob")
	if a.ID == b.ID {
		t.Fatalf("duplicate client id %d", a.ID)
	}

	active := s.Active()
	if len(active) != 2 || active[0].Username != "alice" || active[1].Username != "bob" {
		t.Fatalf("Active() = %+v", active)
	}

	s.UnregisterClient(a.ID)
	if _, ok := <-a.EventsCh; ok {
		t.Error("events channel should be closed after unregister")
	}
	if got := len(s.Active()); got != 1 {
		t.Errorf("active after unregister = %d, want 1", got)
	}

	// Unknown and repeated ids are ignored.
	s.UnregisterClient(a.ID)
	s.UnregisterClient(999)
}

func TestReportScoreTracksBest(t *testing.T) {
	s := NewServer(logx.Discard())
	h := s.RegisterClient("carol")

	s.ReportScore(h.ID, 5)
	s.ReportScore(h.ID, 2)
	s.ReportScore(404, 50)

	got := s.Active()[0]
	if got.Score != 2 || got.Best != 5 {
		t.Errorf("score/best = %d/%d, want 2/5", got.Score, got.Best)
	}
}

func TestShutdownNotifiesAndWaits(t *testing.T) {
	s := NewServer(logx.Discard())
	h := s.RegisterClient("dave")

	go func() {
		ev := <-h.EventsCh
		if ev.Type == EventServerShutdown {
			s.UnregisterClient(h.ID)
		}
	}()

	if remaining := s.Shutdown(5 * time.Second); remaining != 0 {
		t.Errorf("remaining = %d, want 0", remaining)
	}
}

func TestShutdownTimesOut(t *testing.T) {
	s := NewServer(logx.Discard())
	s.RegisterClient("erin")

	start := time.Now()
	if remaining := s.Shutdown(50 * time.Millisecond); remaining != 1 {
		t.Errorf("remaining = %d, want 1", remaining)
	}
	if time.Since(start) > 2*time.Second {
		t.Error("Shutdown did not honour its timeout")
	}
}

func TestRegisterDuringShutdown(t *testing.T) {
	s := NewServer(logx.Discard())
	s.Shutdown(0)

	h := s.RegisterClient("late")
	select {
	case ev := <-h.EventsCh:
		if ev.Type != EventServerShutdown {
			t.Errorf("event = %v, want shutdown", ev.Type)
		}
	default:
		t.Error("late client was not told about the shutdown")
	}
}

func TestBroadcast(t *testing.T) {
	s := NewServer(logx.Discard())
	h := s.RegisterClient("frank")
	s.Broadcast("restarting soon")

	ev := <-h.EventsCh
	if ev.Type != EventNotice || ev.Text != "restarting soon" {
		t.Errorf("event = %+v", ev)
	}
}
