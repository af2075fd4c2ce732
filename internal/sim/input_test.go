package sim

import "testing"

func TestInputBufferOffer(t *testing.T) {
	tests := []struct {
		name   string
		active Direction
		offers []Direction
		want   Direction
		held   bool
	}{
		{"empty accepts turn", Right, []Direction{Up}, Up, true},
		{"same direction accepted", Right, []Direction{Right}, Right, true},
		{"reverse rejected", Right, []Direction{Left}, Right, false},
		{"second offer dropped", Right, []Direction{Up, Down}, Up, true},
		{"reverse checked against active, not pending", Up, []Direction{Down, Left}, Left, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var b InputBuffer
			for _, d := range tt.offers {
				b.Offer(d, tt.active)
			}
			if _, held := b.Pending(); held != tt.held {
				t.Fatalf("pending = %v, want %v", held, tt.held)
			}
			if got := b.Consume(tt.active); got != tt.want {
				t.Errorf("Consume = %v, want %v", got, tt.want)
			}
			if _, held := b.Pending(); held {
				t.Error("slot not cleared by Consume")
			}
		})
	}
}

func TestIntentDirection(t *testing.T) {
	for _, d := range []Direction{Up, Down, Left, Right} {
		got, ok := IntentFor(d).Direction()
		if !ok || got != d {
			t.Errorf("IntentFor(%v).Direction() = %v, %v", d, got, ok)
		}
	}
	for _, i := range []Intent{IntentNone, IntentTogglePause, IntentRestart} {
		if _, ok := i.Direction(); ok {
			t.Errorf("%v reported a direction", i)
		}
	}
}
