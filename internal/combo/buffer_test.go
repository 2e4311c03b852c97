package combo

import (
	"errors"
	"testing"
	"time"

	"github.com/vovakirdan/tui-combo/internal/core"
)

const ms = time.Millisecond

func newTestBuffer(t *testing.T, capacity int, timing Timing) *Buffer {
	t.Helper()
	buf, err := NewBuffer(capacity, timing)
	if err != nil {
		t.Fatalf("NewBuffer() failed: %v", err)
	}
	return buf
}

func assertEntries(t *testing.T, buf *Buffer, expected ...core.Buttons) {
	t.Helper()
	got := buf.Entries()
	if len(got) != len(expected) {
		t.Fatalf("Entries() = [%s], expected [%s]", core.FormatSequence(got), core.FormatSequence(expected))
	}
	for i := range got {
		if got[i] != expected[i] {
			t.Fatalf("Entries() = [%s], expected [%s]", core.FormatSequence(got), core.FormatSequence(expected))
		}
	}
}

func TestNewBufferValidation(t *testing.T) {
	tests := []struct {
		name     string
		capacity int
		timing   Timing
		wantErr  error
	}{
		{"zero capacity", 0, DefaultTiming(), ErrInvalidCapacity},
		{"negative capacity", -3, DefaultTiming(), ErrInvalidCapacity},
		{"zero expiry", 4, Timing{Expiry: 0, MergeWindow: 100 * ms}, ErrInvalidTiming},
		{"negative merge window", 4, Timing{Expiry: 500 * ms, MergeWindow: -1}, ErrInvalidTiming},
		{"valid", 4, DefaultTiming(), nil},
		{"merging disabled", 4, Timing{Expiry: 500 * ms}, nil},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewBuffer(tc.capacity, tc.timing)
			if tc.wantErr == nil {
				if err != nil {
					t.Errorf("NewBuffer() unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tc.wantErr) {
				t.Errorf("NewBuffer() error = %v, expected %v", err, tc.wantErr)
			}
		})
	}
}

func TestBufferAppendsOutsideMergeWindow(t *testing.T) {
	buf := newTestBuffer(t, 5, DefaultTiming())

	r := buf.Update(0, core.ButtonDown, true)
	if r.Action != UpdateAppended {
		t.Errorf("first Update action = %v, expected appended", r.Action)
	}
	buf.Update(150*ms, core.ButtonA, false)

	assertEntries(t, buf, core.ButtonDown, core.ButtonA)
	if buf.LastInput() != 150*ms {
		t.Errorf("LastInput() = %v, expected 150ms", buf.LastInput())
	}
}

func TestBufferMergesWithinWindow(t *testing.T) {
	buf := newTestBuffer(t, 5, DefaultTiming())

	buf.Update(0, core.ButtonDown, true)
	r := buf.Update(50*ms, core.ButtonDown|core.ButtonA, false)

	if r.Action != UpdateMerged {
		t.Errorf("Update action = %v, expected merged", r.Action)
	}
	assertEntries(t, buf, core.ButtonDown|core.ButtonA)
}

func TestBufferDirectionChangeForcesNewEntry(t *testing.T) {
	buf := newTestBuffer(t, 5, DefaultTiming())

	buf.Update(0, core.ButtonDown, true)
	buf.Update(20*ms, core.ButtonDownRight, true)

	assertEntries(t, buf, core.ButtonDown, core.ButtonDownRight)
}

func TestBufferMergeWindowBoundaryIsExclusive(t *testing.T) {
	buf := newTestBuffer(t, 5, DefaultTiming())

	buf.Update(0, core.ButtonA, false)
	buf.Update(100*ms, core.ButtonB, false)

	assertEntries(t, buf, core.ButtonA, core.ButtonB)
}

func TestBufferMergeAnchor(t *testing.T) {
	tests := []struct {
		name     string
		extends  bool
		expected []core.Buttons
	}{
		{
			// Anchor stays at 0: the press at 120ms is outside the window
			name:     "anchored at append",
			extends:  false,
			expected: []core.Buttons{core.ButtonA | core.ButtonB, core.ButtonX},
		},
		{
			// Anchor follows each merge: every press lands within 100ms of the last
			name:     "extends on merge",
			extends:  true,
			expected: []core.Buttons{core.ButtonA | core.ButtonB | core.ButtonX},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			timing := DefaultTiming()
			timing.MergeExtendsWindow = tc.extends
			buf := newTestBuffer(t, 5, timing)

			buf.Update(0, core.ButtonA, false)
			buf.Update(60*ms, core.ButtonB, false)
			buf.Update(120*ms, core.ButtonX, false)

			assertEntries(t, buf, tc.expected...)
		})
	}
}

func TestBufferExpiry(t *testing.T) {
	buf := newTestBuffer(t, 5, DefaultTiming())

	buf.Update(0, core.ButtonDown, true)
	buf.Update(200*ms, core.ButtonRight, true)

	// Exactly at the expiry window nothing is discarded
	buf.Update(700*ms, core.ButtonNone, false)
	if buf.Len() != 2 {
		t.Fatalf("Len() = %d at the expiry boundary, expected 2", buf.Len())
	}

	// Past the window the old entries are discarded before the new chord
	r := buf.Update(701*ms, core.ButtonA, false)
	if !r.Expired {
		t.Error("Update should report expiry")
	}
	if r.Action != UpdateAppended {
		t.Errorf("Update action = %v, expected appended", r.Action)
	}
	assertEntries(t, buf, core.ButtonA)
}

func TestBufferExpiresOnIdleTick(t *testing.T) {
	buf := newTestBuffer(t, 5, DefaultTiming())

	buf.Update(0, core.ButtonDown, true)
	r := buf.Update(600*ms, core.ButtonNone, false)

	if !r.Expired || r.Action != UpdateIdle {
		t.Errorf("Update() = %+v, expected idle expiry", r)
	}
	if buf.Len() != 0 {
		t.Errorf("Len() = %d, expected 0", buf.Len())
	}
}

func TestBufferIdleTicksKeepAnchor(t *testing.T) {
	buf := newTestBuffer(t, 5, DefaultTiming())

	buf.Update(0, core.ButtonA, false)
	for now := 10 * ms; now < 90*ms; now += 10 * ms {
		buf.Update(now, core.ButtonNone, false)
	}
	if buf.LastInput() != 0 {
		t.Errorf("LastInput() = %v after idle ticks, expected 0", buf.LastInput())
	}

	// Still inside the window anchored at 0
	buf.Update(90*ms, core.ButtonB, false)
	assertEntries(t, buf, core.ButtonA|core.ButtonB)
}

func TestBufferEvictsOldest(t *testing.T) {
	buf := newTestBuffer(t, 3, DefaultTiming())

	chords := []core.Buttons{core.ButtonUp, core.ButtonDown, core.ButtonLeft, core.ButtonRight}
	var evicted bool
	for i, c := range chords {
		r := buf.Update(time.Duration(i)*150*ms, c, true)
		evicted = r.Evicted
	}

	if !evicted {
		t.Error("last Update should report eviction")
	}
	assertEntries(t, buf, core.ButtonDown, core.ButtonLeft, core.ButtonRight)
}

func TestBufferNeverExceedsCapacity(t *testing.T) {
	const capacity = 4
	buf := newTestBuffer(t, capacity, DefaultTiming())

	// Deterministic pseudo-random walk over chords and gaps
	seed := uint32(7)
	next := func() uint32 {
		seed = seed*1664525 + 1013904223
		return seed >> 8
	}

	var now time.Duration
	for i := 0; i < 2000; i++ {
		now += time.Duration(next()%180) * ms
		chord := core.Buttons(next() % 256)
		buf.Update(now, chord, next()%2 == 0)
		if buf.Len() > capacity {
			t.Fatalf("Len() = %d after %d updates, capacity is %d", buf.Len(), i+1, capacity)
		}
	}
}

func TestBufferMatches(t *testing.T) {
	buf := newTestBuffer(t, 5, DefaultTiming())
	buf.Update(0, core.ButtonDown, true)
	buf.Update(150*ms, core.ButtonDownRight, true)
	buf.Update(300*ms, core.ButtonRight|core.ButtonA, true)

	tests := []struct {
		name     string
		move     Move
		expected bool
	}{
		{"full sequence", NewMove("qcf", false, core.ButtonDown, core.ButtonDownRight, core.ButtonRight|core.ButtonA), true},
		{"suffix", NewMove("tail", false, core.ButtonDownRight, core.ButtonRight|core.ButtonA), true},
		{"prefix is not a match", NewMove("head", false, core.ButtonDown, core.ButtonDownRight), false},
		{"subset chord is not a match", NewMove("subset", false, core.ButtonRight), false},
		{"superset chord is not a match", NewMove("superset", false, core.ButtonRight|core.ButtonA|core.ButtonB), false},
		{"longer than buffer", NewMove("long", false, core.ButtonUp, core.ButtonDown, core.ButtonDownRight, core.ButtonRight|core.ButtonA), false},
		{"empty sequence", NewMove("empty", false), false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := buf.Matches(tc.move); got != tc.expected {
				t.Errorf("Matches(%s) = %v, expected %v", tc.move, got, tc.expected)
			}
			if buf.Len() != 3 {
				t.Errorf("Matches() must not mutate the buffer, Len() = %d", buf.Len())
			}
		})
	}
}

func TestEmptyBufferNeverMatches(t *testing.T) {
	buf := newTestBuffer(t, 5, DefaultTiming())
	if buf.Matches(NewMove("a", false, core.ButtonA)) {
		t.Error("empty buffer should not match")
	}
	if buf.Tail() != core.ButtonNone {
		t.Errorf("Tail() = %v, expected none", buf.Tail())
	}
}

func TestBufferReset(t *testing.T) {
	buf := newTestBuffer(t, 5, DefaultTiming())
	buf.Update(300*ms, core.ButtonA, false)

	buf.Clear()
	if buf.Len() != 0 || buf.LastInput() != 300*ms {
		t.Errorf("Clear() should empty entries and keep the anchor, got Len=%d LastInput=%v", buf.Len(), buf.LastInput())
	}

	buf.Update(350*ms, core.ButtonB, false)
	buf.Reset()
	if buf.Len() != 0 || buf.LastInput() != 0 {
		t.Errorf("Reset() should clear everything, got Len=%d LastInput=%v", buf.Len(), buf.LastInput())
	}
}
