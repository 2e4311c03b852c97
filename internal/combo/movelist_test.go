package combo

import (
	"errors"
	"testing"
	"time"

	"github.com/vovakirdan/tui-combo/internal/core"
)

var (
	down      = core.ButtonDown
	downRight = core.ButtonDownRight
	right     = core.ButtonRight
	buttonA   = core.ButtonA
)

func newTestMoveList(t *testing.T, capacity int, moves ...Move) *MoveList {
	t.Helper()
	l, err := NewMoveList(moves, capacity)
	if err != nil {
		t.Fatalf("NewMoveList() failed: %v", err)
	}
	return l
}

// fill appends each chord as its own entry, 150ms apart.
func fill(buf *Buffer, chords ...core.Buttons) {
	for i, c := range chords {
		buf.Update(time.Duration(i)*150*ms, c, true)
	}
}

func TestNewMoveListValidation(t *testing.T) {
	tests := []struct {
		name     string
		moves    []Move
		capacity int
		wantErr  error
	}{
		{"empty catalog", nil, 4, ErrEmptyCatalog},
		{"zero capacity", []Move{NewMove("a", false, buttonA)}, 0, ErrInvalidCapacity},
		{"negative capacity", []Move{NewMove("a", false, buttonA)}, -1, ErrInvalidCapacity},
		{"zero-length move", []Move{NewMove("nothing", false)}, 4, ErrEmptySequence},
		{"empty chord", []Move{NewMove("gap", false, down, core.ButtonNone, right)}, 4, ErrEmptySymbol},
		{"up and down", []Move{NewMove("split", false, core.ButtonUp | core.ButtonDown | buttonA)}, 4, ErrImpossibleChord},
		{"left and right", []Move{NewMove("split", false, down, core.ButtonLeft | core.ButtonRight)}, 4, ErrImpossibleChord},
		{"too long", []Move{NewMove("long", false, down, down, down, down, down)}, 4, ErrMoveTooLong},
		{"duplicate name", []Move{NewMove("a", false, buttonA), NewMove("a", false, core.ButtonB)}, 4, ErrDuplicateMove},
		{"exactly capacity", []Move{NewMove("fits", false, down, down, down, down)}, 4, nil},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewMoveList(tc.moves, tc.capacity)
			if tc.wantErr == nil {
				if err != nil {
					t.Errorf("NewMoveList() unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tc.wantErr) {
				t.Errorf("NewMoveList() error = %v, expected %v", err, tc.wantErr)
			}
		})
	}
}

func TestMoveListOrdering(t *testing.T) {
	l := newTestMoveList(t, 8,
		NewMove("short1", false, buttonA),
		NewMove("long", false, down, downRight, right|buttonA),
		NewMove("mid1", false, down, buttonA),
		NewMove("short2", false, core.ButtonB),
		NewMove("mid2", false, right, buttonA),
	)

	expected := []string{"long", "mid1", "mid2", "short1", "short2"}
	moves := l.Moves()
	if len(moves) != len(expected) {
		t.Fatalf("Moves() returned %d moves, expected %d", len(moves), len(expected))
	}
	for i, name := range expected {
		if moves[i].Name() != name {
			t.Errorf("Moves()[%d] = %q, expected %q", i, moves[i].Name(), name)
		}
	}

	if l.Longest() != 3 {
		t.Errorf("Longest() = %d, expected 3", l.Longest())
	}
	if l.Len() != 5 {
		t.Errorf("Len() = %d, expected 5", l.Len())
	}
}

func TestMoveListLookup(t *testing.T) {
	l := newTestMoveList(t, 4, NewMove("jab", true, buttonA))

	m, ok := l.Lookup("jab")
	if !ok || m.Name() != "jab" || !m.IsReusable() {
		t.Errorf("Lookup(jab) = %v, %v", m, ok)
	}
	if _, ok := l.Lookup("missing"); ok {
		t.Error("Lookup(missing) should fail")
	}
}

func TestDetectPrefersLongestMove(t *testing.T) {
	// B's sequence is a literal suffix of A's
	moveA := NewMove("A", false, down, downRight, right|buttonA)
	moveB := NewMove("B", false, downRight, right|buttonA)
	l := newTestMoveList(t, 5, moveB, moveA)

	buf := newTestBuffer(t, 5, DefaultTiming())
	fill(buf, down, downRight, right|buttonA)

	m, ok := l.Detect(buf)
	if !ok {
		t.Fatal("Detect() found no move")
	}
	if m.Name() != "A" {
		t.Errorf("Detect() = %q, expected %q", m.Name(), "A")
	}
	if buf.Len() != 0 {
		t.Errorf("non-reusable match should clear the buffer, Len() = %d", buf.Len())
	}

	// The consumed input cannot trigger the shorter move afterwards
	if m, ok := l.Detect(buf); ok {
		t.Errorf("Detect() after consumption = %q, expected no match", m.Name())
	}
}

func TestDetectTiesKeepCatalogOrder(t *testing.T) {
	l := newTestMoveList(t, 4,
		NewMove("first", false, down, buttonA),
		NewMove("second", false, down, buttonA),
	)
	buf := newTestBuffer(t, 4, DefaultTiming())
	fill(buf, down, buttonA)

	m, ok := l.Detect(buf)
	if !ok || m.Name() != "first" {
		t.Errorf("Detect() = %q, %v; expected first", m.Name(), ok)
	}
}

func TestDetectReusableLeavesBuffer(t *testing.T) {
	jab := NewMove("jab", true, buttonA)
	l := newTestMoveList(t, 4, jab)

	buf := newTestBuffer(t, 4, DefaultTiming())
	fill(buf, down, buttonA)

	for i := 0; i < 2; i++ {
		m, ok := l.Detect(buf)
		if !ok || m.Name() != "jab" {
			t.Fatalf("Detect() call %d = %q, %v; expected jab", i+1, m.Name(), ok)
		}
	}
	assertEntries(t, buf, down, buttonA)
}

func TestReusableMoveServesAsPrefix(t *testing.T) {
	jab := NewMove("jab", true, buttonA)
	oneTwo := NewMove("one-two", false, buttonA, core.ButtonB)
	l := newTestMoveList(t, 4, jab, oneTwo)

	buf := newTestBuffer(t, 4, DefaultTiming())
	buf.Update(0, buttonA, false)
	if m, ok := l.Detect(buf); !ok || m.Name() != "jab" {
		t.Fatalf("Detect() = %q, %v; expected jab", m.Name(), ok)
	}

	buf.Update(150*ms, core.ButtonB, false)
	if m, ok := l.Detect(buf); !ok || m.Name() != "one-two" {
		t.Fatalf("Detect() = %q, %v; expected one-two", m.Name(), ok)
	}
	if buf.Len() != 0 {
		t.Errorf("Len() = %d, expected 0", buf.Len())
	}
}

func TestDetectNoMatchLeavesBuffer(t *testing.T) {
	l := newTestMoveList(t, 4, NewMove("fireball", false, down, downRight, right|buttonA))

	buf := newTestBuffer(t, 4, DefaultTiming())
	fill(buf, down, right|buttonA)

	if m, ok := l.Detect(buf); ok {
		t.Errorf("Detect() = %q, expected no match", m.Name())
	}
	assertEntries(t, buf, down, right|buttonA)

	empty := newTestBuffer(t, 4, DefaultTiming())
	if _, ok := l.Detect(empty); ok {
		t.Error("Detect() on an empty buffer should not match")
	}
}

func TestMoveIsImmutable(t *testing.T) {
	seq := []core.Buttons{down, right}
	m := NewMove("dash", false, seq...)

	seq[0] = core.ButtonUp
	got := m.Sequence()
	got[1] = core.ButtonLeft

	expected := []core.Buttons{down, right}
	for i, b := range m.Sequence() {
		if b != expected[i] {
			t.Errorf("Sequence()[%d] = %v, expected %v", i, b, expected[i])
		}
	}
	if m.String() != "dash: down right" {
		t.Errorf("String() = %q", m.String())
	}
}
