package transcript

import (
	"errors"
	"testing"
)

func offsetInBounds(w *Window) bool {
	maxOff := max(0, w.TotalLines-w.PageSize)
	return w.Offset >= 0 && w.Offset <= maxOff
}

func TestWindowClampInvariant(t *testing.T) {
	for _, total := range []int{0, 1, 5, 19, 20, 21, 100} {
		w := NewWindow(20)
		w.SetTotal(total)

		ops := []func(){
			func() { w.ScrollUp(1) },
			func() { w.ScrollDown(1) },
			func() { w.ScrollUp(18) },
			func() { w.ScrollDown(18) },
			func() { w.ToTop() },
			func() { w.ToBottom() },
			func() { w.ScrollDown(1000) },
			func() { w.ScrollUp(1000) },
		}
		for i, op := range ops {
			op()
			if !offsetInBounds(w) {
				t.Fatalf("total=%d op=%d: offset %d out of bounds (total=%d page=%d)",
					total, i, w.Offset, w.TotalLines, w.PageSize)
			}
		}
	}
}

func TestWindowEnterEmpty(t *testing.T) {
	w := NewWindow(20)
	if err := w.Enter(0, 0); !errors.Is(err, ErrNoTranscript) {
		t.Fatalf("Enter with empty log: err = %v, want ErrNoTranscript", err)
	}
}

func TestWindowEnterShowsTail(t *testing.T) {
	w := NewWindow(20)
	if err := w.Enter(50, 120); err != nil {
		t.Fatalf("Enter: %v", err)
	}
	if w.Offset != 30 {
		t.Errorf("Offset = %d, want 30", w.Offset)
	}
	start, end := w.Range()
	if start != 31 || end != 50 {
		t.Errorf("Range = %d-%d, want 31-50", start, end)
	}
}

func TestWindowSetTotalKeepsOffsetStable(t *testing.T) {
	w := NewWindow(10)
	w.SetTotal(40)
	w.Offset = 5

	// Content grew while scrolled back: offset must not move.
	w.SetTotal(60)
	if w.Offset != 5 {
		t.Errorf("Offset = %d after growth, want 5", w.Offset)
	}

	// Content shrank below the offset: clamp.
	w.SetTotal(8)
	if w.Offset != 0 {
		t.Errorf("Offset = %d after shrink, want 0", w.Offset)
	}
}

func TestWindowVisible(t *testing.T) {
	lines := []string{"a", "b", "c", "d", "e"}
	w := NewWindow(2)
	w.SetTotal(len(lines))
	w.ScrollDown(1)

	got := w.Visible(lines)
	if len(got) != 2 || got[0] != "b" || got[1] != "c" {
		t.Errorf("Visible = %v, want [b c]", got)
	}

	w.ToBottom()
	got = w.Visible(lines)
	if len(got) != 2 || got[0] != "d" || got[1] != "e" {
		t.Errorf("Visible at bottom = %v, want [d e]", got)
	}
}

func TestWindowShortContent(t *testing.T) {
	w := NewWindow(20)
	w.SetTotal(3)
	w.ToBottom()
	if w.Offset != 0 {
		t.Errorf("Offset = %d for content shorter than a page, want 0", w.Offset)
	}
	start, end := w.Range()
	if start != 1 || end != 3 {
		t.Errorf("Range = %d-%d, want 1-3", start, end)
	}
}
