package transcript

import "errors"

// ErrNoTranscript signals that scroll mode has nothing to show yet.
var ErrNoTranscript = errors.New("no transcript yet")

// Window paginates the flattened rendered text for backward navigation.
// The offset is always clamped to [0, max(0, TotalLines-PageSize)].
type Window struct {
	Offset     int
	TotalLines int
	PageSize   int
}

func NewWindow(pageSize int) *Window {
	if pageSize < 1 {
		pageSize = 1
	}
	return &Window{PageSize: pageSize}
}

func (w *Window) maxOffset() int {
	return max(0, w.TotalLines-w.PageSize)
}

func (w *Window) clamp() {
	if w.Offset < 0 {
		w.Offset = 0
	}
	if m := w.maxOffset(); w.Offset > m {
		w.Offset = m
	}
}

func (w *Window) ScrollUp(n int) {
	w.Offset -= n
	w.clamp()
}

func (w *Window) ScrollDown(n int) {
	w.Offset += n
	w.clamp()
}

func (w *Window) ToTop() {
	w.Offset = 0
}

func (w *Window) ToBottom() {
	w.Offset = w.maxOffset()
}

// SetTotal updates the line count after a fresh render. The offset is
// clamped, not re-anchored: while scrolled back, newly finalized lines grow
// below the viewport rather than shifting it.
func (w *Window) SetTotal(total int) {
	if total < 0 {
		total = 0
	}
	w.TotalLines = total
	w.clamp()
}

// Enter activates scroll mode over a freshly flattened render. It fails
// when the token log is empty, and otherwise shows the tail page.
func (w *Window) Enter(totalLines, tokens int) error {
	if tokens == 0 {
		return ErrNoTranscript
	}
	w.SetTotal(totalLines)
	w.ToBottom()
	return nil
}

// Visible returns the current page of lines.
func (w *Window) Visible(lines []string) []string {
	if w.Offset >= len(lines) {
		return nil
	}
	end := min(w.Offset+w.PageSize, len(lines))
	return lines[w.Offset:end]
}

// Range reports the 1-based visible line range for the status bar.
func (w *Window) Range() (start, end int) {
	if w.TotalLines == 0 {
		return 0, 0
	}
	start = w.Offset + 1
	end = min(w.Offset+w.PageSize, w.TotalLines)
	return start, end
}
