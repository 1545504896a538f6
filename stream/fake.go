package stream

import "io"

// FakeSource replays a scripted event sequence, then returns io.EOF.
type FakeSource struct {
	Events []Event
	next   int
}

func (f *FakeSource) Recv() (Event, error) {
	if f.next >= len(f.Events) {
		return Event{}, io.EOF
	}
	ev := f.Events[f.next]
	f.next++
	return ev, nil
}
