package divelog

// |||||| WINDOW ||||||

// Window bounds a shared cursor to one segment. Records before the segment
// start are consumed and discarded; the first record past the segment end is
// left on the cursor, so the next window over the same cursor resumes exactly
// there. A segment matching no records yields an empty sequence.
type Window struct {
	cursor *Cursor
	seg    Segment
	rec    Record
	done   bool
}

func NewWindow(cursor *Cursor, seg Segment) *Window {
	return &Window{cursor: cursor, seg: seg}
}

// Windows builds one window per segment over a shared cursor. The windows must
// be consumed in order; each picks up where the previous stopped.
func Windows(cursor *Cursor, segments []Segment) []*Window {
	windows := make([]*Window, len(segments))
	for i, seg := range segments {
		windows[i] = NewWindow(cursor, seg)
	}
	return windows
}

func (w *Window) Segment() Segment {
	return w.seg
}

func (w *Window) Next() bool {
	if w.done {
		return false
	}
	for {
		rec, ok := w.cursor.Peek()
		if !ok {
			w.done = true
			return false
		}
		if rec.Timestamp.Before(w.seg.Start) {
			w.cursor.Next()
			continue
		}
		if rec.Timestamp.After(w.seg.End) {
			// Not consumed: the record belongs to whatever reads the
			// cursor next.
			w.done = true
			return false
		}
		w.cursor.Next()
		w.rec = rec
		return true
	}
}

func (w *Window) Record() Record {
	return w.rec
}

func (w *Window) Err() error {
	return w.cursor.Err()
}

// Close is a no-op: the cursor is shared, and its owner closes it.
func (w *Window) Close() error {
	w.done = true
	return nil
}
