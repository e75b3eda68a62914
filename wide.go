package divelog

import (
	"go.uber.org/zap"

	"divelog/meter"
	"divelog/telem"
)

// |||||| FRAME ||||||

// FrameRow is one row of a frame: a timestamp plus one cell per frame column.
type FrameRow struct {
	Timestamp telem.TimeStamp
	Cells     []Value
}

// Frame is a fixed-width, timestamp-ordered view over one or more tables.
// Frames returned by Table.Frame and MergeWide are read-only.
type Frame struct {
	cols   []string
	colIdx map[string]int
	rows   []FrameRow
}

func newFrame(cols []string) *Frame {
	f := &Frame{
		cols:   append([]string(nil), cols...),
		colIdx: make(map[string]int, len(cols)),
	}
	for i, c := range f.cols {
		f.colIdx[c] = i
	}
	return f
}

func (f *Frame) Columns() []string { return f.cols }

func (f *Frame) Len() int { return len(f.rows) }

func (f *Frame) Row(i int) FrameRow { return f.rows[i] }

// Cell returns the value at row i for the named column. Unknown columns
// return the null value.
func (f *Frame) Cell(i int, col string) Value {
	idx, ok := f.colIdx[col]
	if !ok {
		return Value{}
	}
	return f.rows[i].Cells[idx]
}

// |||||| WIDE MERGE ||||||

type WideConfig struct {
	// MaxRows caps the merged frame. Once a join pushes the row count past it,
	// no further tables are merged and the frame is cut back to MaxRows.
	// Defaults to 500000. [OPTIONAL]
	MaxRows int
	// Logger is the witness of the merge. [OPTIONAL]
	Logger *zap.Logger
	// Profile receives merge metrics. [OPTIONAL]
	Profile meter.Profile
}

func mergeWideConfigDefaults(cfg WideConfig) WideConfig {
	if cfg.MaxRows == 0 {
		cfg.MaxRows = 500000
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return cfg
}

// MergeWide joins per-type tables into one wide frame on the union of their
// timestamps. Each output row carries, for every column, the most recent
// value at or before its timestamp; columns with no value yet stay null.
// Empty tables are skipped. Returns nil when every table is empty.
//
// The join is ordered: tables are folded in the order given, and once the
// merged frame crosses MaxRows the remaining tables are dropped.
func MergeWide(tables []*Table, cfg WideConfig) *Frame {
	cfg = mergeWideConfigDefaults(cfg)
	joinDur := meter.NewSeriesDuration(meter.Sub(cfg.Profile, "wide"), "joinDur")
	var merged *Frame
	for _, t := range tables {
		if t.Len() == 0 {
			cfg.Logger.Debug("skipping empty table", zap.String("type", t.Type()))
			continue
		}
		if merged == nil {
			merged = t.Frame()
			continue
		}
		joinDur.Start()
		merged = joinOrdered(merged, t.Frame())
		joinDur.Stop()
		if merged.Len() > cfg.MaxRows {
			cfg.Logger.Info(
				"row budget crossed, stopping merge",
				zap.String("kind", ErrRowBudget.String()),
				zap.Int("rows", merged.Len()),
				zap.String("lastTable", t.Type()),
			)
			merged.rows = merged.rows[:cfg.MaxRows]
			break
		}
	}
	return merged
}

// joinOrdered outer-joins two timestamp-ordered frames. Rows sharing a
// timestamp collapse into one; cells a side does not contribute at a
// timestamp are carried forward from the previous merged row.
func joinOrdered(a, b *Frame) *Frame {
	cols := append([]string(nil), a.cols...)
	for _, c := range b.cols {
		if _, ok := a.colIdx[c]; !ok {
			cols = append(cols, c)
		}
	}
	out := newFrame(cols)
	out.rows = make([]FrameRow, 0, len(a.rows)+len(b.rows))

	prev := make([]Value, len(cols))
	i, j := 0, 0
	for i < len(a.rows) || j < len(b.rows) {
		var ts telem.TimeStamp
		switch {
		case i >= len(a.rows):
			ts = b.rows[j].Timestamp
		case j >= len(b.rows):
			ts = a.rows[i].Timestamp
		case b.rows[j].Timestamp.Before(a.rows[i].Timestamp):
			ts = b.rows[j].Timestamp
		default:
			ts = a.rows[i].Timestamp
		}
		cells := append([]Value(nil), prev...)
		for i < len(a.rows) && a.rows[i].Timestamp == ts {
			overlay(cells, out.colIdx, a, i)
			i++
		}
		for j < len(b.rows) && b.rows[j].Timestamp == ts {
			overlay(cells, out.colIdx, b, j)
			j++
		}
		out.rows = append(out.rows, FrameRow{Timestamp: ts, Cells: cells})
		prev = cells
	}
	return out
}

// overlay copies the non-null cells of src row k into cells, mapped through
// the output column layout.
func overlay(cells []Value, colIdx map[string]int, src *Frame, k int) {
	for c, v := range src.rows[k].Cells {
		if v.IsNull() {
			continue
		}
		cells[colIdx[src.cols[c]]] = v
	}
}
