package divelog

import (
	"fmt"

	"go.uber.org/zap"

	"divelog/meter"
	"divelog/telem"
)

// |||||| ROW ||||||

// Row is one table entry: a timestamp plus the record's fields keyed by
// fully qualified column name ("TYPE.field").
type Row struct {
	Timestamp telem.TimeStamp
	Fields    Fields
}

// |||||| TABLE ||||||

// Table holds the rows of a single type tag in arrival order. Column order is
// first-seen: the first row to carry a field fixes its position. Tables are
// built by an Accumulator and materialized into a Frame for joining or
// writing.
type Table struct {
	typeTag string
	cols    []string
	colIdx  map[string]int
	rows    []Row
	frame   *Frame
}

func NewTable(typeTag string) *Table {
	return &Table{typeTag: typeTag, colIdx: make(map[string]int)}
}

// Type returns the tag whose records the table holds.
func (t *Table) Type() string { return t.typeTag }

func (t *Table) Len() int { return len(t.rows) }

// Columns returns the column names in first-seen order. The timestamp is not
// a column.
func (t *Table) Columns() []string { return t.cols }

func (t *Table) Row(i int) Row { return t.rows[i] }

// Timestamps returns the timestamp of every row in arrival order.
func (t *Table) Timestamps() []telem.TimeStamp {
	ts := make([]telem.TimeStamp, len(t.rows))
	for i, r := range t.rows {
		ts[i] = r.Timestamp
	}
	return ts
}

// Append adds a row, registering any columns it introduces and invalidating
// the cached frame.
func (t *Table) Append(row Row) {
	for i := 0; i < row.Fields.Len(); i++ {
		t.register(row.Fields.At(i).Key)
	}
	t.rows = append(t.rows, row)
	t.frame = nil
}

// AddColumn attaches a derived numeric column whose length must equal the row
// count, one value per row in order.
func (t *Table) AddColumn(name string, vals []float64) error {
	if len(vals) != len(t.rows) {
		return fmt.Errorf(
			"column %s has %d values for %d rows", name, len(vals), len(t.rows),
		)
	}
	t.register(name)
	for i := range t.rows {
		t.rows[i].Fields.Put(name, FloatValue(vals[i]))
	}
	t.frame = nil
	return nil
}

func (t *Table) register(col string) {
	if _, ok := t.colIdx[col]; ok {
		return
	}
	t.colIdx[col] = len(t.cols)
	t.cols = append(t.cols, col)
}

// Frame materializes the table as a fixed-width frame, filling cells a row
// never carried with null. The frame is cached until the next append.
func (t *Table) Frame() *Frame {
	if t.frame != nil {
		return t.frame
	}
	f := newFrame(t.cols)
	for _, r := range t.rows {
		cells := make([]Value, len(f.cols))
		for i := 0; i < r.Fields.Len(); i++ {
			fld := r.Fields.At(i)
			cells[f.colIdx[fld.Key]] = fld.Value
		}
		f.rows = append(f.rows, FrameRow{Timestamp: r.Timestamp, Cells: cells})
	}
	t.frame = f
	return f
}

// |||||| ACCUMULATOR ||||||

type AccumulatorConfig struct {
	// Types limits accumulation to the listed type tags. Empty accepts every
	// type. [OPTIONAL]
	Types []string
	// Transforms supplies per-type transforms applied before a record is
	// bucketed. A transform may retag the record to a different table or drop
	// it; dropped records do not count against MaxRecords. [OPTIONAL]
	Transforms Registry
	// SplitSource retags each record to "TYPE_sysid_compid" so that every
	// emitting source lands in its own table. When false, sysid and compid
	// become ordinary columns instead. [OPTIONAL]
	SplitSource bool
	// MaxRecords soft-stops accumulation once the total accumulated record
	// count crosses it. The crossing record is kept. Defaults to 500000.
	// [OPTIONAL]
	MaxRecords int
	// Logger is the witness of accumulation. [OPTIONAL]
	Logger *zap.Logger
	// Profile receives accumulation metrics. [OPTIONAL]
	Profile meter.Profile
}

func mergeAccumulatorConfigDefaults(cfg AccumulatorConfig) AccumulatorConfig {
	if cfg.MaxRecords == 0 {
		cfg.MaxRecords = 500000
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return cfg
}

// Accumulator buckets a chronological record stream into per-type tables.
// Field keys are qualified with the table name on the way in, so that columns
// from different tables stay disjoint when the tables are later joined.
type Accumulator struct {
	cfg     AccumulatorConfig
	accept  map[string]bool
	tables  map[string]*Table
	order   []string
	count   int
	full    bool
	metrics accumulatorMetrics
}

type accumulatorMetrics struct {
	accumulated meter.Metric[int]
	dropped     meter.Metric[int]
}

func newAccumulatorMetrics(p meter.Profile) accumulatorMetrics {
	sub := meter.Sub(p, "accumulate")
	return accumulatorMetrics{
		accumulated: meter.NewGauge[int](sub, "accumulated"),
		dropped:     meter.NewGauge[int](sub, "dropped"),
	}
}

func NewAccumulator(cfg AccumulatorConfig) *Accumulator {
	cfg = mergeAccumulatorConfigDefaults(cfg)
	a := &Accumulator{
		cfg:     cfg,
		tables:  make(map[string]*Table),
		metrics: newAccumulatorMetrics(cfg.Profile),
	}
	if len(cfg.Types) > 0 {
		a.accept = make(map[string]bool, len(cfg.Types))
		for _, t := range cfg.Types {
			a.accept[t] = true
		}
	}
	return a
}

// Write offers a record to the accumulator. It returns false once the record
// budget has been crossed; the crossing record itself is kept. Records
// filtered by type or dropped by a transform return true without counting.
func (a *Accumulator) Write(rec Record) bool {
	if a.full {
		return false
	}
	if a.accept != nil && !a.accept[rec.Type] {
		return true
	}
	rec, keep := a.cfg.Transforms.Apply(rec)
	if !keep {
		a.metrics.dropped.Record(1)
		return true
	}
	if a.cfg.SplitSource {
		rec = rec.WithType(fmt.Sprintf(
			"%s_%d_%d", rec.Type, rec.Source.System, rec.Source.Component,
		))
	}
	a.table(rec.Type).Append(a.row(rec))
	a.count++
	a.metrics.accumulated.Record(1)
	if a.count > a.cfg.MaxRecords {
		a.full = true
		a.cfg.Logger.Info(
			"record budget crossed, stopping accumulation",
			zap.String("kind", ErrRecordBudget.String()),
			zap.Int("count", a.count),
		)
		return false
	}
	return true
}

// Drain writes records from src until the budget is crossed or the source is
// exhausted, returning the number of records accumulated.
func (a *Accumulator) Drain(src Source) int {
	before := a.count
	for src.Next() {
		if !a.Write(src.Record()) {
			break
		}
	}
	return a.count - before
}

func (a *Accumulator) table(typeTag string) *Table {
	t, ok := a.tables[typeTag]
	if !ok {
		t = NewTable(typeTag)
		a.tables[typeTag] = t
		a.order = append(a.order, typeTag)
	}
	return t
}

func (a *Accumulator) row(rec Record) Row {
	row := Row{Timestamp: rec.Timestamp}
	for i := 0; i < rec.Fields.Len(); i++ {
		f := rec.Fields.At(i)
		row.Fields.Put(rec.Type+"."+f.Key, f.Value)
	}
	if !a.cfg.SplitSource && (rec.Source.System != 0 || rec.Source.Component != 0) {
		row.Fields.Put(rec.Type+".sysid", IntValue(int64(rec.Source.System)))
		row.Fields.Put(rec.Type+".compid", IntValue(int64(rec.Source.Component)))
	}
	return row
}

// Tables returns the accumulated tables in first-seen order.
func (a *Accumulator) Tables() []*Table {
	tables := make([]*Table, len(a.order))
	for i, tag := range a.order {
		tables[i] = a.tables[tag]
	}
	return tables
}

// Table returns the table for the given tag, or nil if no record of that type
// was accumulated.
func (a *Accumulator) Table(typeTag string) *Table { return a.tables[typeTag] }

// Count returns the total number of records accumulated across all tables.
func (a *Accumulator) Count() int { return a.count }

// Full reports whether the record budget has been crossed.
func (a *Accumulator) Full() bool { return a.full }
