package statement

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"FinCast/internal/domain/models"
	"FinCast/internal/domain/repository"
	"FinCast/pkg/util"
)

// Statement is a composite financial statement: a fixed date index shared
// by every metric row of one schema. A Statement starts uninitialized and
// becomes usable through ReadFrame (fresh data) or Load (from a store);
// the date index is immutable after that, individual rows are not.
type Statement struct {
	schema      *Schema
	ticker      string
	currency    string
	lastUpdate  time.Time
	dateIndex   []time.Time // descending
	rows        map[string]*Row
	altKeys     map[string]string // schema key -> caller alias
	initialized bool
}

// New creates an uninitialized statement with every schema metric absent.
func New(schema *Schema, ticker, currency string) *Statement {
	rows := make(map[string]*Row, len(schema.MetricKeys()))
	for _, key := range schema.MetricKeys() {
		rows[key] = nil
	}
	return &Statement{
		schema:   schema,
		ticker:   ticker,
		currency: currency,
		rows:     rows,
	}
}

// Schema returns the statement's column schema.
func (s *Statement) Schema() *Schema { return s.schema }

// Ticker returns the company ticker symbol.
func (s *Statement) Ticker() string { return s.ticker }

// Currency returns the reporting currency.
func (s *Statement) Currency() string { return s.currency }

// LastUpdate returns the date the statement data was last refreshed.
func (s *Statement) LastUpdate() time.Time { return s.lastUpdate }

// Initialized reports whether metric access is allowed yet.
func (s *Statement) Initialized() bool { return s.initialized }

// DateIndex returns a copy of the shared reporting dates, most recent
// first.
func (s *Statement) DateIndex() []time.Time {
	out := make([]time.Time, len(s.dateIndex))
	copy(out, s.dateIndex)
	return out
}

// Keys returns the recognized metric keys in schema order, in alias form
// when alternate keys are configured.
func (s *Statement) Keys() []string {
	keys := s.schema.MetricKeys()
	if s.altKeys == nil {
		return keys
	}
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = s.altKeys[k]
	}
	return out
}

// resolve maps a caller key to its schema metric key, honoring alternate
// keys when configured.
func (s *Statement) resolve(key string) (string, error) {
	if s.altKeys != nil {
		for schemaKey, alias := range s.altKeys {
			if alias == key {
				return schemaKey, nil
			}
		}
	}
	if s.schema.HasMetric(key) {
		return key, nil
	}
	return "", fmt.Errorf("%w: metric %q not in schema %s", ErrKeyNotFound, key, s.schema.Table)
}

// Get returns the row for a metric key, nil when the metric has no data
// yet. The statement must be initialized and the key recognized.
func (s *Statement) Get(key string) (*Row, error) {
	if !s.initialized {
		return nil, fmt.Errorf("%w: cannot read %q", ErrUninitialized, key)
	}
	schemaKey, err := s.resolve(key)
	if err != nil {
		return nil, err
	}
	return s.rows[schemaKey], nil
}

// Set replaces a metric row. The row's date set must equal the statement's
// date index exactly.
func (s *Statement) Set(key string, row *Row) error {
	if !s.initialized {
		return fmt.Errorf("%w: cannot write %q", ErrUninitialized, key)
	}
	schemaKey, err := s.resolve(key)
	if err != nil {
		return err
	}
	if !sameDates(row.Dates(), s.dateIndex) {
		return fmt.Errorf("%w: row %q does not match the statement date index", ErrDateIndexMismatch, key)
	}
	s.rows[schemaKey] = row
	return nil
}

// SetValues replaces a metric row from raw values over the statement's own
// date index. Values pair positionally with the index, most recent first,
// and the value count must match the date index length.
func (s *Statement) SetValues(key string, values []float64) error {
	if !s.initialized {
		return fmt.Errorf("%w: cannot write %q", ErrUninitialized, key)
	}
	schemaKey, err := s.resolve(key)
	if err != nil {
		return err
	}
	if len(values) != len(s.dateIndex) {
		return fmt.Errorf("%w: %d values against %d index dates", ErrLengthMismatch, len(values), len(s.dateIndex))
	}
	row, err := NewRow(schemaKey, values, s.dateIndex)
	if err != nil {
		return err
	}
	s.rows[schemaKey] = row
	return nil
}

// ReadFrame rebuilds the statement from a tabular frame whose columns are
// schema metric keys (or their aliases when altKeys is given, which must
// then cover every schema metric key). Prior state is fully replaced.
func (s *Statement) ReadFrame(frame *models.Frame, altKeys map[string]string) error {
	if altKeys != nil {
		for _, key := range s.schema.MetricKeys() {
			if _, ok := altKeys[key]; !ok {
				return fmt.Errorf("%w: alternate keys missing schema key %q", ErrSchemaMismatch, key)
			}
		}
	}

	// Map every frame column back to a schema key before touching state.
	resolved := make(map[string]string, len(frame.Columns))
	for _, col := range frame.Columns {
		schemaKey := ""
		if s.schema.HasMetric(col) {
			schemaKey = col
		} else if altKeys != nil {
			for k, alias := range altKeys {
				if alias == col {
					schemaKey = k
					break
				}
			}
		}
		if schemaKey == "" {
			return fmt.Errorf("%w: frame column %q not in schema %s", ErrSchemaMismatch, col, s.schema.Table)
		}
		resolved[col] = schemaKey
	}

	index := make([]time.Time, len(frame.Dates))
	for i, d := range frame.Dates {
		index[i] = util.Day(d)
	}
	sort.Slice(index, func(i, j int) bool { return index[i].After(index[j]) })
	// Duplicate frame dates collapse last-write-wins inside each row; the
	// shared index must collapse identically to stay equal to every row's
	// date set.
	uniq := index[:0]
	for i, d := range index {
		if i == 0 || !d.Equal(index[i-1]) {
			uniq = append(uniq, d)
		}
	}
	index = uniq

	rows := make(map[string]*Row, len(s.schema.MetricKeys()))
	for _, key := range s.schema.MetricKeys() {
		rows[key] = nil
	}
	for _, col := range frame.Columns {
		values, _ := frame.Column(col)
		row, err := NewRow(resolved[col], values, frame.Dates)
		if err != nil {
			return err
		}
		rows[resolved[col]] = row
	}

	s.altKeys = altKeys
	s.dateIndex = index
	s.rows = rows
	s.lastUpdate = util.Day(time.Now())
	s.initialized = true
	return nil
}

// Load rebuilds the statement from the record stored for its ticker.
func (s *Statement) Load(ctx context.Context, store repository.RecordStore) error {
	recs, err := store.FindByKey(ctx, s.schema.Table, "ticker", s.ticker)
	if err != nil {
		return fmt.Errorf("load statement %s/%s: %w", s.schema.Table, s.ticker, err)
	}
	if len(recs) == 0 {
		return fmt.Errorf("%w: no %s record for ticker %q", ErrNotFound, s.schema.Table, s.ticker)
	}
	rec := recs[0]
	if len(rec) != len(s.schema.Columns) {
		return fmt.Errorf("%w: record has %d fields, schema %s has %d columns", ErrSchemaMismatch, len(rec), s.schema.Table, len(s.schema.Columns))
	}

	lastUpdate, err := util.ParseDay(rec[1])
	if err != nil {
		return fmt.Errorf("%w: lastUpdate field: %v", ErrDateConversion, err)
	}
	index, err := splitDates(rec[2])
	if err != nil {
		return err
	}

	rows := make(map[string]*Row, len(s.schema.MetricKeys()))
	for i, key := range s.schema.MetricKeys() {
		values, present, err := splitValues(rec[metricStart+i], len(index))
		if err != nil {
			return fmt.Errorf("metric %q: %w", key, err)
		}
		if !present {
			rows[key] = nil
			continue
		}
		row, err := NewRow(key, values, index)
		if err != nil {
			return err
		}
		rows[key] = row
	}

	s.lastUpdate = lastUpdate
	s.dateIndex = index
	s.rows = rows
	s.initialized = true
	return nil
}

// Save upserts the statement's record in the store. Absent metrics are
// written as null placeholders so the record keeps its fixed width. The
// in-memory statement is left unchanged.
func (s *Statement) Save(ctx context.Context, store repository.RecordStore) error {
	if !s.initialized {
		return fmt.Errorf("%w: nothing to save", ErrUninitialized)
	}

	rec := make(repository.Record, 0, len(s.schema.Columns))
	rec = append(rec, s.ticker, util.FormatDay(s.lastUpdate), joinDates(s.dateIndex))
	for _, key := range s.schema.MetricKeys() {
		row := s.rows[key]
		if row == nil {
			rec = append(rec, nullField(len(s.dateIndex)))
			continue
		}
		rec = append(rec, joinValues(row.Values()))
	}

	existing, err := store.FindByKey(ctx, s.schema.Table, "ticker", s.ticker)
	if err != nil {
		return fmt.Errorf("save statement %s/%s: %w", s.schema.Table, s.ticker, err)
	}
	if len(existing) > 0 {
		sets := make([]repository.ColumnValue, 0, len(rec)-1)
		for i, col := range s.schema.Columns[1:] {
			sets = append(sets, repository.ColumnValue{Column: col.Key, Value: rec[i+1]})
		}
		if err := store.UpdateByKey(ctx, s.schema.Table, "ticker", s.ticker, sets); err != nil {
			return fmt.Errorf("update statement %s/%s: %w", s.schema.Table, s.ticker, err)
		}
		return nil
	}
	if err := store.Insert(ctx, s.schema.Table, rec); err != nil {
		return fmt.Errorf("insert statement %s/%s: %w", s.schema.Table, s.ticker, err)
	}
	return nil
}

// View builds the transport representation of the statement.
func (s *Statement) View(kind string) models.StatementView {
	view := models.StatementView{
		Ticker:   s.ticker,
		Kind:     kind,
		Currency: s.currency,
		Metrics:  make(map[string][]float64, len(s.rows)),
	}
	if !s.initialized {
		return view
	}
	view.LastUpdate = util.FormatDay(s.lastUpdate)
	view.Dates = make([]string, len(s.dateIndex))
	for i, d := range s.dateIndex {
		view.Dates[i] = util.FormatDay(d)
	}
	for _, key := range s.schema.MetricKeys() {
		if row := s.rows[key]; row != nil {
			view.Metrics[key] = row.Values()
		}
	}
	return view
}

// String renders the statement as a table, one line per present metric.
func (s *Statement) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s | Ticker: %s; Currency: %s", strings.ToUpper(s.schema.Table), s.ticker, s.currency)
	if !s.initialized {
		b.WriteString(" <uninitialized>")
		return b.String()
	}
	fmt.Fprintf(&b, "; Last updated: %s\n", util.FormatDay(s.lastUpdate))

	nameWidth := 0
	for _, key := range s.schema.MetricKeys() {
		if len(key) > nameWidth {
			nameWidth = len(key)
		}
	}
	b.WriteString(strings.Repeat(" ", nameWidth))
	for _, d := range s.dateIndex {
		fmt.Fprintf(&b, " | %s", util.FormatDay(d))
	}
	b.WriteString(" |\n")
	for _, key := range s.schema.MetricKeys() {
		row := s.rows[key]
		if row == nil {
			continue
		}
		fmt.Fprintf(&b, "%-*s", nameWidth, key)
		for _, v := range row.Values() {
			fmt.Fprintf(&b, " | %s", center(strconv.FormatFloat(v, 'g', -1, 64), len(util.DayFormat)))
		}
		b.WriteString(" |\n")
	}
	return b.String()
}

// sameDates reports set equality of two date slices, both assumed sorted
// descending with unique entries.
func sameDates(a, b []time.Time) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}
