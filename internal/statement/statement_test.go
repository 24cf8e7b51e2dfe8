package statement

import (
	"context"
	"errors"
	"testing"
	"time"

	"FinCast/internal/domain/models"
	"FinCast/internal/domain/repository"
)

// memStore is an in-memory RecordStore keyed on the leading ticker field.
type memStore struct {
	tables map[string]map[string]repository.Record
}

func newMemStore() *memStore {
	return &memStore{tables: make(map[string]map[string]repository.Record)}
}

func (m *memStore) FindByKey(_ context.Context, collection, column, key string) ([]repository.Record, error) {
	if column != "ticker" {
		return nil, errors.New("memStore only indexes ticker")
	}
	rec, ok := m.tables[collection][key]
	if !ok {
		return nil, nil
	}
	return []repository.Record{rec}, nil
}

func (m *memStore) Insert(_ context.Context, collection string, rec repository.Record) error {
	if m.tables[collection] == nil {
		m.tables[collection] = make(map[string]repository.Record)
	}
	m.tables[collection][rec[0]] = rec
	return nil
}

func (m *memStore) UpdateByKey(_ context.Context, collection, column, key string, sets []repository.ColumnValue) error {
	rec, ok := m.tables[collection][key]
	if !ok {
		return nil
	}
	for _, set := range sets {
		for i, col := range schemaForTable(collection).Columns {
			if col.Key == set.Column {
				rec[i] = set.Value
			}
		}
	}
	return nil
}

func schemaForTable(table string) *Schema {
	for _, s := range Schemas {
		if s.Table == table {
			return s
		}
	}
	return nil
}

func incomeFrame() *models.Frame {
	dates := []time.Time{day(2021, 12, 31), day(2022, 12, 31), day(2023, 12, 31)}
	f := models.NewFrame(dates)
	_ = f.AddColumn("totRevenue", []float64{100, 120, 150})
	_ = f.AddColumn("grossProfit", []float64{40, 50, 65})
	return f
}

func TestNewStatementUninitialized(t *testing.T) {
	s := New(IncomeStatement, "ACME", "USD")
	if s.Initialized() {
		t.Fatalf("fresh statement must be uninitialized")
	}
	if _, err := s.Get("totRevenue"); !errors.Is(err, ErrUninitialized) {
		t.Fatalf("expected ErrUninitialized, got %v", err)
	}
	if err := s.SetValues("totRevenue", []float64{1}); !errors.Is(err, ErrUninitialized) {
		t.Fatalf("expected ErrUninitialized, got %v", err)
	}
	// the guard fires before key validation
	if _, err := s.Get("noSuchKey"); !errors.Is(err, ErrUninitialized) {
		t.Fatalf("expected ErrUninitialized, got %v", err)
	}
}

func TestReadFrame(t *testing.T) {
	s := New(IncomeStatement, "ACME", "USD")
	if err := s.ReadFrame(incomeFrame(), nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !s.Initialized() {
		t.Fatalf("statement must be initialized after ReadFrame")
	}
	index := s.DateIndex()
	if len(index) != 3 || !index[0].Equal(day(2023, 12, 31)) {
		t.Fatalf("unexpected date index %v", index)
	}
	row, err := s.Get("totRevenue")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v := row.Values(); v[0] != 150 || v[2] != 100 {
		t.Fatalf("unexpected values %v", v)
	}
	// column absent from the frame stays absent
	absent, err := s.Get("ebitda")
	if err != nil || absent != nil {
		t.Fatalf("expected absent row, got %v (%v)", absent, err)
	}
}

func TestReadFrameUnknownColumn(t *testing.T) {
	f := incomeFrame()
	_ = f.AddColumn("mystery", []float64{1, 2, 3})
	s := New(IncomeStatement, "ACME", "USD")
	if err := s.ReadFrame(f, nil); !errors.Is(err, ErrSchemaMismatch) {
		t.Fatalf("expected ErrSchemaMismatch, got %v", err)
	}
}

func TestReadFrameCollapsesDuplicateDates(t *testing.T) {
	dates := []time.Time{day(2022, 12, 31), day(2023, 12, 31), day(2023, 12, 31)}
	f := models.NewFrame(dates)
	_ = f.AddColumn("totRevenue", []float64{100, 140, 150})

	s := New(IncomeStatement, "ACME", "USD")
	if err := s.ReadFrame(f, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	index := s.DateIndex()
	if len(index) != 2 {
		t.Fatalf("expected 2 index dates, got %v", index)
	}
	row, err := s.Get("totRevenue")
	if err != nil || row == nil {
		t.Fatalf("expected row, got %v (%v)", row, err)
	}
	if row.Len() != len(index) {
		t.Fatalf("row has %d dates, index has %d", row.Len(), len(index))
	}
	if v, _ := row.Get(day(2023, 12, 31)); v != 150 {
		t.Fatalf("duplicate date must keep the later value, got %v", v)
	}

	// the collapsed index keeps the record width consistent
	ctx := context.Background()
	store := newMemStore()
	if err := s.Save(ctx, store); err != nil {
		t.Fatalf("save: %v", err)
	}
	loaded := New(IncomeStatement, "ACME", "USD")
	if err := loaded.Load(ctx, store); err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(loaded.DateIndex()) != 2 {
		t.Fatalf("unexpected loaded index %v", loaded.DateIndex())
	}
}

func TestReadFrameAltKeysMustCoverSchema(t *testing.T) {
	s := New(CashFlow, "ACME", "USD")
	alt := map[string]string{"opCashFlow": "Operating CF"} // misses the rest
	f := models.NewFrame([]time.Time{day(2023, 12, 31)})
	_ = f.AddColumn("Operating CF", []float64{9})
	if err := s.ReadFrame(f, alt); !errors.Is(err, ErrSchemaMismatch) {
		t.Fatalf("expected ErrSchemaMismatch, got %v", err)
	}
}

func TestReadFrameAltKeysResolve(t *testing.T) {
	s := New(CashFlow, "ACME", "USD")
	alt := make(map[string]string)
	for _, key := range CashFlow.MetricKeys() {
		alt[key] = "alias_" + key
	}
	f := models.NewFrame([]time.Time{day(2023, 12, 31), day(2022, 12, 31)})
	_ = f.AddColumn("alias_opCashFlow", []float64{9, 7})

	if err := s.ReadFrame(f, alt); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	row, err := s.Get("alias_opCashFlow")
	if err != nil || row == nil {
		t.Fatalf("expected row via alias, got %v (%v)", row, err)
	}
	keys := s.Keys()
	if keys[0] != "alias_opCashFlow" {
		t.Fatalf("Keys must return alias form, got %v", keys[:1])
	}
}

func TestSetRowRequiresMatchingIndex(t *testing.T) {
	s := New(IncomeStatement, "ACME", "USD")
	if err := s.ReadFrame(incomeFrame(), nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	other, _ := NewRow("ebitda", []float64{1, 2}, []time.Time{day(2023, 12, 31), day(2022, 12, 31)})
	if err := s.Set("ebitda", other); !errors.Is(err, ErrDateIndexMismatch) {
		t.Fatalf("expected ErrDateIndexMismatch, got %v", err)
	}
	matching, _ := NewRow("ebitda", []float64{1, 2, 3}, s.DateIndex())
	if err := s.Set("ebitda", matching); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestSetValues(t *testing.T) {
	s := New(IncomeStatement, "ACME", "USD")
	if err := s.ReadFrame(incomeFrame(), nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.SetValues("ebitda", []float64{1, 2}); !errors.Is(err, ErrLengthMismatch) {
		t.Fatalf("expected ErrLengthMismatch, got %v", err)
	}
	if err := s.SetValues("ebitda", []float64{30, 36, 45}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	row, _ := s.Get("ebitda")
	if v := row.Values(); v[0] != 30 {
		t.Fatalf("unexpected values %v", v)
	}
	if err := s.SetValues("noSuchKey", []float64{1, 2, 3}); !errors.Is(err, ErrKeyNotFound) {
		t.Fatalf("expected ErrKeyNotFound, got %v", err)
	}
}

func TestSaveRequiresInitialized(t *testing.T) {
	s := New(IncomeStatement, "ACME", "USD")
	if err := s.Save(context.Background(), newMemStore()); !errors.Is(err, ErrUninitialized) {
		t.Fatalf("expected ErrUninitialized, got %v", err)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()

	s := New(IncomeStatement, "ACME", "USD")
	if err := s.ReadFrame(incomeFrame(), nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.Save(ctx, store); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded := New(IncomeStatement, "ACME", "USD")
	if err := loaded.Load(ctx, store); err != nil {
		t.Fatalf("load: %v", err)
	}

	wantIndex, gotIndex := s.DateIndex(), loaded.DateIndex()
	if len(wantIndex) != len(gotIndex) {
		t.Fatalf("date index length: got %d want %d", len(gotIndex), len(wantIndex))
	}
	for i := range wantIndex {
		if !wantIndex[i].Equal(gotIndex[i]) {
			t.Fatalf("date %d: got %v want %v", i, gotIndex[i], wantIndex[i])
		}
	}

	for _, key := range IncomeStatement.MetricKeys() {
		wantRow, _ := s.Get(key)
		gotRow, _ := loaded.Get(key)
		if (wantRow == nil) != (gotRow == nil) {
			t.Fatalf("metric %q presence mismatch", key)
		}
		if wantRow == nil {
			continue
		}
		want, got := wantRow.Values(), gotRow.Values()
		for i := range want {
			if want[i] != got[i] {
				t.Fatalf("metric %q value %d: got %v want %v", key, i, got[i], want[i])
			}
		}
	}
}

func TestSaveUpserts(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()

	s := New(IncomeStatement, "ACME", "USD")
	if err := s.ReadFrame(incomeFrame(), nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.Save(ctx, store); err != nil {
		t.Fatalf("first save: %v", err)
	}
	// values pair with the descending date index, most recent first
	if err := s.SetValues("totRevenue", []float64{151, 121, 101}); err != nil {
		t.Fatalf("set values: %v", err)
	}
	if err := s.Save(ctx, store); err != nil {
		t.Fatalf("second save: %v", err)
	}

	loaded := New(IncomeStatement, "ACME", "USD")
	if err := loaded.Load(ctx, store); err != nil {
		t.Fatalf("load: %v", err)
	}
	row, _ := loaded.Get("totRevenue")
	if v := row.Values(); v[0] != 151 {
		t.Fatalf("update not persisted, got %v", v)
	}
}

func TestLoadMissingTicker(t *testing.T) {
	s := New(IncomeStatement, "NOPE", "USD")
	if err := s.Load(context.Background(), newMemStore()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestViewListsPresentMetrics(t *testing.T) {
	s := New(IncomeStatement, "ACME", "USD")
	if err := s.ReadFrame(incomeFrame(), nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	view := s.View("income")
	if view.Ticker != "ACME" || view.Kind != "income" {
		t.Fatalf("unexpected view header %+v", view)
	}
	if len(view.Metrics) != 2 {
		t.Fatalf("expected 2 present metrics, got %d", len(view.Metrics))
	}
	if view.Metrics["totRevenue"][0] != 150 {
		t.Fatalf("unexpected metric values %v", view.Metrics["totRevenue"])
	}
}
