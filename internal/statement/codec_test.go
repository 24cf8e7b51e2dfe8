package statement

import (
	"errors"
	"testing"
	"time"
)

func TestJoinSplitDatesRoundTrip(t *testing.T) {
	dates := []time.Time{day(2024, 3, 31), day(2023, 12, 31), day(2023, 9, 30)}
	field := joinDates(dates)
	if field != "2024-03-31:2023-12-31:2023-09-30" {
		t.Fatalf("unexpected field %q", field)
	}
	got, err := splitDates(field)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := range dates {
		if !got[i].Equal(dates[i]) {
			t.Fatalf("date %d: got %v want %v", i, got[i], dates[i])
		}
	}
}

func TestSplitDatesInvalid(t *testing.T) {
	if _, err := splitDates("2024-03-31:garbage"); !errors.Is(err, ErrDateConversion) {
		t.Fatalf("expected ErrDateConversion, got %v", err)
	}
	if _, err := splitDates(""); !errors.Is(err, ErrDateConversion) {
		t.Fatalf("expected ErrDateConversion, got %v", err)
	}
}

func TestJoinSplitValuesRoundTrip(t *testing.T) {
	values := []float64{1.5, -2.25, 1e12, 0.1}
	got, present, err := splitValues(joinValues(values), len(values))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !present {
		t.Fatalf("expected values to be present")
	}
	for i := range values {
		if got[i] != values[i] {
			t.Fatalf("value %d: got %v want %v", i, got[i], values[i])
		}
	}
}

func TestSplitValuesNullPlaceholder(t *testing.T) {
	field := nullField(3)
	if field != "null:null:null" {
		t.Fatalf("unexpected placeholder %q", field)
	}
	values, present, err := splitValues(field, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if present || values != nil {
		t.Fatalf("placeholder field must parse as absent")
	}
}

func TestSplitValuesLengthMismatch(t *testing.T) {
	_, _, err := splitValues("1:2", 3)
	if !errors.Is(err, ErrLengthMismatch) {
		t.Fatalf("expected ErrLengthMismatch, got %v", err)
	}
}

func TestSplitValuesBadNumber(t *testing.T) {
	if _, _, err := splitValues("1:abc:3", 3); err == nil {
		t.Fatalf("expected parse error")
	}
}
