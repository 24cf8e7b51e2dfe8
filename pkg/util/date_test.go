package util

import (
	"testing"
	"time"
)

func TestParseDayISO(t *testing.T) {
	got, err := ParseDay("2024-10-10")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := time.Date(2024, 10, 10, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("unexpected date %v", got)
	}
}

func TestParseDayTruncatesTimestamp(t *testing.T) {
	got, err := ParseDay("2024-10-10T15:04:05Z")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if FormatDay(got) != "2024-10-10" {
		t.Fatalf("unexpected date %v", got)
	}
}

func TestParseDayInvalid(t *testing.T) {
	if _, err := ParseDay("not-a-date"); err == nil {
		t.Fatalf("expected error")
	}
}

func TestMeanStepDays(t *testing.T) {
	dates := []time.Time{
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC),
	}
	// gaps of 91 and 91 days
	if got := MeanStepDays(dates); got != 91 {
		t.Fatalf("unexpected step %d", got)
	}
}

func TestMeanStepDaysUnordered(t *testing.T) {
	dates := []time.Time{
		time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
	}
	if got := MeanStepDays(dates); got != 1 {
		t.Fatalf("unexpected step %d", got)
	}
}

func TestMeanStepDaysSingle(t *testing.T) {
	if got := MeanStepDays([]time.Time{time.Now()}); got != 0 {
		t.Fatalf("unexpected step %d", got)
	}
}
