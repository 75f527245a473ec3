package repository

import (
	"testing"
	"time"
)

func TestFillMonthsPadsGaps(t *testing.T) {
	since := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	series := map[string]int{
		"2026-03": 120,
		"2026-05": 40,
	}

	out := fillMonths(series, since, 6)
	if len(out) != 6 {
		t.Fatalf("expected 6 entries, got %d", len(out))
	}
	if out[0].Month != "2026-03" || out[0].Value != 120 {
		t.Fatalf("unexpected first entry: %+v", out[0])
	}
	if out[1].Month != "2026-04" || out[1].Value != 0 {
		t.Fatalf("expected zero-filled gap, got %+v", out[1])
	}
	if out[2].Month != "2026-05" || out[2].Value != 40 {
		t.Fatalf("unexpected entry: %+v", out[2])
	}
	if out[5].Month != "2026-08" {
		t.Fatalf("expected series to end at 2026-08, got %s", out[5].Month)
	}
}
