package services

import "testing"

func TestParseWindowWrapsPastMidnight(t *testing.T) {
	w, err := ParseWindow("22:00", "02:00")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if w.Start != 79200 || w.End != 93600 {
		t.Fatalf("window = [%d, %d], want [79200, 93600]", w.Start, w.End)
	}
	if !w.Wraps() {
		t.Fatalf("expected window to wrap")
	}
	if w.Duration() != 4*3600 {
		t.Fatalf("duration = %d, want %d", w.Duration(), 4*3600)
	}
}

func TestParseWindowEndingAtMidnight(t *testing.T) {
	w, err := ParseWindow("22:00", "00:00")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if w.End != secondsPerDay {
		t.Fatalf("end = %d, want %d", w.End, secondsPerDay)
	}
	if !w.Wraps() {
		t.Fatalf("window ending at midnight must wrap")
	}

	same, err := ParseWindow("09:00", "17:00")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if same.Wraps() {
		t.Fatalf("daytime window must not wrap")
	}
}
