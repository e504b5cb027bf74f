package config

import "testing"

func TestGet(t *testing.T) {
	t.Setenv("DISPATCH_TEST_VALUE", "  value  ")
	t.Setenv("DISPATCH_TEST_BLANK", "   ")

	if got := Get("DISPATCH_TEST_VALUE", "x"); got != "value" {
		t.Fatalf("Get = %q, want value", got)
	}
	if got := Get("DISPATCH_TEST_BLANK", "x"); got != "x" {
		t.Fatalf("Get blank = %q, want fallback", got)
	}
	if got := Get("DISPATCH_TEST_UNSET", "x"); got != "x" {
		t.Fatalf("Get unset = %q, want fallback", got)
	}
}

func TestGetInt(t *testing.T) {
	t.Setenv("DISPATCH_TEST_INT", "30")
	t.Setenv("DISPATCH_TEST_BAD", "thirty")

	if got := GetInt("DISPATCH_TEST_INT", 60); got != 30 {
		t.Fatalf("GetInt = %d, want 30", got)
	}
	if got := GetInt("DISPATCH_TEST_BAD", 60); got != 60 {
		t.Fatalf("GetInt bad = %d, want fallback 60", got)
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("PORT", "")
	t.Setenv("SNAPSHOT_INTERVAL_SECONDS", "")
	t.Setenv("DEFAULT_SERVICE_MINUTES", "15")

	c := Load()
	if c.Port != "8080" || c.SnapshotIntervalSeconds != 60 {
		t.Fatalf("defaults = %+v", c)
	}
	if c.DefaultServiceMinutes != 15 {
		t.Fatalf("DefaultServiceMinutes = %d, want 15", c.DefaultServiceMinutes)
	}
}
