package visits

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func TestRecordAndCount(t *testing.T) {
	s, err := OpenMemory()
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer s.Close()
	ctx := context.Background()

	if n, err := s.Count(ctx); err != nil || n != 0 {
		t.Fatalf("expected empty counter, got %d err=%v", n, err)
	}
	if last, err := s.Last(ctx); err != nil || !last.IsZero() {
		t.Fatalf("expected no last visit, got %v err=%v", last, err)
	}

	before := time.Now().Add(-time.Second)
	for want := 1; want <= 3; want++ {
		n, err := s.Record(ctx)
		if err != nil {
			t.Fatalf("record: %v", err)
		}
		if n != want {
			t.Fatalf("expected total %d, got %d", want, n)
		}
	}

	last, err := s.Last(ctx)
	if err != nil {
		t.Fatalf("last: %v", err)
	}
	if last.Before(before) {
		t.Fatalf("last visit %v should be recent", last)
	}
}

func TestCounterPersistsAcrossOpens(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "visits.db")
	ctx := context.Background()

	for want := 1; want <= 2; want++ {
		s, err := Open(path)
		if err != nil {
			t.Fatalf("open: %v", err)
		}
		n, err := s.Record(ctx)
		if err != nil {
			t.Fatalf("record: %v", err)
		}
		if n != want {
			t.Fatalf("expected %d visits, got %d", want, n)
		}
		if err := s.Close(); err != nil {
			t.Fatalf("close: %v", err)
		}
	}
}

func TestOpenAppliesPragmas(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "visits.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer s.Close()

	var mode string
	if err := s.db.QueryRow(`PRAGMA journal_mode`).Scan(&mode); err != nil {
		t.Fatalf("journal_mode: %v", err)
	}
	if mode != "wal" {
		t.Fatalf("expected wal journal mode, got %q", mode)
	}

	var timeout int
	if err := s.db.QueryRow(`PRAGMA busy_timeout`).Scan(&timeout); err != nil {
		t.Fatalf("busy_timeout: %v", err)
	}
	if timeout != 5000 {
		t.Fatalf("expected busy_timeout 5000, got %d", timeout)
	}
}
