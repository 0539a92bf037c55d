package cache

import (
	"path/filepath"
	"testing"
	"time"

	"themelab-hq/triton/pkg/issue"
)

func TestKeyChangesWithInputs(t *testing.T) {
	base := Key("a.liquid", "src", "development", "v1")
	cases := map[string]string{
		"path":    Key("b.liquid", "src", "development", "v1"),
		"source":  Key("a.liquid", "src2", "development", "v1"),
		"profile": Key("a.liquid", "src", "production", "v1"),
		"version": Key("a.liquid", "src", "development", "v2"),
	}
	for name, k := range cases {
		if k == base {
			t.Errorf("changing %s did not change the key", name)
		}
	}
	if again := Key("a.liquid", "src", "development", "v1"); again != base {
		t.Error("identical inputs produced different keys")
	}
}

func TestMemoryRoundTrip(t *testing.T) {
	m := NewMemory()
	if _, ok := m.Get("k"); ok {
		t.Fatal("empty cache returned a hit")
	}

	entry := Entry{Issues: []issue.Issue{{
		Path: "sections/hero.liquid", Line: 3,
		Rule: "filter/unknown", Severity: issue.SeverityError,
		Message: "unknown filter: frobnicate",
	}}}
	if err := m.Put("k", entry); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, ok := m.Get("k")
	if !ok {
		t.Fatal("miss after Put")
	}
	if len(got.Issues) != 1 || got.Issues[0].Rule != "filter/unknown" {
		t.Fatalf("entry = %+v", got)
	}
	if m.Len() != 1 {
		t.Errorf("Len = %d", m.Len())
	}
}

func TestSQLiteRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.db")
	s, err := NewSQLite(path)
	if err != nil {
		t.Fatalf("NewSQLite: %v", err)
	}
	defer s.Close()

	entry := Entry{Issues: []issue.Issue{{
		Path: "snippets/card.liquid", Line: 1,
		Rule: "security/unescaped-output", Severity: issue.SeverityError,
		Message: "unescaped user content: customer.first_name", Fixable: true,
	}}}
	if err := s.Put("k1", entry); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, ok := s.Get("k1")
	if !ok {
		t.Fatal("miss after Put")
	}
	if len(got.Issues) != 1 || !got.Issues[0].Fixable {
		t.Fatalf("entry = %+v", got)
	}

	// Empty result set is a clean miss.
	if _, ok := s.Get("absent"); ok {
		t.Error("hit for absent key")
	}

	// Replacement keeps one row per key.
	if err := s.Put("k1", Entry{}); err != nil {
		t.Fatalf("Put replace: %v", err)
	}
	got, ok = s.Get("k1")
	if !ok || len(got.Issues) != 0 {
		t.Fatalf("replaced entry = %+v, ok = %v", got, ok)
	}
}

func TestSQLitePersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.db")
	s, err := NewSQLite(path)
	if err != nil {
		t.Fatalf("NewSQLite: %v", err)
	}
	if err := s.Put("k", Entry{}); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	s2, err := NewSQLite(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s2.Close()
	if _, ok := s2.Get("k"); !ok {
		t.Error("entry lost across reopen")
	}
}

func TestSQLitePrune(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.db")
	s, err := NewSQLite(path)
	if err != nil {
		t.Fatalf("NewSQLite: %v", err)
	}
	defer s.Close()

	if err := s.Put("old", Entry{}); err != nil {
		t.Fatalf("Put: %v", err)
	}
	// Everything just written is newer than the cutoff.
	n, err := s.Prune(time.Hour)
	if err != nil {
		t.Fatalf("Prune: %v", err)
	}
	if n != 0 {
		t.Errorf("pruned %d fresh entries", n)
	}
	// A zero max age expires everything.
	n, err = s.Prune(-time.Second)
	if err != nil {
		t.Fatalf("Prune: %v", err)
	}
	if n != 1 {
		t.Errorf("pruned %d entries, want 1", n)
	}
}
