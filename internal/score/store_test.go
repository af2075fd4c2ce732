package score

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
)

func openTestDB(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := OpenSQLite(":memory:")
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSQLiteProfileRoundTrip(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	p := db.Profile("alice")

	got, err := p.Load(ctx)
	if err != nil || got != 0 {
		t.Fatalf("Load on empty db = %d, %v; want 0, nil", got, err)
	}
	if err := p.Save(ctx, 12); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if got, _ := p.Load(ctx); got != 12 {
		t.Errorf("Load = %d, want 12", got)
	}
}

func TestSQLiteSaveNeverLowers(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	p := db.Profile("bob")

	for _, s := range []int{5, 9, 3, 9, 7} {
		if err := p.Save(ctx, s); err != nil {
			t.Fatalf("Save(%d): %v", s, err)
		}
	}
	if got, _ := p.Load(ctx); got != 9 {
		t.Errorf("Load = %d, want 9", got)
	}
	if err := p.Save(ctx, -1); !errors.Is(err, ErrNegativeScore) {
		t.Errorf("Save(-1) error = %v, want ErrNegativeScore", err)
	}
}

func TestSQLiteTop(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	scores := map[string]int{"a": 3, "b": 10, "c": 7, "d": 1}
	for name, s := range scores {
		if err := db.Put(ctx, name, s); err != nil {
			t.Fatal(err)
		}
	}

	top, err := db.Top(ctx, 3)
	if err != nil {
		t.Fatalf("Top: %v", err)
	}
	var got []string
	for _, e := range top {
		got = append(got, e.Profile)
	}
	if strings.Join(got, ",") != "b,c,a" {
		t.Errorf("Top(3) = %v, want [b c a]", got)
	}
}

func TestSQLitePersistsAcrossOpen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "scores.db")

	db, err := OpenSQLite(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := db.Profile("carol").Save(ctx, 21); err != nil {
		t.Fatal(err)
	}
	db.Close()

	db, err = OpenSQLite(path)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	if got, _ := db.Profile("carol").Load(ctx); got != 21 {
		t.Errorf("Load after reopen = %d, want 21", got)
	}
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	var m MemoryStore
	m.Save(ctx, 4)
	m.Save(ctx, 2)
	if got, _ := m.Load(ctx); got != 4 {
		t.Errorf("Load = %d, want 4", got)
	}
}

func TestNormalizeProfile(t *testing.T) {
	tests := map[string]string{
		"":                          DefaultProfile,
		"  dave ":                   "dave",
		"averyveryverylongusername": "averyveryverylon",
	}
	for in, want := range tests {
		if got := NormalizeProfile(in); got != want {
			t.Errorf("NormalizeProfile(%q) = %q, want %q", in, got, want)
		}
	}
}
