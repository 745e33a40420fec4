package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	mdwerror "github.com/msto63/vera/foundation/core/error"
	"github.com/msto63/vera/foundation/vera"
)

func newSQLite(t *testing.T) HistoryStore {
	t.Helper()
	s, err := NewSQLiteHistoryStore(SQLiteConfig{Path: filepath.Join(t.TempDir(), "nested", "history.db")})
	if err != nil {
		t.Fatalf("NewSQLiteHistoryStore() error = %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func newMemory(t *testing.T) HistoryStore {
	return NewMemoryHistoryStore()
}

var stores = []struct {
	name string
	open func(t *testing.T) HistoryStore
}{
	{"sqlite", newSQLite},
	{"memory", newMemory},
}

func TestHistoryStore_RecordAndRecent(t *testing.T) {
	for _, st := range stores {
		t.Run(st.name, func(t *testing.T) {
			s := st.open(t)
			ctx := context.Background()
			base := time.Now().UTC().Add(-time.Hour)

			for i, name := range []string{"a.vera", "b.vera", "c.vera"} {
				r := &Record{
					Timestamp:  base.Add(time.Duration(i) * time.Minute),
					Source:     name,
					SHA256:     "00",
					Bytes:      10 * (i + 1),
					Tokens:     i + 1,
					Statements: i,
					Duration:   time.Millisecond,
				}
				if err := s.Record(ctx, r); err != nil {
					t.Fatalf("Record() error = %v", err)
				}
				if r.ID == "" {
					t.Error("Expected Record to assign an ID")
				}
			}

			recent, err := s.Recent(ctx, 2)
			if err != nil {
				t.Fatalf("Recent() error = %v", err)
			}
			if len(recent) != 2 {
				t.Fatalf("Expected 2 records, got %d", len(recent))
			}
			if recent[0].Source != "c.vera" || recent[1].Source != "b.vera" {
				t.Errorf("Expected newest first, got %s, %s", recent[0].Source, recent[1].Source)
			}
			if recent[0].Status != StatusOK {
				t.Errorf("Expected default status ok, got %s", recent[0].Status)
			}
			if recent[0].Duration != time.Millisecond {
				t.Errorf("Expected duration to round-trip, got %v", recent[0].Duration)
			}
		})
	}
}

func TestHistoryStore_Stats(t *testing.T) {
	for _, st := range stores {
		t.Run(st.name, func(t *testing.T) {
			s := st.open(t)
			ctx := context.Background()

			records := []*Record{
				{Source: "ok", Duration: 2 * time.Millisecond},
				{Source: "lex", Status: StatusError, ErrorCode: "LEXICAL_ERROR", Duration: 4 * time.Millisecond},
				{Source: "syn", Status: StatusError, ErrorCode: "SYNTAX_ERROR", Duration: 6 * time.Millisecond},
				{Source: "syn2", Status: StatusError, ErrorCode: "SYNTAX_ERROR", Duration: 8 * time.Millisecond},
			}
			for _, r := range records {
				if err := s.Record(ctx, r); err != nil {
					t.Fatalf("Record() error = %v", err)
				}
			}

			stats, err := s.Stats(ctx)
			if err != nil {
				t.Fatalf("Stats() error = %v", err)
			}
			if stats.Total != 4 || stats.OK != 1 || stats.Errors != 3 {
				t.Errorf("Expected 4/1/3, got %d/%d/%d", stats.Total, stats.OK, stats.Errors)
			}
			if stats.ErrorsByCode["SYNTAX_ERROR"] != 2 || stats.ErrorsByCode["LEXICAL_ERROR"] != 1 {
				t.Errorf("Unexpected error groups %v", stats.ErrorsByCode)
			}
			if stats.AverageDuration != 5*time.Millisecond {
				t.Errorf("Expected average 5ms, got %v", stats.AverageDuration)
			}
			if stats.Newest.IsZero() || stats.Oldest.After(stats.Newest) {
				t.Errorf("Unexpected time range %v - %v", stats.Oldest, stats.Newest)
			}
		})
	}
}

func TestHistoryStore_StatsEmpty(t *testing.T) {
	for _, st := range stores {
		t.Run(st.name, func(t *testing.T) {
			stats, err := st.open(t).Stats(context.Background())
			if err != nil {
				t.Fatalf("Stats() error = %v", err)
			}
			if stats.Total != 0 || stats.AverageDuration != 0 || !stats.Newest.IsZero() {
				t.Errorf("Expected empty stats, got %+v", stats)
			}
		})
	}
}

func TestHistoryStore_Prune(t *testing.T) {
	for _, st := range stores {
		t.Run(st.name, func(t *testing.T) {
			s := st.open(t)
			ctx := context.Background()

			old := &Record{Source: "old", Timestamp: time.Now().UTC().Add(-48 * time.Hour)}
			fresh := &Record{Source: "fresh"}
			for _, r := range []*Record{old, fresh} {
				if err := s.Record(ctx, r); err != nil {
					t.Fatalf("Record() error = %v", err)
				}
			}

			deleted, err := s.Prune(ctx, 24*time.Hour)
			if err != nil {
				t.Fatalf("Prune() error = %v", err)
			}
			if deleted != 1 {
				t.Errorf("Expected 1 deleted, got %d", deleted)
			}

			recent, _ := s.Recent(ctx, 10)
			if len(recent) != 1 || recent[0].Source != "fresh" {
				t.Errorf("Expected only fresh record left, got %v", recent)
			}
		})
	}
}

func TestHistoryStore_Ping(t *testing.T) {
	for _, st := range stores {
		t.Run(st.name, func(t *testing.T) {
			if err := st.open(t).Ping(context.Background()); err != nil {
				t.Errorf("Ping() error = %v", err)
			}
		})
	}
}

func TestNewSQLiteHistoryStore_EmptyPath(t *testing.T) {
	_, err := NewSQLiteHistoryStore(SQLiteConfig{})
	if !mdwerror.HasCode(err, mdwerror.CodeInvalidConfig) {
		t.Errorf("Expected INVALID_CONFIG, got %v", err)
	}
}

func TestSQLiteHistoryStore_Persists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	ctx := context.Background()

	s, err := NewSQLiteHistoryStore(SQLiteConfig{Path: path})
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Record(ctx, &Record{Source: "kept", ErrorMessage: ""}); err != nil {
		t.Fatal(err)
	}
	s.Close()

	reopened, err := NewSQLiteHistoryStore(SQLiteConfig{Path: path})
	if err != nil {
		t.Fatal(err)
	}
	defer reopened.Close()

	recent, err := reopened.Recent(ctx, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(recent) != 1 || recent[0].Source != "kept" {
		t.Errorf("Expected record to survive reopen, got %v", recent)
	}
	if recent[0].ErrorCode != "" {
		t.Errorf("Expected empty error code, got %q", recent[0].ErrorCode)
	}
}

func TestNewRecord(t *testing.T) {
	engine := vera.NewEngine(vera.Options{})
	ctx := context.Background()

	src := "main { x = 1; }"
	res, err := engine.Parse(ctx, src)
	if err != nil {
		t.Fatal(err)
	}
	r := NewRecord("ok.vera", src, res, nil, 0)
	if r.Status != StatusOK || r.Statements != 1 || r.Tokens != len(res.Tokens) {
		t.Errorf("Unexpected ok record %+v", r)
	}
	if r.ID != res.RunID {
		t.Errorf("Expected record ID to reuse run ID %s, got %s", res.RunID, r.ID)
	}
	if len(r.SHA256) != 64 || r.Bytes != len(src) {
		t.Errorf("Unexpected digest or size in %+v", r)
	}

	_, perr := engine.Parse(ctx, "main { x = ; }")
	r = NewRecord("bad.vera", "main { x = ; }", nil, perr, time.Millisecond)
	if r.Status != StatusError || r.ErrorCode != string(mdwerror.CodeSyntax) {
		t.Errorf("Unexpected error record %+v", r)
	}
	if r.ErrorMessage == "" || r.Duration != time.Millisecond {
		t.Errorf("Expected message and duration, got %+v", r)
	}

	r = NewRecord("io", "", nil, errors.New("disk gone"), 0)
	if r.ErrorCode != string(mdwerror.CodeUnknown) {
		t.Errorf("Expected UNKNOWN for plain errors, got %s", r.ErrorCode)
	}
}
