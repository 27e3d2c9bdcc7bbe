package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/hailam/chesscore/internal/movegen"
)

const kiwipete = "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1"

func openTemp(t *testing.T) *Storage {
	t.Helper()
	s, err := Open(t.TempDir(), zerolog.Nop())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestPerftCache(t *testing.T) {
	s := openTemp(t)

	t.Run("Miss", func(t *testing.T) {
		if _, err := s.GetPerft(kiwipete, 2); !errors.Is(err, ErrNotFound) {
			t.Fatalf("err = %v, want ErrNotFound", err)
		}
	})

	rec := PerftRecord{
		FEN:      kiwipete,
		Depth:    2,
		Counters: movegen.Counters{Nodes: 2039, Captures: 351, EnPassant: 1, Castles: 91, Checks: 3},
		Divide:   []movegen.DivideEntry{{Move: "e1g1", Counters: movegen.Counters{Nodes: 43}}},
		Elapsed:  3 * time.Millisecond,
	}

	t.Run("RoundTrip", func(t *testing.T) {
		if err := s.PutPerft(rec); err != nil {
			t.Fatalf("PutPerft: %v", err)
		}
		got, err := s.GetPerft(kiwipete, 2)
		if err != nil {
			t.Fatalf("GetPerft: %v", err)
		}
		if got.Counters != rec.Counters || got.Depth != 2 || got.FEN != kiwipete {
			t.Errorf("got %+v, want %+v", got, rec)
		}
		if len(got.Divide) != 1 || got.Divide[0].Move != "e1g1" {
			t.Errorf("divide = %+v", got.Divide)
		}
		if got.SavedAt.IsZero() {
			t.Error("SavedAt not set")
		}
	})

	t.Run("KeyedByDepth", func(t *testing.T) {
		if _, err := s.GetPerft(kiwipete, 3); !errors.Is(err, ErrNotFound) {
			t.Fatalf("depth 3 err = %v, want ErrNotFound", err)
		}
	})

	t.Run("WhitespaceInsensitive", func(t *testing.T) {
		if _, err := s.GetPerft("  "+kiwipete+"  ", 2); err != nil {
			t.Fatalf("padded FEN missed: %v", err)
		}
	})

	t.Run("List", func(t *testing.T) {
		other := rec
		other.Depth = 1
		other.Counters = movegen.Counters{Nodes: 48, Captures: 8, Castles: 2}
		if err := s.PutPerft(other); err != nil {
			t.Fatal(err)
		}
		all, err := s.ListPerft()
		if err != nil {
			t.Fatal(err)
		}
		if len(all) != 2 || all[0].Depth != 1 || all[1].Depth != 2 {
			t.Fatalf("ListPerft = %+v", all)
		}
	})

	t.Run("Delete", func(t *testing.T) {
		if err := s.DeletePerft(kiwipete, 2); err != nil {
			t.Fatal(err)
		}
		if _, err := s.GetPerft(kiwipete, 2); !errors.Is(err, ErrNotFound) {
			t.Fatalf("err after delete = %v", err)
		}
	})
}

func TestReopenKeepsData(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(dir, zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}
	if err := s.PutPerft(PerftRecord{FEN: kiwipete, Depth: 1, Counters: movegen.Counters{Nodes: 48}}); err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}

	s, err = Open(dir, zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	got, err := s.GetPerft(kiwipete, 1)
	if err != nil || got.Counters.Nodes != 48 {
		t.Fatalf("after reopen: %+v, %v", got, err)
	}
}

func TestDataPaths(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", t.TempDir())
	t.Setenv("APPDATA", t.TempDir())

	dataDir, err := GetDataDir()
	if err != nil {
		t.Fatalf("GetDataDir failed: %v", err)
	}
	if dataDir == "" {
		t.Error("GetDataDir returned empty path")
	}
	if _, err := os.Stat(dataDir); os.IsNotExist(err) {
		t.Errorf("Data directory was not created: %s", dataDir)
	}

	dbDir, err := GetDatabaseDir()
	if err != nil {
		t.Fatalf("GetDatabaseDir failed: %v", err)
	}
	if _, err := os.Stat(dbDir); err != nil {
		t.Errorf("Database directory missing: %v", err)
	}
	if filepath.Dir(dbDir) != dataDir {
		t.Errorf("database %s is not inside %s", dbDir, dataDir)
	}

	hist, err := HistoryFile()
	if err != nil {
		t.Fatalf("HistoryFile failed: %v", err)
	}
	if filepath.Dir(hist) != dataDir {
		t.Errorf("history %s is not inside %s", hist, dataDir)
	}
	t.Logf("Data directory: %s", dataDir)
}
