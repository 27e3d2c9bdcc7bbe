package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/rs/zerolog"

	"github.com/hailam/chesscore/internal/movegen"
)

// ErrNotFound is returned when no result is cached for a key.
var ErrNotFound = errors.New("storage: not found")

const perftPrefix = "perft/"

// PerftRecord is a cached perft run.
type PerftRecord struct {
	FEN      string                `json:"fen"`
	Depth    int                   `json:"depth"`
	Counters movegen.Counters      `json:"counters"`
	Divide   []movegen.DivideEntry `json:"divide,omitempty"`
	Elapsed  time.Duration         `json:"elapsed"`
	SavedAt  time.Time             `json:"saved_at"`
}

// Storage wraps BadgerDB for persistent storage
type Storage struct {
	db  *badger.DB
	log zerolog.Logger
}

// Open opens or creates the database in dir. An empty dir selects the
// platform data directory.
func Open(dir string, log zerolog.Logger) (*Storage, error) {
	if dir == "" {
		var err error
		if dir, err = GetDatabaseDir(); err != nil {
			return nil, err
		}
	}
	log = log.With().Str("component", "storage").Logger()

	opts := badger.DefaultOptions(dir)
	opts.Logger = badgerLogger{log}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("storage: open %s: %w", dir, err)
	}
	log.Debug().Str("dir", dir).Msg("database opened")
	return &Storage{db: db, log: log}, nil
}

// Close closes the database
func (s *Storage) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// perftKey is "perft/<depth>/<fen>". The FEN is normalised so equivalent
// spellings share an entry.
func perftKey(fen string, depth int) []byte {
	return []byte(fmt.Sprintf("%s%d/%s", perftPrefix, depth, strings.Join(strings.Fields(fen), " ")))
}

// PutPerft saves a perft result, replacing any earlier one for the same
// position and depth.
func (s *Storage) PutPerft(rec PerftRecord) error {
	rec.SavedAt = time.Now()
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(perftKey(rec.FEN, rec.Depth), data)
	})
	if err == nil {
		s.log.Debug().Str("fen", rec.FEN).Int("depth", rec.Depth).Uint64("nodes", rec.Counters.Nodes).Msg("perft cached")
	}
	return err
}

// GetPerft loads the cached result for fen at depth, or ErrNotFound.
func (s *Storage) GetPerft(fen string, depth int) (PerftRecord, error) {
	var rec PerftRecord

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(perftKey(fen, depth))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &rec)
		})
	})

	return rec, err
}

// DeletePerft removes the cached result for fen at depth, if any.
func (s *Storage) DeletePerft(fen string, depth int) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(perftKey(fen, depth))
	})
}

// ListPerft returns every cached perft record, ordered by key.
func (s *Storage) ListPerft() ([]PerftRecord, error) {
	var out []PerftRecord

	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := []byte(perftPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var rec PerftRecord
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &rec)
			}); err != nil {
				return err
			}
			out = append(out, rec)
		}
		return nil
	})

	return out, err
}

// badgerLogger forwards badger's messages to zerolog. Badger's info output
// is chatty, so it is demoted to debug.
type badgerLogger struct {
	log zerolog.Logger
}

func (l badgerLogger) Errorf(format string, args ...interface{}) {
	l.log.Error().Msgf(strings.TrimSpace(format), args...)
}

func (l badgerLogger) Warningf(format string, args ...interface{}) {
	l.log.Warn().Msgf(strings.TrimSpace(format), args...)
}

func (l badgerLogger) Infof(format string, args ...interface{}) {
	l.log.Debug().Msgf(strings.TrimSpace(format), args...)
}

func (l badgerLogger) Debugf(format string, args ...interface{}) {
	l.log.Trace().Msgf(strings.TrimSpace(format), args...)
}
