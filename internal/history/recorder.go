package history

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/rs/zerolog"

	"github.com/lox/blackjack/internal/game"
)

// maxFlushFailures disables a recorder after this many failed writes in a row.
const maxFlushFailures = 3

// Source is the part of the table a recorder observes.
type Source interface {
	Snapshot() game.Snapshot
	Subscribe(fn game.Listener) (unsubscribe func())
}

// Config configures a Recorder.
type Config struct {
	// Path of the TOML file. Records already in the file are kept.
	Path string
	// FlushRounds is how many settled rounds are buffered before the file is
	// rewritten. Defaults to 1.
	FlushRounds int
}

// Recorder turns settled rounds into records and writes them to disk.
type Recorder struct {
	cfg    Config
	logger zerolog.Logger

	mu        sync.Mutex
	records   []Record
	unflushed int
	lastID    string
	failures  int
	disabled  bool
	detach    func()
}

// NewRecorder creates a recorder, loading any records already at cfg.Path.
func NewRecorder(cfg Config, logger zerolog.Logger) (*Recorder, error) {
	if cfg.Path == "" {
		return nil, errors.New("history: Path is required")
	}
	if cfg.FlushRounds <= 0 {
		cfg.FlushRounds = 1
	}

	existing, err := Load(cfg.Path)
	if err != nil {
		return nil, err
	}

	return &Recorder{
		cfg:     cfg,
		logger:  logger.With().Str("component", "history").Str("path", cfg.Path).Logger(),
		records: existing,
	}, nil
}

// Attach subscribes to src. Every change notification is checked for a newly
// settled round; the recorder never mutates the table.
func (r *Recorder) Attach(src Source) {
	unsubscribe := src.Subscribe(func() {
		r.Observe(src.Snapshot())
	})

	r.mu.Lock()
	r.detach = unsubscribe
	r.mu.Unlock()
}

// Observe records s if it is a finished round not seen before.
func (r *Recorder) Observe(s game.Snapshot) {
	if s.Phase != game.Finished {
		return
	}

	r.mu.Lock()
	if r.disabled || s.RoundID == r.lastID {
		r.mu.Unlock()
		return
	}
	rec, err := FromSnapshot(s)
	if err != nil {
		r.mu.Unlock()
		r.logger.Error().Err(err).Msg("Round not recorded")
		return
	}
	r.lastID = s.RoundID
	r.records = append(r.records, rec)
	r.unflushed++
	due := r.unflushed >= r.cfg.FlushRounds
	r.mu.Unlock()

	r.logger.Debug().Str("round_id", rec.RoundID).Strs("winners", rec.Winners).Msg("Round recorded")

	if due {
		if err := r.Flush(); err != nil {
			r.logger.Error().Err(err).Msg("History flush failed")
		}
	}
}

// Flush rewrites the file with every record.
func (r *Recorder) Flush() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.disabled || r.unflushed == 0 {
		return nil
	}

	var buf bytes.Buffer
	err := Encode(&buf, r.records)
	if err == nil {
		err = writeFileAtomic(r.cfg.Path, buf.Bytes(), 0o644)
	}
	if err != nil {
		r.failures++
		if r.failures >= maxFlushFailures {
			r.disabled = true
			r.logger.Error().Int("dropped_rounds", r.unflushed).
				Msg("History recording disabled after repeated failures")
		}
		return err
	}

	r.failures = 0
	r.unflushed = 0
	return nil
}

// Records returns a copy of everything recorded, including loaded records.
func (r *Recorder) Records() []Record {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Record(nil), r.records...)
}

// Disabled reports whether recording stopped after repeated write failures.
func (r *Recorder) Disabled() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.disabled
}

// Close detaches from the table and flushes remaining records.
func (r *Recorder) Close() error {
	r.mu.Lock()
	detach := r.detach
	r.detach = nil
	r.mu.Unlock()

	if detach != nil {
		detach()
	}
	return r.Flush()
}

// Load reads a history file. A missing file has no records.
func Load(path string) ([]Record, error) {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("history: open: %w", err)
	}
	defer f.Close()

	return Decode(f)
}
