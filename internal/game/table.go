package game

import (
	"errors"
	"fmt"
	"io"
	rand "math/rand/v2"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/participant"
)

var (
	// ErrBetOutOfRange is returned when a stake is outside the table limits.
	ErrBetOutOfRange = errors.New("bet outside table limits")

	// ErrNotSeated is returned for participants that are not at the table.
	ErrNotSeated = errors.New("participant is not seated")

	// ErrDealerBet is returned when a stake is recorded for the dealer.
	ErrDealerBet = errors.New("the dealer does not bet")

	// ErrAlreadySeated is returned when a participant is seated twice.
	ErrAlreadySeated = errors.New("participant is already seated")

	// ErrNilParticipant is returned when a nil participant is passed in.
	ErrNilParticipant = errors.New("nil participant")

	// ErrRoundInProgress is returned when seating changes mid-round.
	ErrRoundInProgress = errors.New("round in progress")
)

// Phase is the round lifecycle state
type Phase int

const (
	NotStarted Phase = iota
	InProgress
	Finished
)

// String returns the string representation of a phase
func (p Phase) String() string {
	switch p {
	case NotStarted:
		return "not_started"
	case InProgress:
		return "in_progress"
	case Finished:
		return "finished"
	default:
		return "unknown"
	}
}

// MarshalText encodes the phase by name.
func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText is the inverse of MarshalText.
func (p *Phase) UnmarshalText(b []byte) error {
	switch string(b) {
	case "not_started":
		*p = NotStarted
	case "in_progress":
		*p = InProgress
	case "finished":
		*p = Finished
	default:
		return fmt.Errorf("unknown phase %q", b)
	}
	return nil
}

// Table is the round engine. It is driven by a single actor; the internal
// lock only exists so that observers on other goroutines can read snapshots
// safely. Participant decisions are always requested outside the lock.
type Table struct {
	mu sync.Mutex

	rng      *rand.Rand
	logger   *log.Logger
	clock    quartz.Clock
	bus      *ChangeBus
	newDeck  func() *deck.Deck
	shuffler Shuffler

	minBet int
	maxBet int

	// players[0] is always the dealer.
	dealer  *participant.Dealer
	players []participant.Participant

	deck      *deck.Deck
	bets      map[participant.Participant]int
	winners   []participant.Participant
	phase     Phase
	natural   bool
	turn      int
	canDouble bool
	roundID   string
	startedAt time.Time
	rounds    int

	// pending is set by mutations and cleared when listeners are notified.
	pending   bool
	version   uint64
	notifying atomic.Bool
}

// NewTable seats the dealer followed by players in order. The rng drives the
// shuffle and cut; a nil rng is a programming error and panics.
func NewTable(rng *rand.Rand, dealer *participant.Dealer, players []participant.Participant, opts ...Option) (*Table, error) {
	if rng == nil {
		panic("rng is required for table creation")
	}
	if dealer == nil {
		return nil, errors.New("a dealer is required")
	}
	if len(players) == 0 {
		return nil, errors.New("at least one player is required")
	}

	cfg := &tableConfig{
		minBet:   DefaultMinBet,
		maxBet:   DefaultMaxBet,
		clock:    quartz.NewReal(),
		newDeck:  deck.New52,
		shuffler: ShuffleAndCut,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.minBet < 1 {
		return nil, fmt.Errorf("minimum bet must be positive, got %d", cfg.minBet)
	}
	if cfg.maxBet < cfg.minBet {
		return nil, fmt.Errorf("maximum bet %d is below minimum bet %d", cfg.maxBet, cfg.minBet)
	}

	logger := cfg.logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	t := &Table{
		rng:      rng,
		logger:   logger.WithPrefix("table"),
		clock:    cfg.clock,
		bus:      NewChangeBus(),
		newDeck:  cfg.newDeck,
		shuffler: cfg.shuffler,
		minBet:   cfg.minBet,
		maxBet:   cfg.maxBet,
		dealer:   dealer,
		players:  []participant.Participant{dealer},
		bets:     make(map[participant.Participant]int),
	}

	for _, p := range players {
		if err := t.checkSeatable(p); err != nil {
			return nil, err
		}
		t.players = append(t.players, p)
	}

	return t, nil
}

func (t *Table) checkSeatable(p participant.Participant) error {
	if p == nil {
		return ErrNilParticipant
	}
	if p.Kind() == participant.KindDealer {
		return fmt.Errorf("seat %s: %w", p.Name(), ErrDealerBet)
	}
	if t.seatIndex(p) >= 0 {
		return fmt.Errorf("seat %s: %w", p.Name(), ErrAlreadySeated)
	}
	return nil
}

// Seat adds a participant after the existing players. Seating only changes
// between rounds.
func (t *Table) Seat(p participant.Participant) error {
	if p == nil {
		return ErrNilParticipant
	}
	return t.apply("seat", func() error {
		if t.phase != NotStarted {
			return fmt.Errorf("seat %s: %w", p.Name(), ErrRoundInProgress)
		}
		if err := t.checkSeatable(p); err != nil {
			return err
		}
		t.players = append(t.players, p)
		t.logger.Info("Participant seated", "name", p.Name(), "kind", p.Kind(), "chips", p.Chips())
		t.changed()
		return nil
	})
}

// Subscribe registers a change listener. See ChangeBus.Subscribe.
func (t *Table) Subscribe(fn Listener) (unsubscribe func()) {
	return t.bus.Subscribe(fn)
}

// apply runs a mutation under the lock and notifies listeners afterwards.
// Mutations requested while listeners are being notified are refused.
func (t *Table) apply(op string, fn func() error) error {
	if t.refuseReentrant(op) {
		return nil
	}

	t.mu.Lock()
	err := fn()
	notify := t.pending
	if notify {
		t.pending = false
		t.version++
	}
	t.mu.Unlock()

	if notify {
		t.notifying.Store(true)
		defer t.notifying.Store(false)
		t.bus.Publish()
	}
	return err
}

func (t *Table) refuseReentrant(op string) bool {
	if t.notifying.Load() {
		t.logger.Warn("Ignoring mutation requested by a change listener", "op", op)
		return true
	}
	return false
}

// changed marks the state as modified; must be called with the lock held.
func (t *Table) changed() {
	t.pending = true
}

// view runs fn under the lock for read access.
func (t *Table) view(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fn()
}

func (t *Table) seatIndex(p participant.Participant) int {
	for i, q := range t.players {
		if q == p {
			return i
		}
	}
	return -1
}

// Accessors

// Dealer returns the house participant.
func (t *Table) Dealer() *participant.Dealer {
	return t.dealer
}

// Players returns the non-dealer participants in seating order.
func (t *Table) Players() []participant.Participant {
	var out []participant.Participant
	t.view(func() {
		out = make([]participant.Participant, len(t.players)-1)
		copy(out, t.players[1:])
	})
	return out
}

// Participants returns everyone at the table, dealer first.
func (t *Table) Participants() []participant.Participant {
	var out []participant.Participant
	t.view(func() {
		out = make([]participant.Participant, len(t.players))
		copy(out, t.players)
	})
	return out
}

// Limits returns the table minimum and maximum stake.
func (t *Table) Limits() (minBet, maxBet int) {
	return t.minBet, t.maxBet
}

// Bets returns a copy of the bet ledger.
func (t *Table) Bets() map[participant.Participant]int {
	out := make(map[participant.Participant]int)
	t.view(func() {
		for p, v := range t.bets {
			out[p] = v
		}
	})
	return out
}

// Bet returns the recorded stake for p.
func (t *Table) Bet(p participant.Participant) (int, bool) {
	var (
		v  int
		ok bool
	)
	t.view(func() { v, ok = t.bets[p] })
	return v, ok
}

// Winners returns the participants who beat the dealer this round, in
// seating order. Empty means the dealer won outright.
func (t *Table) Winners() []participant.Participant {
	var out []participant.Participant
	t.view(func() {
		out = make([]participant.Participant, len(t.winners))
		copy(out, t.winners)
	})
	return out
}

// IsWinner reports whether p is in the winners set.
func (t *Table) IsWinner(p participant.Participant) bool {
	var won bool
	t.view(func() { won = t.isWinnerLocked(p) })
	return won
}

func (t *Table) isWinnerLocked(p participant.Participant) bool {
	for _, w := range t.winners {
		if w == p {
			return true
		}
	}
	return false
}

// Phase returns the lifecycle state.
func (t *Table) Phase() Phase {
	var p Phase
	t.view(func() { p = t.phase })
	return p
}

// Started reports whether a round is being played.
func (t *Table) Started() bool { return t.Phase() == InProgress }

// Finished reports whether the current round has been settled.
func (t *Table) Finished() bool { return t.Phase() == Finished }

// Natural reports whether someone was dealt 21 this round.
func (t *Table) Natural() bool {
	var n bool
	t.view(func() { n = t.natural })
	return n
}

// RoundID identifies the current or last round.
func (t *Table) RoundID() string {
	var id string
	t.view(func() { id = t.roundID })
	return id
}

// Rounds returns how many rounds have been dealt at this table.
func (t *Table) Rounds() int {
	var n int
	t.view(func() { n = t.rounds })
	return n
}

// Current returns the participant whose turn it is, or nil outside the turn
// loop.
func (t *Table) Current() participant.Participant {
	var p participant.Participant
	t.view(func() { p = t.currentLocked() })
	return p
}

// IsTurn reports whether p may act now.
func (t *Table) IsTurn(p participant.Participant) bool {
	var ok bool
	t.view(func() { ok = t.isTurnLocked(p) })
	return ok
}

// CanDouble reports whether the current turn holder may still double.
func (t *Table) CanDouble() bool {
	var ok bool
	t.view(func() { ok = t.currentLocked() != nil && t.canDouble })
	return ok
}

func (t *Table) currentLocked() participant.Participant {
	if t.phase != InProgress || t.turn < 1 || t.turn >= len(t.players) {
		return nil
	}
	return t.players[t.turn]
}

func (t *Table) isTurnLocked(p participant.Participant) bool {
	cur := t.currentLocked()
	return cur != nil && cur == p
}
