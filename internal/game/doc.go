// Package game implements the blackjack round engine.
//
// The main type is Table, which owns the deck, the seated participants (the
// dealer always first), the bet ledger, the winners of the current round and
// the round lifecycle.
//
// # Basic Usage
//
// Drive a whole round with blocking decisions (console, simulation):
//
//	rng := randutil.New(42)
//	dealer := participant.NewDealer("Dealer", 10000)
//	bot := participant.NewAutomated("Bot", 500, participant.WithRand(rng))
//	t, err := game.NewTable(rng, dealer, []participant.Participant{bot},
//	    game.WithLimits(5, 10))
//	if err != nil { ... }
//	if err := t.PlayRound(ctx); err != nil { ... }
//	winners := t.Winners()
//	t.Reset()
//
// Or step by step from an event loop that cannot block:
//
//	t.SetBet(human, 20)
//	t.CollectBets()        // automated seats bet on their own
//	t.InitRound()          // deals; automated seats ahead of the human play
//	t.Hit(human)           // only the current turn holder may act
//	t.Stand(human)         // later automated seats and the dealer play
//	if t.Finished() { ... }
//
// # Lifecycle
//
// A round moves NotStarted → InProgress → Finished and back to NotStarted on
// Reset. Operations called in the wrong phase, or turn actions from anyone
// other than the current turn holder, are ignored. Drawing from an empty deck
// is the only fatal condition; it is returned wrapped around
// deck.ErrEmptyDeck.
//
// # Notifications
//
// Subscribe registers a listener that is called with no payload after every
// mutation; listeners re-read state through the accessors or Snapshot.
// Listeners run outside the table lock but must not call mutating methods.
//
// # Deterministic Testing
//
// WithDeckSource and WithShuffler replace the fresh shuffled 52-card deck so
// tests can stack the cards:
//
//	t, _ := game.NewTable(rng, dealer, players,
//	    game.WithDeckSource(func() *deck.Deck { return deck.New(cards...) }),
//	    game.WithShuffler(game.NoShuffle))
package game
