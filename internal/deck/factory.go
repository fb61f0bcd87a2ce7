package deck

// Factory decks are returned in suit-major order within each rank and are
// never shuffled here; callers shuffle and cut explicitly.

// New52 builds an ordered 52-card deck (ranks 2 through Ace).
func New52() *Deck {
	return build(Two)
}

// New32 builds an ordered 32-card piquet deck (ranks 7 through Ace).
func New32() *Deck {
	return build(Seven)
}

// NewEmpty returns a deck with no cards.
func NewEmpty() *Deck {
	return &Deck{cards: []Card{}}
}

func build(lowest Rank) *Deck {
	d := &Deck{cards: make([]Card, 0, int(Ace-lowest+1)*len(Suits))}
	for rank := lowest; rank <= Ace; rank++ {
		for _, suit := range Suits {
			d.cards = append(d.cards, NewCard(suit, rank))
		}
	}
	return d
}
