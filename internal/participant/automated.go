package participant

// Automated thresholds.
const (
	automatedStandAt  = 20
	automatedDoubleOn = 11
)

// Automated is a computer-controlled player with a fixed heuristic: draw
// until 20, double on exactly 11, bet at random within the table limits.
type Automated struct {
	seat
}

// NewAutomated creates an automated player.
func NewAutomated(name string, chips int, opts ...Option) *Automated {
	return &Automated{seat: newSeat(name, chips, opts)}
}

func (a *Automated) Kind() Kind { return KindAutomated }

// ContinueChoice draws while the hand is below 20.
func (a *Automated) ContinueChoice() bool {
	more := a.value < automatedStandAt
	a.logger.Debug("Continue decision", "value", a.value, "hit", more)
	return more
}

// DoubleDown doubles only on a hard or soft 11.
func (a *Automated) DoubleDown() bool {
	return a.value == automatedDoubleOn
}
