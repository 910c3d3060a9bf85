package anchor

import "time"

// PresenceState is the debounced view of whether a QR code is in frame.
type PresenceState int

const (
	Absent       PresenceState = iota // no code, or gone for LostThreshold polls
	Appearing                         // seen, not yet for StableThreshold polls
	Present                           // seen for at least StableThreshold polls
	Disappearing                      // missed, not yet for LostThreshold polls
)

func (s PresenceState) String() string {
	switch s {
	case Appearing:
		return "appearing"
	case Present:
		return "present"
	case Disappearing:
		return "disappearing"
	default:
		return "absent"
	}
}

// MarshalText encodes the state by name.
func (s PresenceState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Presence counts consecutive hits and misses. Each observation resets
// the opposite counter.
type Presence struct {
	Visible int
	Lost    int
}

// Hit records a poll that decoded a code.
func (p *Presence) Hit() {
	p.Visible++
	p.Lost = 0
}

// Miss records a poll without a code.
func (p *Presence) Miss() {
	p.Lost++
	p.Visible = 0
}

// Reset clears both counters.
func (p *Presence) Reset() {
	p.Visible, p.Lost = 0, 0
}

// State derives the logical state from the counters.
func (p Presence) State(stable, lost int) PresenceState {
	switch {
	case p.Visible >= stable:
		return Present
	case p.Visible > 0:
		return Appearing
	case p.Lost > 0 && p.Lost < lost:
		return Disappearing
	default:
		return Absent
	}
}

// LongPress detects a pointer held down for at least Threshold.
// It fires once per press.
type LongPress struct {
	Threshold time.Duration

	downAt time.Time
	armed  bool
}

// Down starts a press at t.
func (l *LongPress) Down(t time.Time) {
	l.downAt = t
	l.armed = true
}

// Fired reports whether the press has been held long enough by now.
// It returns true at most once per press.
func (l *LongPress) Fired(now time.Time) bool {
	if !l.armed || now.Sub(l.downAt) < l.Threshold {
		return false
	}
	l.armed = false
	return true
}

// Up ends the press at now. It reports whether the threshold was reached
// without an intervening Fired.
func (l *LongPress) Up(now time.Time) bool {
	fired := l.Fired(now)
	l.armed = false
	return fired
}

// Pressed reports whether a press is in progress and has not fired.
func (l *LongPress) Pressed() bool {
	return l.armed
}
