package vl53l1x

// phase tracks where a single-shot measurement is
type phase uint8

const (
	phaseIdle phase = iota
	phaseTriggered
	phasePolling
	phaseReady
	phaseTimedOut
)

func (p phase) String() string {
	switch p {
	case phaseIdle:
		return "idle"
	case phaseTriggered:
		return "triggered"
	case phasePolling:
		return "polling"
	case phaseReady:
		return "ready"
	case phaseTimedOut:
		return "timed out"
	default:
		return "unknown"
	}
}

// timeoutLatch is set by the poll loops and cleared only by take
type timeoutLatch struct {
	fired bool
}

func (l *timeoutLatch) set() {
	l.fired = true
}

// take returns whether the latch fired since the last take and resets it
func (l *timeoutLatch) take() bool {
	fired := l.fired
	l.fired = false
	return fired
}

// session holds the per-sensor state owned by one VL53L1X instance.
type session struct {
	// captured once by Init, read only afterwards
	fastOscFrequency uint16
	oscCalibrateVal  uint16

	// set after the first completed measurement, cleared only by Init
	calibrated      bool
	savedVHVInit    uint8
	savedVHVTimeout uint8

	distanceMode DistanceMode
	phase        phase
	timeout      timeoutLatch
}

// reset clears everything Init recaptures. The timeout latch survives so a
// boot timeout from a previous attempt is still reported.
func (s *session) reset() {
	s.fastOscFrequency = 0
	s.oscCalibrateVal = 0
	s.calibrated = false
	s.savedVHVInit = 0
	s.savedVHVTimeout = 0
	s.phase = phaseIdle
}

// initialized reports whether the oscillator frequency has been captured,
// which every macro period calculation depends on
func (s *session) initialized() bool {
	return s.fastOscFrequency != 0
}
