package vl53l1x

import "time"

// SetTimeout sets the timeout for boot and data ready polling, zero disables
// it
func (v *VL53L1X) SetTimeout(timeout time.Duration) {
	v.ioTimeout = timeout
}

// Timeout returns the polling timeout
func (v *VL53L1X) Timeout() time.Duration {
	return v.ioTimeout
}

// TimeoutOccurred reports whether a poll timed out since the last call, and
// clears the report
func (v *VL53L1X) TimeoutOccurred() bool {
	return v.state.timeout.take()
}

// pollUntil busy-waits until cond reports true or the I/O timeout expires.
// It returns false on timeout after setting the timeout latch.
func (v *VL53L1X) pollUntil(cond func() (bool, error)) (bool, error) {

	start := v.clock.Now()

	for {
		done, err := cond()

		if err != nil {
			return false, err
		}

		if done {
			return true, nil
		}

		if v.ioTimeout > 0 && v.clock.Since(start) > v.ioTimeout {
			v.state.timeout.set()
			return false, nil
		}
	}
}
