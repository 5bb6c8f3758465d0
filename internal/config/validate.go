package config

import (
	"time"

	"github.com/pkg/errors"

	"github.com/rangekit/vl53l1x"
	"github.com/rangekit/vl53l1x/i2cbus"
)

// ErrInvalid is wrapped by every Validate failure
var ErrInvalid = errors.New("invalid config")

// Validate checks configuration correctness. It does not mutate cfg.
func Validate(cfg *Config) error {

	switch cfg.Bus.Backend {
	case i2cbus.BackendPeriph, i2cbus.BackendSysfs:
	default:
		return errors.Wrapf(ErrInvalid, "bus.backend %q: want %q or %q",
			cfg.Bus.Backend, i2cbus.BackendPeriph, i2cbus.BackendSysfs)
	}

	if cfg.Bus.Backend == i2cbus.BackendSysfs && cfg.Bus.Device == "" {
		return errors.Wrap(ErrInvalid, "bus.device is required for the sysfs backend")
	}

	// 7-bit addresses outside the reserved ranges
	if cfg.Bus.Address < 0x08 || cfg.Bus.Address > 0x77 {
		return errors.Wrapf(ErrInvalid, "bus.address 0x%02X out of range", cfg.Bus.Address)
	}

	if _, err := vl53l1x.ParseDistanceMode(cfg.Sensor.DistanceMode); err != nil {
		return errors.Wrapf(ErrInvalid, "sensor.distance_mode: %v", err)
	}

	budget := cfg.Sensor.TimingBudgetUs

	if budget <= vl53l1x.TimingGuard || budget-vl53l1x.TimingGuard > vl53l1x.MaxRangeTimeout {
		return errors.Wrapf(ErrInvalid, "sensor.timing_budget_us %d: want %d..%d",
			budget, vl53l1x.TimingGuard+1, vl53l1x.TimingGuard+vl53l1x.MaxRangeTimeout)
	}

	if cfg.Sensor.TimeoutMs < 0 {
		return errors.Wrap(ErrInvalid, "sensor.timeout_ms must not be negative")
	}

	if roi := cfg.Sensor.ROI; roi != nil {
		if roi.Width < 4 || roi.Width > 16 || roi.Height < 4 || roi.Height > 16 {
			return errors.Wrapf(ErrInvalid, "sensor.roi %dx%d: sides must be 4..16", roi.Width, roi.Height)
		}
	}

	if cfg.Sampling.Count < 0 {
		return errors.Wrap(ErrInvalid, "sampling.count must not be negative")
	}

	if cfg.Sampling.IntervalMs < 0 {
		return errors.Wrap(ErrInvalid, "sampling.interval_ms must not be negative")
	}

	return nil
}

// Options converts the bus address and sensor section into driver options.
func (c Config) Options() ([]vl53l1x.Option, error) {

	mode, err := vl53l1x.ParseDistanceMode(c.Sensor.DistanceMode)

	if err != nil {
		return nil, err
	}

	return []vl53l1x.Option{
		vl53l1x.WithAddress(c.Bus.Address),
		vl53l1x.WithDistanceMode(mode),
		vl53l1x.WithTimingBudget(c.Sensor.TimingBudgetUs),
		vl53l1x.WithTimeout(time.Duration(c.Sensor.TimeoutMs) * time.Millisecond),
	}, nil
}

// Interval returns the pause between samples
func (c Config) Interval() time.Duration {
	return time.Duration(c.Sampling.IntervalMs) * time.Millisecond
}
