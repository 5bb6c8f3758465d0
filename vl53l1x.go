// Package vl53l1x is a driver for the ST VL53L1X time-of-flight ranging
// sensor.
//
// The driver runs single-shot measurements over any Bus: it converts a
// distance mode and timing budget into the sensor's timeout registers, polls
// for completion with a bounded timeout, runs the manual VHV/phasecal
// calibration once after the first measurement and updates the dynamic SPAD
// selection after every measurement.
//
// All calls block and a VL53L1X must not be used from more than one goroutine
// at a time.
package vl53l1x

import (
	"time"

	"github.com/benbjohnson/clock"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const (
	// Address is the default address of the sensor on I2C bus
	Address uint8 = 0x29
	// ModelID is the expected value of the identification model id register
	ModelID uint16 = 0xEACC
	// TimingGuard is subtracted from the timing budget before the remainder
	// is split between the two range timeouts, in microseconds
	TimingGuard uint32 = 4528
	// MaxRangeTimeout is the largest timing budget after guard subtraction,
	// in microseconds
	MaxRangeTimeout uint32 = 1100000
	// TargetRate is the DSS target total rate per measurement (9.7 Mcps)
	TargetRate uint16 = 0x0A00
	// DefaultTimingBudget is applied by Init unless WithTimingBudget is given,
	// in microseconds
	DefaultTimingBudget uint32 = 50000
	// DefaultTimeout bounds boot and data ready polling
	DefaultTimeout = 500 * time.Millisecond
)

var (
	// ErrUnexpectedModel is returned by Init when the identification
	// register does not read back ModelID
	ErrUnexpectedModel = errors.New("unexpected model id")
	// ErrBootTimeout is returned by Init when firmware boot did not complete
	// within the I/O timeout
	ErrBootTimeout = errors.New("timeout waiting for boot completion")
	// ErrNotInitialized is returned by timing calculations that need the
	// oscillator frequency captured by Init
	ErrNotInitialized = errors.New("sensor not initialized")
	// ErrBudgetTooLow is returned for timing budgets not above TimingGuard
	ErrBudgetTooLow = errors.New("timing budget too low")
	// ErrBudgetTooHigh is returned for timing budgets above
	// TimingGuard + MaxRangeTimeout
	ErrBudgetTooHigh = errors.New("timing budget too high")
	// ErrUnknownDistanceMode is returned for distance modes outside
	// Short, Medium and Long
	ErrUnknownDistanceMode = errors.New("unrecognized distance mode")
	// ErrROITooSmall is returned when a region of interest is below 4x4
	ErrROITooSmall = errors.New("ROI size must be at least 4x4")
)

// VL53L1X represents a single VL53L1X sensor session.
type VL53L1X struct {
	bus  Bus
	addr uint16

	clock     clock.Clock
	ioTimeout time.Duration

	// configuration applied by Init
	initMode   DistanceMode
	initBudget uint32

	state session

	log *zap.SugaredLogger
}

// Option configures a VL53L1X before Init runs.
type Option func(*VL53L1X)

// WithAddress sets the 7-bit bus address used to reach the sensor.
func WithAddress(addr uint8) Option {
	return func(v *VL53L1X) {
		v.addr = uint16(addr & 0x7F)
	}
}

// WithLogger sets the logger used for debugging. The default discards
// everything.
func WithLogger(log *zap.SugaredLogger) Option {
	return func(v *VL53L1X) {
		v.log = log
	}
}

// WithClock sets the monotonic time source used for polling timeouts and
// settle delays.
func WithClock(c clock.Clock) Option {
	return func(v *VL53L1X) {
		v.clock = c
	}
}

// WithTimeout sets the I/O timeout for boot and data ready polling; zero
// disables it.
func WithTimeout(timeout time.Duration) Option {
	return func(v *VL53L1X) {
		v.ioTimeout = timeout
	}
}

// WithDistanceMode sets the distance mode applied by Init.
func WithDistanceMode(mode DistanceMode) Option {
	return func(v *VL53L1X) {
		v.initMode = mode
	}
}

// WithTimingBudget sets the timing budget in microseconds applied by Init.
func WithTimingBudget(budgetUs uint32) Option {
	return func(v *VL53L1X) {
		v.initBudget = budgetUs
	}
}

// New returns a VL53L1X on bus and runs Init. On error the returned sensor is
// still usable for another Init attempt.
func New(bus Bus, opts ...Option) (*VL53L1X, error) {

	v := newSensor(bus, opts...)

	v.log.Debugw("starting setup", "addr", v.addr, "mode", v.initMode, "budgetUs", v.initBudget)

	if err := v.Init(); err != nil {
		return v, errors.Wrap(err, "failed to init device")
	}

	v.log.Debug("device initialized")

	return v, nil
}

// newSensor builds a sensor without touching the bus
func newSensor(bus Bus, opts ...Option) *VL53L1X {

	v := &VL53L1X{
		bus:        bus,
		addr:       uint16(Address),
		clock:      clock.New(),
		ioTimeout:  DefaultTimeout,
		initMode:   Long,
		initBudget: DefaultTimingBudget,
		log:        zap.NewNop().Sugar(),
	}

	for _, opt := range opts {
		opt(v)
	}

	return v
}

// Addr returns the bus address the sensor is currently reached at
func (v *VL53L1X) Addr() uint8 {
	return uint8(v.addr)
}

// SetAddress changes the sensor's bus address. Later transfers use the new
// address.
func (v *VL53L1X) SetAddress(newAddr uint8) error {

	newAddr &= 0x7F

	if err := v.writeReg(regI2CSlaveDeviceAddress, newAddr); err != nil {
		return err
	}

	v.log.Debugw("address changed", "from", v.addr, "to", newAddr)
	v.addr = uint16(newAddr)

	return nil
}

// Calibrated reports whether the one-time manual calibration has run since
// the last Init
func (v *VL53L1X) Calibrated() bool {
	return v.state.calibrated
}
