package vl53l1x

import (
	"strings"

	"github.com/pkg/errors"
)

// DistanceMode represents the selected ranging mode of sensor
type DistanceMode int

const (
	// Short distance mode is limited to 1.3m range in ambient and dark light
	Short DistanceMode = iota
	// Medium distance mode is limited to 2.9m in dark and 76cm in ambient light
	Medium
	// Long distance mode is limited to 3.6m in dark and 73cm in ambient light
	Long
)

func (m DistanceMode) String() string {
	switch m {
	case Short:
		return "short"
	case Medium:
		return "medium"
	case Long:
		return "long"
	default:
		return "unknown"
	}
}

// ParseDistanceMode parses "short", "medium" or "long", ignoring case.
func ParseDistanceMode(s string) (DistanceMode, error) {

	switch strings.ToLower(strings.TrimSpace(s)) {
	case "short":
		return Short, nil
	case "medium":
		return Medium, nil
	case "long":
		return Long, nil
	}

	return 0, errors.Wrapf(ErrUnknownDistanceMode, "%q", s)
}

// regWrite is one 8 bit register assignment
type regWrite struct {
	reg   uint16
	value uint8
}

// distanceModePresets holds the timing config (VCSEL periods, valid phase)
// and dynamic config (windows of interest, initial phases) of each mode, from
// VL53L1_preset_mode_standard_ranging*()
var distanceModePresets = map[DistanceMode][]regWrite{
	Short: {
		{regRangeConfigVCSELPeriodA, 0x07},
		{regRangeConfigVCSELPeriodB, 0x05},
		{regRangeConfigValidPhaseHigh, 0x38},
		{regSDConfigWOISD0, 0x07},
		{regSDConfigWOISD1, 0x05},
		{regSDConfigInitialPhaseSD0, 6},
		{regSDConfigInitialPhaseSD1, 6},
	},
	Medium: {
		{regRangeConfigVCSELPeriodA, 0x0B},
		{regRangeConfigVCSELPeriodB, 0x09},
		{regRangeConfigValidPhaseHigh, 0x78},
		{regSDConfigWOISD0, 0x0B},
		{regSDConfigWOISD1, 0x09},
		{regSDConfigInitialPhaseSD0, 10},
		{regSDConfigInitialPhaseSD1, 10},
	},
	Long: {
		{regRangeConfigVCSELPeriodA, 0x0F},
		{regRangeConfigVCSELPeriodB, 0x0D},
		{regRangeConfigValidPhaseHigh, 0xB8},
		{regSDConfigWOISD0, 0x0F},
		{regSDConfigWOISD1, 0x0D},
		{regSDConfigInitialPhaseSD0, 14},
		{regSDConfigInitialPhaseSD1, 14},
	},
}

// DistanceMode returns the sensors current DistanceMode setting
func (v *VL53L1X) DistanceMode() DistanceMode {
	return v.state.distanceMode
}

// SetDistanceMode configures the sensor for Short, Medium or Long range and
// reapplies the timing budget that was active before the switch.
func (v *VL53L1X) SetDistanceMode(mode DistanceMode) error {

	if _, ok := distanceModePresets[mode]; !ok {
		return errors.Wrapf(ErrUnknownDistanceMode, "%d", int(mode))
	}

	budgetUs, err := v.MeasurementTimingBudget()

	if err != nil {
		return err
	}

	// the read-back rounds to nearest, so a budget set at either bound can
	// come back just outside it
	budgetUs = min(max(budgetUs, TimingGuard+1), TimingGuard+MaxRangeTimeout)

	if err := v.applyDistanceMode(mode); err != nil {
		return err
	}

	if err := v.SetMeasurementTimingBudget(budgetUs); err != nil {
		return errors.Wrap(err, "reapply timing budget")
	}

	return nil
}

// applyDistanceMode writes the preset table of mode without touching the
// timing budget
func (v *VL53L1X) applyDistanceMode(mode DistanceMode) error {

	preset, ok := distanceModePresets[mode]

	if !ok {
		return errors.Wrapf(ErrUnknownDistanceMode, "%d", int(mode))
	}

	for _, w := range preset {
		if err := v.writeReg(w.reg, w.value); err != nil {
			return err
		}
	}

	v.state.distanceMode = mode
	v.log.Debugw("distance mode set", "mode", mode)

	return nil
}
