package vl53l1x

import "github.com/pkg/errors"

const (
	// phasecalTimeoutUs is TIMED_PHASECAL_CONFIG_TIMEOUT_US_DEFAULT
	phasecalTimeoutUs uint32 = 1000
	// mmTimeoutUs is LOWPOWERAUTO_MM_CONFIG_TIMEOUT_US_DEFAULT
	mmTimeoutUs uint32 = 1
)

// validateTimingBudget returns the per-range timeout for a timing budget
func validateTimingBudget(budgetUs uint32) (uint32, error) {

	if budgetUs <= TimingGuard {
		return 0, errors.Wrapf(ErrBudgetTooLow, "%dus", budgetUs)
	}

	rangeTimeoutUs := budgetUs - TimingGuard

	if rangeTimeoutUs > MaxRangeTimeout {
		return 0, errors.Wrapf(ErrBudgetTooHigh, "%dus", budgetUs)
	}

	return rangeTimeoutUs / 2, nil
}

// macroPeriodFor reads a VCSEL period register and returns its macro period
func (v *VL53L1X) macroPeriodFor(vcselReg uint16) (uint32, error) {

	if !v.state.initialized() {
		return 0, ErrNotInitialized
	}

	vcsel, err := v.readReg(vcselReg)

	if err != nil {
		return 0, err
	}

	return MacroPeriod(v.state.fastOscFrequency, vcsel), nil
}

// SetMeasurementTimingBudget sets the time allowed for one measurement in
// microseconds, based on VL53L1_calc_timeout_register_values() for the low
// power auto preset. Out of range budgets are rejected before any register is
// written.
func (v *VL53L1X) SetMeasurementTimingBudget(budgetUs uint32) error {

	rangeTimeoutUs, err := validateTimingBudget(budgetUs)

	if err != nil {
		return err
	}

	macroPeriodUs, err := v.macroPeriodFor(regRangeConfigVCSELPeriodA)

	if err != nil {
		return err
	}

	// phase timeout uses timing A
	phasecalTimeoutMclks := timeoutMicrosecondsToMclks(phasecalTimeoutUs, macroPeriodUs)

	if phasecalTimeoutMclks > 0xFF {
		phasecalTimeoutMclks = 0xFF
	}

	if err := v.writeReg(regPhasecalConfigTimeoutMacrop, uint8(phasecalTimeoutMclks)); err != nil {
		return err
	}

	if err := v.writeRangeTimeouts(macroPeriodUs, rangeTimeoutUs,
		regMMConfigTimeoutMacropA, regRangeConfigTimeoutMacropA); err != nil {
		return err
	}

	macroPeriodUs, err = v.macroPeriodFor(regRangeConfigVCSELPeriodB)

	if err != nil {
		return err
	}

	if err := v.writeRangeTimeouts(macroPeriodUs, rangeTimeoutUs,
		regMMConfigTimeoutMacropB, regRangeConfigTimeoutMacropB); err != nil {
		return err
	}

	v.log.Debugw("timing budget set", "budgetUs", budgetUs, "rangeTimeoutUs", rangeTimeoutUs)

	return nil
}

// writeRangeTimeouts writes the encoded MM and range timeouts of one VCSEL
// period
func (v *VL53L1X) writeRangeTimeouts(macroPeriodUs, rangeTimeoutUs uint32, mmReg, rangeReg uint16) error {

	mmTimeout := timeoutMicrosecondsToMclks(mmTimeoutUs, macroPeriodUs)

	if err := v.writeReg16Bit(mmReg, EncodeTimeout(mmTimeout)); err != nil {
		return err
	}

	rangeTimeout := timeoutMicrosecondsToMclks(rangeTimeoutUs, macroPeriodUs)

	return v.writeReg16Bit(rangeReg, EncodeTimeout(rangeTimeout))
}

// MeasurementTimingBudget returns the current timing budget in microseconds
// read back from the range A timeout, based on VL53L1_get_timeouts_us()
func (v *VL53L1X) MeasurementTimingBudget() (uint32, error) {

	macroPeriodUs, err := v.macroPeriodFor(regRangeConfigVCSELPeriodA)

	if err != nil {
		return 0, err
	}

	encoded, err := v.readReg16Bit(regRangeConfigTimeoutMacropA)

	if err != nil {
		return 0, err
	}

	rangeTimeoutUs := timeoutMclksToMicroseconds(DecodeTimeout(encoded), macroPeriodUs)

	return 2*rangeTimeoutUs + TimingGuard, nil
}
