package vl53l1x

import (
	"time"

	"github.com/pkg/errors"
)

const (
	softResetAssertDelay = 100 * time.Microsecond
	// the sensor NACKs until it has had time to boot
	softResetBootDelay = time.Millisecond
)

// staticConfig is written once by Init, from VL53L1_preset_mode_standard_ranging(),
// the timed ranging presets and VL53L1_config_low_power_auto_mode(). Most
// decimal values are tuning parm defaults from vl53l1_tuning_parm_defaults.h.
var staticConfig = []struct {
	reg   uint16
	value uint16
	is16  bool
}{
	// static config
	{regDSSConfigTargetTotalRateMCPS, TargetRate, true},
	{regGPIOTioHVStatus, 0x02, false},
	{regSigmaEstEffectivePulseWidthNS, 8, false},
	{regSigmaEstEffectiveAmbientWidthNS, 16, false},
	{regAlgoCrosstalkCompValidHeightMM, 0x01, false},
	{regAlgoRangeIgnoreValidHeightMM, 0xFF, false},
	{regAlgoRangeMinClip, 0, false},
	{regAlgoConsistencyCheckTolerance, 2, false},

	// general config
	{regSystemThreshRateHigh, 0x0000, true},
	{regSystemThreshRateLow, 0x0000, true},
	{regDSSConfigApertureAttenuation, 0x38, false},

	// timing config, the rest comes from distance mode and timing budget
	{regRangeConfigSigmaThresh, 360, true},
	{regRangeConfigMinCountRateRtnLimit, 192, true},

	// dynamic config
	{regSystemGroupedParameterHold0, 0x01, false},
	{regSystemGroupedParameterHold1, 0x01, false},
	{regSDConfigQuantifier, 2, false},

	// writing GPH0 and GPH1 sets GPH, ranging needs it back at 0
	{regSystemGroupedParameterHold, 0x00, false},
	{regSystemSeedConfig, 1, false},

	// low power auto: VHV, PHASECAL, DSS1, RANGE
	{regSystemSequenceConfig, 0x8B, false},
	{regDSSConfigManualEffectiveSpads, 200 << 8, true},
	{regDSSConfigROIModeControl, 2, false},
}

// Init checks the sensor identity, resets and boots it and writes the ranging
// configuration, based on VL53L1_DataInit() and VL53L1_StaticInit(). The
// distance mode and timing budget come from WithDistanceMode and
// WithTimingBudget, Long and 50ms by default.
//
// A model id mismatch returns ErrUnexpectedModel before anything is written.
// A boot timeout sets the timeout latch and returns ErrBootTimeout.
func (v *VL53L1X) Init() error {

	if err := v.dataInit(); err != nil {
		return err
	}

	if err := v.staticInit(); err != nil {
		return errors.Wrap(err, "static init")
	}

	return nil
}

// dataInit checks the model, resets the sensor and captures oscillator info
func (v *VL53L1X) dataInit() error {

	model, err := v.readReg16Bit(regIdentificationModelID)

	if err != nil {
		return err
	}

	if model != ModelID {
		return errors.Wrapf(ErrUnexpectedModel, "0x%04X", model)
	}

	v.state.reset()

	if err := v.softReset(); err != nil {
		return err
	}

	booted, err := v.pollUntil(v.bootComplete)

	if err != nil {
		return err
	}

	if !booted {
		return ErrBootTimeout
	}

	// sensor uses 1V8 mode for I/O by default; switch to 2V8 mode
	extsup, err := v.readReg(regPadI2CHVExtsupConfig)

	if err != nil {
		return err
	}

	if err := v.writeReg(regPadI2CHVExtsupConfig, extsup|0x01); err != nil {
		return err
	}

	fosc, err := v.readReg16Bit(regOscMeasuredFastOscFrequency)

	if err != nil {
		return err
	}

	oscCal, err := v.readReg16Bit(regResultOscCalibrateVal)

	if err != nil {
		return err
	}

	if fosc == 0 {
		return errors.Wrap(ErrNotInitialized, "fast oscillator frequency reads 0")
	}

	v.state.fastOscFrequency = fosc
	v.state.oscCalibrateVal = oscCal

	v.log.Debugw("data init done", "fastOscFrequency", fosc, "oscCalibrateVal", oscCal)

	return nil
}

// softReset pulses the soft reset register and waits for the sensor to come
// back, as VL53L1_software_reset()
func (v *VL53L1X) softReset() error {

	if err := v.writeReg(regSoftReset, 0x00); err != nil {
		return err
	}

	v.clock.Sleep(softResetAssertDelay)

	if err := v.writeReg(regSoftReset, 0x01); err != nil {
		return err
	}

	v.clock.Sleep(softResetBootDelay)

	return nil
}

// bootComplete reports the firmware system status boot bit
func (v *VL53L1X) bootComplete() (bool, error) {

	status, err := v.readReg(regFirmwareSystemStatus)

	if err != nil {
		return false, err
	}

	return status&0x01 != 0, nil
}

// staticInit writes the configuration. The API keeps these in memory until a
// measurement starts; writing them here avoids the redundant writes later.
func (v *VL53L1X) staticInit() error {

	for _, c := range staticConfig {

		var err error

		if c.is16 {
			err = v.writeReg16Bit(c.reg, c.value)
		} else {
			err = v.writeReg(c.reg, uint8(c.value))
		}

		if err != nil {
			return err
		}
	}

	// the budget read back before a mode switch is not meaningful right
	// after reset, so the table goes in first and the budget follows
	if err := v.applyDistanceMode(v.initMode); err != nil {
		return err
	}

	if err := v.SetMeasurementTimingBudget(v.initBudget); err != nil {
		return err
	}

	// the API does this in VL53L1_init_and_start_range(), assuming MM1 and
	// MM2 are disabled
	outerOffset, err := v.readReg16Bit(regMMConfigOuterOffsetMM)

	if err != nil {
		return err
	}

	return v.writeReg16Bit(regAlgoPartToPartRangeOffsetMM, outerOffset*4)
}
