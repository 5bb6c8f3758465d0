package vl53l1x

// vhvLoopBound is LOWPOWERAUTO_VHV_LOOP_BOUND_DEFAULT
const vhvLoopBound uint8 = 3

// setupManualCalibration turns off the firmware VHV and phasecal steps after
// the first range and programs the values that range produced, based on
// VL53L1_low_power_auto_setup_manual_calibration()
func (v *VL53L1X) setupManualCalibration() error {

	initVal, err := v.readReg(regVHVConfigInit)

	if err != nil {
		return err
	}

	timeoutVal, err := v.readReg(regVHVConfigTimeoutMacropLoopBound)

	if err != nil {
		return err
	}

	v.state.savedVHVInit = initVal
	v.state.savedVHVTimeout = timeoutVal

	// disable VHV init
	if err := v.writeReg(regVHVConfigInit, initVal&0x7F); err != nil {
		return err
	}

	// loop bound lives above the low 2 bits
	loopBound := (timeoutVal & 0x03) + (vhvLoopBound << 2)

	if err := v.writeReg(regVHVConfigTimeoutMacropLoopBound, loopBound); err != nil {
		return err
	}

	if err := v.writeReg(regPhasecalConfigOverride, 0x01); err != nil {
		return err
	}

	vcselStart, err := v.readReg(regPhasecalResultVCSELStart)

	if err != nil {
		return err
	}

	if err := v.writeReg(regCalConfigVCSELStart, vcselStart); err != nil {
		return err
	}

	v.state.calibrated = true
	v.log.Debugw("manual calibration applied",
		"savedVHVInit", initVal, "savedVHVTimeout", timeoutVal, "vcselStart", vcselStart)

	return nil
}
