package vl53l1x

import "github.com/pkg/errors"

const (
	// resultBlockLen is the size of the result block starting at
	// RESULT__RANGE_STATUS
	resultBlockLen = 17

	modeStartSingleShot uint8 = 0x10
	interruptClearRange uint8 = 0x01
)

// rawResults is one snapshot of the result block. Rates are 9.7 fixed point
// Mcps; peakSignalRate and rawRange are crosstalk corrected and rawRange is
// before gain correction.
type rawResults struct {
	rangeStatus    uint8
	streamCount    uint8
	effectiveSpads uint16
	ambientRate    uint16
	peakSignalRate uint16
	rawRange       uint16
}

// decodeResults unpacks the result block. Report status, the uncorrected peak
// rate, sigma and phase are skipped.
func decodeResults(buf []byte) rawResults {

	be16 := func(i int) uint16 {
		return uint16(buf[i])<<8 | uint16(buf[i+1])
	}

	return rawResults{
		rangeStatus:    buf[0],
		streamCount:    buf[2],
		effectiveSpads: be16(3),
		ambientRate:    be16(7),
		rawRange:       be16(13),
		peakSignalRate: be16(15),
	}
}

// RangingData holds a single range measurement and related rate information.
type RangingData struct {
	RangeMM                 int
	RangeStatus             RangeStatus
	PeakSignalCountRateMCPS float32
	AmbientCountRateMCPS    float32
}

// rangingData derives the user facing measurement, based on
// VL53L1_GetRangingMeasurementData()
func (r rawResults) rangingData() RangingData {
	return RangingData{
		RangeMM:                 gainCorrectedRange(r.rawRange),
		RangeStatus:             ClassifyRangeStatus(r.rangeStatus, r.streamCount),
		PeakSignalCountRateMCPS: countRateFixedToFloat(r.peakSignalRate),
		AmbientCountRateMCPS:    countRateFixedToFloat(r.ambientRate),
	}
}

// gainCorrectedRange applies the range gain: (r * 2011 + 0x0400) / 0x0800
func gainCorrectedRange(raw uint16) int {
	return int((uint32(raw)*2011 + 0x0400) / 0x0800)
}

// countRateFixedToFloat converts count rate from fixed point 9.7 format to float
func countRateFixedToFloat(countRateFixed uint16) float32 {
	return float32(countRateFixed) / float32(1<<7)
}

// ReadSingle triggers a single-shot measurement and waits for it.
//
// If the measurement does not complete within the I/O timeout the result has
// range 0 and UnknownStatus, the error is nil and TimeoutOccurred reports
// true. Errors are only returned for bus failures.
func (v *VL53L1X) ReadSingle() (RangingData, error) {

	if err := v.writeReg(regSystemInterruptClear, interruptClearRange); err != nil {
		return RangingData{}, err
	}

	if err := v.writeReg(regSystemModeStart, modeStartSingleShot); err != nil {
		return RangingData{}, err
	}

	v.state.phase = phaseTriggered

	return v.read()
}

// ReadRangeSingleMillimeters performs a single-shot measurement and returns
// only the range in millimeters
func (v *VL53L1X) ReadRangeSingleMillimeters() (int, error) {
	rData, err := v.ReadSingle()
	return rData.RangeMM, err
}

// read waits for data ready, then collects and post-processes the result.
// Any error leaves the session idle.
func (v *VL53L1X) read() (rData RangingData, err error) {

	v.state.phase = phasePolling

	defer func() {
		if err != nil {
			v.log.Debugw("measurement failed", "phase", v.state.phase, "error", err)
			v.state.phase = phaseIdle
		}
	}()

	ready, err := v.pollUntil(v.dataReady)

	if err != nil {
		return RangingData{}, err
	}

	if !ready {
		v.state.phase = phaseTimedOut
		v.log.Debugw("timeout waiting for data", "timeout", v.ioTimeout, "phase", v.state.phase)
		return RangingData{RangeStatus: UnknownStatus}, nil
	}

	v.state.phase = phaseReady

	results, err := v.readResults()

	if err != nil {
		return RangingData{}, err
	}

	if !v.state.calibrated {
		if err := v.setupManualCalibration(); err != nil {
			return RangingData{}, errors.Wrap(err, "manual calibration")
		}
	}

	if err := v.updateDSS(results); err != nil {
		return RangingData{}, errors.Wrap(err, "dss update")
	}

	rData = results.rangingData()

	if err := v.writeReg(regSystemInterruptClear, interruptClearRange); err != nil {
		return RangingData{}, err
	}

	v.state.phase = phaseIdle

	return rData, nil
}

// dataReady checks if the sensor has a new reading available. It assumes the
// interrupt is active low (GPIO_HV_MUX__CTRL bit 4 is 1).
func (v *VL53L1X) dataReady() (bool, error) {

	status, err := v.readReg(regGPIOTioHVStatus)

	if err != nil {
		return false, err
	}

	return status&0x01 == 0, nil
}

// readResults reads the result block in a single transfer
func (v *VL53L1X) readResults() (rawResults, error) {

	buf := make([]byte, resultBlockLen)

	if err := v.readBlock(regResultRangeStatus, buf); err != nil {
		return rawResults{}, err
	}

	return decodeResults(buf), nil
}
