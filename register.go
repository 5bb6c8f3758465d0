package vl53l1x

import "github.com/pkg/errors"

// Register map, offsets from the ST VL53L1X API register definitions.
const (
	regSoftReset                       uint16 = 0x0000
	regI2CSlaveDeviceAddress           uint16 = 0x0001
	regOscMeasuredFastOscFrequency     uint16 = 0x0006
	regVHVConfigTimeoutMacropLoopBound uint16 = 0x0008
	regVHVConfigInit                   uint16 = 0x000B
	regAlgoPartToPartRangeOffsetMM     uint16 = 0x001E
	regMMConfigOuterOffsetMM           uint16 = 0x0022
	regDSSConfigTargetTotalRateMCPS    uint16 = 0x0024
	regPadI2CHVExtsupConfig            uint16 = 0x002E
	regGPIOTioHVStatus                 uint16 = 0x0031
	regSigmaEstEffectivePulseWidthNS   uint16 = 0x0036
	regSigmaEstEffectiveAmbientWidthNS uint16 = 0x0037
	regAlgoCrosstalkCompValidHeightMM  uint16 = 0x0039
	regAlgoRangeIgnoreValidHeightMM    uint16 = 0x003E
	regAlgoRangeMinClip                uint16 = 0x003F
	regAlgoConsistencyCheckTolerance   uint16 = 0x0040
	regCalConfigVCSELStart             uint16 = 0x0047
	regPhasecalConfigTimeoutMacrop     uint16 = 0x004B
	regPhasecalConfigOverride          uint16 = 0x004D
	regDSSConfigROIModeControl         uint16 = 0x004F
	regSystemThreshRateHigh            uint16 = 0x0050
	regSystemThreshRateLow             uint16 = 0x0052
	regDSSConfigManualEffectiveSpads   uint16 = 0x0054
	regDSSConfigApertureAttenuation    uint16 = 0x0057
	regMMConfigTimeoutMacropA          uint16 = 0x005A
	regMMConfigTimeoutMacropB          uint16 = 0x005C
	regRangeConfigTimeoutMacropA       uint16 = 0x005E
	regRangeConfigVCSELPeriodA         uint16 = 0x0060
	regRangeConfigTimeoutMacropB       uint16 = 0x0061
	regRangeConfigVCSELPeriodB         uint16 = 0x0063
	regRangeConfigSigmaThresh          uint16 = 0x0064
	regRangeConfigMinCountRateRtnLimit uint16 = 0x0066
	regRangeConfigValidPhaseHigh       uint16 = 0x0069
	regSystemGroupedParameterHold0     uint16 = 0x0071
	regSystemSeedConfig                uint16 = 0x0077
	regSDConfigWOISD0                  uint16 = 0x0078
	regSDConfigWOISD1                  uint16 = 0x0079
	regSDConfigInitialPhaseSD0         uint16 = 0x007A
	regSDConfigInitialPhaseSD1         uint16 = 0x007B
	regSystemGroupedParameterHold1     uint16 = 0x007C
	regSDConfigQuantifier              uint16 = 0x007E
	regROIConfigUserROICentreSpad      uint16 = 0x007F
	regROIConfigUserROIRequestedXYSize uint16 = 0x0080
	regSystemSequenceConfig            uint16 = 0x0081
	regSystemGroupedParameterHold      uint16 = 0x0082
	regSystemInterruptClear            uint16 = 0x0086
	regSystemModeStart                 uint16 = 0x0087
	regResultRangeStatus               uint16 = 0x0089
	regPhasecalResultVCSELStart        uint16 = 0x00D8
	regResultOscCalibrateVal           uint16 = 0x00DE
	regFirmwareSystemStatus            uint16 = 0x00E5
	regIdentificationModelID           uint16 = 0x010F
)

// regAddr returns the big-endian address prefix of every register transfer.
func regAddr(reg uint16) []byte {
	return []byte{byte(reg >> 8), byte(reg)}
}

// write sends reg followed by data in a single transfer
func (v *VL53L1X) write(reg uint16, data ...byte) error {

	buf := append(regAddr(reg), data...)

	if err := v.bus.Tx(v.addr, buf, nil); err != nil {
		return errors.Wrapf(err, "write register 0x%04X", reg)
	}

	return nil
}

// writeReg writes an 8 bit value to the register
func (v *VL53L1X) writeReg(reg uint16, value uint8) error {
	return v.write(reg, value)
}

// writeReg16Bit writes a 16 bit big-endian value to the register
func (v *VL53L1X) writeReg16Bit(reg uint16, value uint16) error {
	return v.write(reg, byte(value>>8), byte(value))
}

// writeReg32Bit writes a 32 bit big-endian value to the register
func (v *VL53L1X) writeReg32Bit(reg uint16, value uint32) error {
	return v.write(reg, byte(value>>24), byte(value>>16), byte(value>>8), byte(value))
}

// readBlock fills buf starting at reg, relying on the sensor's address
// auto-increment for multi-byte reads
func (v *VL53L1X) readBlock(reg uint16, buf []byte) error {

	if err := v.bus.Tx(v.addr, regAddr(reg), buf); err != nil {
		return errors.Wrapf(err, "read %d bytes from register 0x%04X", len(buf), reg)
	}

	return nil
}

// readReg reads an 8 bit value from the register
func (v *VL53L1X) readReg(reg uint16) (uint8, error) {

	var buf [1]byte

	if err := v.readBlock(reg, buf[:]); err != nil {
		return 0, err
	}

	return buf[0], nil
}

// readReg16Bit reads a 16 bit big-endian value from the register
func (v *VL53L1X) readReg16Bit(reg uint16) (uint16, error) {

	var buf [2]byte

	if err := v.readBlock(reg, buf[:]); err != nil {
		return 0, err
	}

	return uint16(buf[0])<<8 | uint16(buf[1]), nil
}

// readReg32Bit reads a 32 bit big-endian value from the register
func (v *VL53L1X) readReg32Bit(reg uint16) (uint32, error) {

	var buf [4]byte

	if err := v.readBlock(reg, buf[:]); err != nil {
		return 0, err
	}

	return uint32(buf[0])<<24 | uint32(buf[1])<<16 | uint32(buf[2])<<8 | uint32(buf[3]), nil
}
