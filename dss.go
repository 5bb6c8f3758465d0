package vl53l1x

// dssFallbackSpads is the mid-point manual SPAD target used when the previous
// measurement cannot produce a rate per SPAD
const dssFallbackSpads uint16 = 0x8000

// RequiredSpads computes the next manual effective SPAD count from the
// previous measurement, based on VL53L1_low_power_auto_update_DSS(). All
// arithmetic is truncating 32 bit fixed point.
func RequiredSpads(effectiveSpads, peakSignalRate, ambientRate uint16) uint16 {

	if effectiveSpads == 0 {
		return dssFallbackSpads
	}

	totalRatePerSpad := uint32(peakSignalRate) + uint32(ambientRate)

	if totalRatePerSpad > 0xFFFF {
		totalRatePerSpad = 0xFFFF
	}

	// shift up to take advantage of 32 bits
	totalRatePerSpad <<= 16
	totalRatePerSpad /= uint32(effectiveSpads)

	if totalRatePerSpad == 0 {
		return dssFallbackSpads
	}

	requiredSpads := (uint32(TargetRate) << 16) / totalRatePerSpad

	if requiredSpads > 0xFFFF {
		requiredSpads = 0xFFFF
	}

	return uint16(requiredSpads)
}

// updateDSS overrides the DSS config with the SPAD count required by the last
// results
func (v *VL53L1X) updateDSS(r rawResults) error {

	spads := RequiredSpads(r.effectiveSpads, r.peakSignalRate, r.ambientRate)

	v.log.Debugw("dss update", "effectiveSpads", r.effectiveSpads, "requiredSpads", spads)

	return v.writeReg16Bit(regDSSConfigManualEffectiveSpads, spads)
}
