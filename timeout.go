package vl53l1x

// macroPeriodVCSELPeriods is VL53L1_MACRO_PERIOD_VCSEL_PERIODS
const macroPeriodVCSELPeriods uint32 = 2304

// DecodeTimeout decodes a sequence step timeout register value into MCLKs.
// The low byte is the mantissa and the high byte a binary exponent, based on
// VL53L1_decode_timeout(). Exponents of 32 and above shift the whole mantissa
// out and decode to 1.
func DecodeTimeout(regVal uint16) uint32 {

	mantissa := uint32(regVal & 0xFF)
	exponent := regVal >> 8

	return (mantissa << exponent) + 1
}

// EncodeTimeout encodes a timeout in MCLKs into the (exponent << 8 | mantissa)
// register format, based on VL53L1_encode_timeout(). Zero encodes to zero.
//
// The exponent is not clamped. A uint32 input needs at most 24 shifts to fit
// its mantissa into 8 bits so the exponent always fits the high byte.
func EncodeTimeout(timeoutMclks uint32) uint16 {

	if timeoutMclks == 0 {
		return 0
	}

	mantissa := timeoutMclks - 1
	var exponent uint16

	for mantissa&0xFFFFFF00 != 0 {
		mantissa >>= 1
		exponent++
	}

	return exponent<<8 | uint16(mantissa&0xFF)
}

// MacroPeriod returns the macro period in microseconds (12.12 format) for the
// given VCSEL period register value and measured fast oscillator frequency,
// based on VL53L1_calc_macro_period_us(). fastOscFrequency must not be zero.
func MacroPeriod(fastOscFrequency uint16, vcselPeriod uint8) uint32 {

	pllPeriodUs := (uint32(1) << 30) / uint32(fastOscFrequency)
	vcselPeriodPclks := (uint32(vcselPeriod) + 1) << 1

	macroPeriodUs := macroPeriodVCSELPeriods * pllPeriodUs
	macroPeriodUs >>= 6
	macroPeriodUs *= vcselPeriodPclks
	macroPeriodUs >>= 6

	return macroPeriodUs
}

// timeoutMclksToMicroseconds converts MCLKs to microseconds for a 12.12 macro
// period, based on VL53L1_calc_timeout_us()
func timeoutMclksToMicroseconds(timeoutMclks, macroPeriodUs uint32) uint32 {
	return (timeoutMclks*macroPeriodUs + 0x800) >> 12
}

// timeoutMicrosecondsToMclks converts microseconds to MCLKs for a 12.12 macro
// period, rounding to nearest, based on VL53L1_calc_timeout_mclks()
func timeoutMicrosecondsToMclks(timeoutUs, macroPeriodUs uint32) uint32 {
	return ((timeoutUs << 12) + (macroPeriodUs >> 1)) / macroPeriodUs
}
