package vl53l1x

const (
	spadArraySize = 16
	minROISize    = 4
	// ROIs wider or taller than this are forced to the array centre
	maxOffCentreROISize = 10
	// CentreSpad is the SPAD at the optical centre, the default ROI centre
	CentreSpad uint8 = 199
)

// SetROISize sets the region of interest as width x height SPADs of the 16x16
// array. Sides above 16 are clamped and sides below 4 are rejected. Like the
// ULD API, a side above 10 moves the centre back to CentreSpad.
func (v *VL53L1X) SetROISize(width, height uint8) error {

	width = min(width, spadArraySize)
	height = min(height, spadArraySize)

	if width < minROISize || height < minROISize {
		return ErrROITooSmall
	}

	if width > maxOffCentreROISize || height > maxOffCentreROISize {
		if err := v.writeReg(regROIConfigUserROICentreSpad, CentreSpad); err != nil {
			return err
		}
	}

	size := ((height - 1) << 4) | (width - 1)

	v.log.Debugw("roi size set", "width", width, "height", height)

	return v.writeReg(regROIConfigUserROIRequestedXYSize, size)
}

// ROISize returns the current ROI width and height
func (v *VL53L1X) ROISize() (width, height uint8, err error) {

	size, err := v.readReg(regROIConfigUserROIRequestedXYSize)

	if err != nil {
		return 0, 0, err
	}

	return (size & 0x0F) + 1, (size >> 4) + 1, nil
}

// SetROICenter sets the SPAD number at the centre of the region of interest,
// based on VL53L1X_SetROICenter() from the ULD. SPAD numbering is laid out in
// ST user manual UM2555; the lens inverts the image, so moving the field of
// view up and left means picking a centre down and right.
func (v *VL53L1X) SetROICenter(spadNumber uint8) error {
	return v.writeReg(regROIConfigUserROICentreSpad, spadNumber)
}

// ROICenter returns the current centre SPAD
func (v *VL53L1X) ROICenter() (uint8, error) {
	return v.readReg(regROIConfigUserROICentreSpad)
}
