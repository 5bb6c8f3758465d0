package vl53l1x

// RangeStatus is the simplified range status reported with each measurement.
// Values match VL53L1_RANGESTATUS_*.
type RangeStatus uint8

const (
	RangeValid                RangeStatus = 0
	SigmaFail                 RangeStatus = 1
	SignalFail                RangeStatus = 2
	RangeValidMinRangeClipped RangeStatus = 3
	OutOfBoundsFail           RangeStatus = 4
	HardwareFail              RangeStatus = 5
	RangeValidNoWrapCheckFail RangeStatus = 6
	WrapTargetFail            RangeStatus = 7
	XtalkSignalFail           RangeStatus = 9
	SynchronizationInt        RangeStatus = 10
	MinRangeFail              RangeStatus = 13
	UnknownStatus             RangeStatus = 255
)

// String returns a short lowercase description, as printed by the CLI.
func (s RangeStatus) String() string {
	switch s {
	case RangeValid:
		return "range valid"
	case SigmaFail:
		return "sigma fail"
	case SignalFail:
		return "signal fail"
	case RangeValidMinRangeClipped:
		return "range valid, min range clipped"
	case OutOfBoundsFail:
		return "out of bounds fail"
	case HardwareFail:
		return "hardware fail"
	case RangeValidNoWrapCheckFail:
		return "range valid, no wrap check fail"
	case WrapTargetFail:
		return "wrap target fail"
	case XtalkSignalFail:
		return "xtalk signal fail"
	case SynchronizationInt:
		return "synchronization int"
	case MinRangeFail:
		return "min range fail"
	default:
		return "unknown status"
	}
}

// Device range status codes reported in RESULT__RANGE_STATUS
const (
	deviceVCSELContinuityTestFailure uint8 = 1
	deviceVCSELWatchdogTestFailure   uint8 = 2
	deviceNoVHVValueFound            uint8 = 3
	deviceMSRCNoTarget               uint8 = 4
	deviceRangePhaseCheck            uint8 = 5
	deviceSigmaThresholdCheck        uint8 = 6
	devicePhaseConsistency           uint8 = 7
	deviceMinClip                    uint8 = 8
	deviceRangeComplete              uint8 = 9
	deviceRangeIgnoreThreshold       uint8 = 12
	deviceUserROIClip                uint8 = 13
	deviceMultClipFail               uint8 = 17
	deviceGPHStreamCount0Ready       uint8 = 18
)

// deviceStatusTable maps device codes to range statuses as SetSimpleData()
// does. deviceRangeComplete is resolved separately.
var deviceStatusTable = map[uint8]RangeStatus{
	deviceVCSELContinuityTestFailure: HardwareFail,
	deviceVCSELWatchdogTestFailure:   HardwareFail,
	deviceNoVHVValueFound:            HardwareFail,
	deviceMultClipFail:               HardwareFail,
	deviceUserROIClip:                MinRangeFail,
	deviceGPHStreamCount0Ready:       SynchronizationInt,
	deviceRangePhaseCheck:            OutOfBoundsFail,
	deviceMSRCNoTarget:               SignalFail,
	deviceSigmaThresholdCheck:        SigmaFail,
	devicePhaseConsistency:           WrapTargetFail,
	deviceRangeIgnoreThreshold:       XtalkSignalFail,
	deviceMinClip:                    RangeValidMinRangeClipped,
}

// ClassifyRangeStatus maps a raw device range status and the stream count of
// the same result block to a RangeStatus. A completed range from stream count
// zero has had no wrap check yet.
func ClassifyRangeStatus(deviceStatus, streamCount uint8) RangeStatus {

	if deviceStatus == deviceRangeComplete {
		if streamCount == 0 {
			return RangeValidNoWrapCheckFail
		}

		return RangeValid
	}

	if s, ok := deviceStatusTable[deviceStatus]; ok {
		return s
	}

	return UnknownStatus
}
