package vl53l1x

import (
	"testing"

	"github.com/pkg/errors"
	"go.viam.com/test"
)

func TestTimingBudgetRoundTrip(t *testing.T) {
	v, _ := newTestSensor(t)

	for _, mode := range []DistanceMode{Short, Medium, Long} {
		test.That(t, v.SetDistanceMode(mode), test.ShouldBeNil)

		for _, budget := range []uint32{4529, 8000, 20000, 33000, 50000, 100000, 200000, 1000000, 1104528} {
			test.That(t, v.SetMeasurementTimingBudget(budget), test.ShouldBeNil)

			got, err := v.MeasurementTimingBudget()
			test.That(t, err, test.ShouldBeNil)

			diff := int64(got) - int64(budget)
			if diff < 0 {
				diff = -diff
			}
			test.That(t, diff, test.ShouldBeLessThanOrEqualTo, int64(budget/128+200))
		}
	}
}

func TestTimingBudgetRegisters(t *testing.T) {
	v, f := newTestSensor(t)

	test.That(t, v.SetMeasurementTimingBudget(50000), test.ShouldBeNil)

	test.That(t, f.mem[regPhasecalConfigTimeoutMacrop], test.ShouldEqual, uint8(10))
	test.That(t, f.get16(regRangeConfigTimeoutMacropA), test.ShouldEqual, uint16(0x00D8))
	test.That(t, f.get16(regMMConfigTimeoutMacropA), test.ShouldEqual, uint16(0x0000))

	mpB := MacroPeriod(fakeFastOsc, 0x0D)
	test.That(t, f.get16(regRangeConfigTimeoutMacropB), test.ShouldEqual,
		EncodeTimeout(timeoutMicrosecondsToMclks(22736, mpB)))

	got, err := v.MeasurementTimingBudget()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, got, test.ShouldEqual, uint32(49980))
}

func TestTimingBudgetRejected(t *testing.T) {
	v, f := newTestSensor(t)
	before := f.mem

	err := v.SetMeasurementTimingBudget(TimingGuard)
	test.That(t, errors.Is(err, ErrBudgetTooLow), test.ShouldBeTrue)

	err = v.SetMeasurementTimingBudget(0)
	test.That(t, errors.Is(err, ErrBudgetTooLow), test.ShouldBeTrue)

	err = v.SetMeasurementTimingBudget(TimingGuard + MaxRangeTimeout + 1)
	test.That(t, errors.Is(err, ErrBudgetTooHigh), test.ShouldBeTrue)

	test.That(t, f.writes, test.ShouldBeEmpty)
	test.That(t, f.mem, test.ShouldResemble, before)

	got, err := v.MeasurementTimingBudget()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, got, test.ShouldEqual, uint32(49980))
}

func TestTimingBudgetNotInitialized(t *testing.T) {
	f := newFakeSensor()
	v := newSensor(f)

	err := v.SetMeasurementTimingBudget(50000)
	test.That(t, errors.Is(err, ErrNotInitialized), test.ShouldBeTrue)
	test.That(t, f.writes, test.ShouldBeEmpty)

	_, err = v.MeasurementTimingBudget()
	test.That(t, errors.Is(err, ErrNotInitialized), test.ShouldBeTrue)
}

func TestValidateTimingBudget(t *testing.T) {
	rt, err := validateTimingBudget(50000)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, rt, test.ShouldEqual, uint32(22736))

	rt, err = validateTimingBudget(TimingGuard + MaxRangeTimeout)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, rt, test.ShouldEqual, MaxRangeTimeout/2)
}
