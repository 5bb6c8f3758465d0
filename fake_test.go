package vl53l1x

import (
	"testing"

	"github.com/pkg/errors"
	"go.uber.org/zap/zaptest"
	"tinygo.org/x/drivers"
)

// compile-time check, the simulated sensor stands in for a TinyGo bus
var _ drivers.I2C = (*fakeSensor)(nil)

const fakeFastOsc uint16 = 0xB000

// regWriteLog is one register write seen by the fake
type regWriteLog struct {
	reg  uint16
	data []byte
}

// fakeSensor simulates the VL53L1X register file: 16 bit big-endian register
// addresses, address auto-increment and a log of every write.
type fakeSensor struct {
	addr   uint16
	mem    [0x200]byte
	writes []regWriteLog
	txs    [][]byte

	// gpioNotReady forces the data ready bit (active low) to read 1
	gpioNotReady bool

	// onRead is called before every read of reg
	onRead func(reg uint16)

	// failAt makes the nth transfer fail, counting from 1
	failAt int
	ntx    int
}

func newFakeSensor() *fakeSensor {
	f := &fakeSensor{addr: uint16(Address)}
	f.set16(regIdentificationModelID, ModelID)
	f.mem[regFirmwareSystemStatus] = 0x01
	f.set16(regOscMeasuredFastOscFrequency, fakeFastOsc)
	f.set16(regResultOscCalibrateVal, 0x0123)
	f.set16(regMMConfigOuterOffsetMM, 0x0010)
	f.mem[regVHVConfigInit] = 0xA0
	f.mem[regVHVConfigTimeoutMacropLoopBound] = 0x5B
	f.mem[regPhasecalResultVCSELStart] = 0x0C
	return f
}

func (f *fakeSensor) set16(reg, val uint16) {
	f.mem[reg] = byte(val >> 8)
	f.mem[reg+1] = byte(val)
}

func (f *fakeSensor) get16(reg uint16) uint16 {
	return uint16(f.mem[reg])<<8 | uint16(f.mem[reg+1])
}

// setResults loads a result block at RESULT__RANGE_STATUS
func (f *fakeSensor) setResults(status, streamCount uint8, spads, ambient, rawRange, peak uint16) {
	base := regResultRangeStatus
	f.mem[base] = status
	f.mem[base+2] = streamCount
	f.set16(base+3, spads)
	f.set16(base+7, ambient)
	f.set16(base+13, rawRange)
	f.set16(base+15, peak)
}

// writesTo returns the values written to reg in order
func (f *fakeSensor) writesTo(reg uint16) [][]byte {
	var out [][]byte
	for _, w := range f.writes {
		if w.reg == reg {
			out = append(out, w.data)
		}
	}
	return out
}

func (f *fakeSensor) Tx(addr uint16, w, r []byte) error {
	f.ntx++
	if f.failAt != 0 && f.ntx == f.failAt {
		return errors.New("bus nack")
	}
	if addr != f.addr {
		return errors.Errorf("no device at 0x%02X", addr)
	}
	if len(w) < 2 {
		return errors.New("missing register address")
	}
	f.txs = append(f.txs, append([]byte(nil), w...))

	reg := uint16(w[0])<<8 | uint16(w[1])
	if data := w[2:]; len(data) > 0 {
		f.writes = append(f.writes, regWriteLog{reg: reg, data: append([]byte(nil), data...)})
		for i, b := range data {
			f.mem[int(reg)+i] = b
		}
		if reg == regI2CSlaveDeviceAddress {
			f.addr = uint16(data[0] & 0x7F)
		}
	}

	if len(r) > 0 && f.onRead != nil {
		f.onRead(reg)
	}
	for i := range r {
		r[i] = f.mem[int(reg)+i]
	}
	if reg == regGPIOTioHVStatus && len(r) > 0 && f.gpioNotReady {
		r[0] |= 0x01
	}
	return nil
}

func (f *fakeSensor) ReadRegister(addr uint8, r uint8, buf []byte) error {
	return f.Tx(uint16(addr), []byte{0x00, r}, buf)
}

func (f *fakeSensor) WriteRegister(addr uint8, r uint8, buf []byte) error {
	return f.Tx(uint16(addr), append([]byte{0x00, r}, buf...), nil)
}

// newTestSensor returns an initialized sensor on a fresh fake
func newTestSensor(t *testing.T, opts ...Option) (*VL53L1X, *fakeSensor) {
	t.Helper()

	f := newFakeSensor()
	opts = append([]Option{WithLogger(zaptest.NewLogger(t).Sugar())}, opts...)

	v, err := New(f, opts...)
	if err != nil {
		t.Fatalf("init: %v", err)
	}

	f.writes = nil
	f.txs = nil
	return v, f
}
