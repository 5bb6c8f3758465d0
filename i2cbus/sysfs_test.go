package i2cbus

import (
	"testing"

	"github.com/pkg/errors"
	"go.viam.com/test"
)

type fakeHandle struct {
	addr    uint8
	dev     string
	written [][]byte
	reply   []byte
	short   bool
	closed  bool
}

func (h *fakeHandle) WriteBytes(buf []byte) (int, error) {
	h.written = append(h.written, append([]byte(nil), buf...))
	if h.short {
		return len(buf) - 1, nil
	}
	return len(buf), nil
}

func (h *fakeHandle) ReadBytes(buf []byte) (int, error) {
	n := copy(buf, h.reply)
	return n, nil
}

func (h *fakeHandle) GetAddr() uint8 { return h.addr }
func (h *fakeHandle) GetDev() string { return h.dev }

func (h *fakeHandle) Close() error {
	h.closed = true
	return nil
}

// stubOpen replaces openHandle for the duration of the test and returns the
// handles it opened
func stubOpen(t *testing.T, reply []byte) *[]*fakeHandle {
	t.Helper()

	var opened []*fakeHandle
	prev := openHandle
	openHandle = func(addr uint8, dev string) (handle, error) {
		if dev == "" {
			return nil, errors.New("no such device")
		}
		h := &fakeHandle{addr: addr, dev: dev, reply: reply}
		opened = append(opened, h)
		return h, nil
	}
	t.Cleanup(func() { openHandle = prev })

	return &opened
}

func TestSysfsTx(t *testing.T) {
	opened := stubOpen(t, []byte{0xEA, 0xCC})

	bus, err := OpenSysfs("/dev/i2c-1", 0x29)
	test.That(t, err, test.ShouldBeNil)

	r := make([]byte, 2)
	err = bus.Tx(0x29, []byte{0x01, 0x0F}, r)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, r, test.ShouldResemble, []byte{0xEA, 0xCC})
	test.That(t, len(*opened), test.ShouldEqual, 1)
	test.That(t, (*opened)[0].written, test.ShouldResemble, [][]byte{{0x01, 0x0F}})
}

func TestSysfsRebindOnAddressChange(t *testing.T) {
	opened := stubOpen(t, nil)

	bus, err := OpenSysfs("/dev/i2c-1", 0x29)
	test.That(t, err, test.ShouldBeNil)

	test.That(t, bus.Tx(0x30, []byte{0x00, 0x87, 0x10}, nil), test.ShouldBeNil)
	test.That(t, len(*opened), test.ShouldEqual, 2)
	test.That(t, (*opened)[0].closed, test.ShouldBeTrue)
	test.That(t, (*opened)[1].addr, test.ShouldEqual, uint8(0x30))
	test.That(t, (*opened)[1].dev, test.ShouldEqual, "/dev/i2c-1")

	test.That(t, bus.Close(), test.ShouldBeNil)
	test.That(t, (*opened)[1].closed, test.ShouldBeTrue)
}

func TestSysfsShortTransfers(t *testing.T) {
	opened := stubOpen(t, []byte{0x01})

	bus, err := OpenSysfs("/dev/i2c-1", 0x29)
	test.That(t, err, test.ShouldBeNil)

	err = bus.Tx(0x29, []byte{0x00, 0x89}, make([]byte, 17))
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "short read")

	(*opened)[0].short = true
	err = bus.Tx(0x29, []byte{0x00, 0x87, 0x10}, nil)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "short write")
}

func TestOpen(t *testing.T) {
	stubOpen(t, nil)

	bus, err := Open(BackendSysfs, "/dev/i2c-1", 0x29)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, bus, test.ShouldNotBeNil)

	_, err = Open(BackendSysfs, "", 0x29)
	test.That(t, err, test.ShouldNotBeNil)

	_, err = Open("spi", "/dev/i2c-1", 0x29)
	test.That(t, errors.Is(err, ErrUnknownBackend), test.ShouldBeTrue)
}
