// Package i2cbus opens Linux I2C buses as vl53l1x.Bus implementations, either
// through i2c-dev directly (Sysfs) or through periph.io host drivers
// (OpenPeriph).
package i2cbus

import (
	"io"

	"github.com/pkg/errors"
	"github.com/swdee/go-i2c"
)

// BusCloser is a bus that must be closed when done.
type BusCloser interface {
	Tx(addr uint16, w, r []byte) error
	io.Closer
}

// handle is the part of *i2c.Options the adapter needs
type handle interface {
	WriteBytes(buf []byte) (int, error)
	ReadBytes(buf []byte) (int, error)
	GetAddr() uint8
	GetDev() string
	Close() error
}

// openHandle opens an i2c-dev handle bound to one device address
var openHandle = func(addr uint8, dev string) (handle, error) {
	return i2c.New(addr, dev)
}

// Sysfs adapts an i2c-dev handle, which is bound to a single device address,
// to per-transfer addressing. A transfer to another address reopens the
// handle at that address.
type Sysfs struct {
	h handle
}

// OpenSysfs opens dev (e.g. /dev/i2c-1) addressed at addr.
func OpenSysfs(dev string, addr uint8) (*Sysfs, error) {

	h, err := openHandle(addr, dev)

	if err != nil {
		return nil, errors.Wrapf(err, "open %s at 0x%02X", dev, addr)
	}

	return &Sysfs{h: h}, nil
}

// Tx writes w and then reads len(r) bytes from the device at addr.
func (s *Sysfs) Tx(addr uint16, w, r []byte) error {

	if err := s.rebind(uint8(addr)); err != nil {
		return err
	}

	if len(w) > 0 {
		n, err := s.h.WriteBytes(w)

		if err != nil {
			return err
		}

		if n != len(w) {
			return errors.Errorf("short write to 0x%02X: %d of %d bytes", addr, n, len(w))
		}
	}

	if len(r) > 0 {
		n, err := s.h.ReadBytes(r)

		if err != nil {
			return err
		}

		if n != len(r) {
			return errors.Errorf("short read from 0x%02X: %d of %d bytes", addr, n, len(r))
		}
	}

	return nil
}

// rebind reopens the handle when addr differs from the bound address
func (s *Sysfs) rebind(addr uint8) error {

	if addr == s.h.GetAddr() {
		return nil
	}

	h, err := openHandle(addr, s.h.GetDev())

	if err != nil {
		return errors.Wrapf(err, "reopen %s at 0x%02X", s.h.GetDev(), addr)
	}

	old := s.h
	s.h = h

	return old.Close()
}

// Close releases the handle.
func (s *Sysfs) Close() error {
	return s.h.Close()
}
