package vl53l1x

import "tinygo.org/x/drivers"

// Bus is the transport the sensor is driven over. A call writes w to the
// device at addr and then, if r is not empty, reads len(r) bytes back after a
// repeated start.
//
// On TinyGo boards pass machine.I2C directly: it implements drivers.I2C,
// which is checked below to stay a superset of Bus. periph.io i2c.Bus also
// satisfies Bus without wrapping; see package i2cbus for Linux backends.
type Bus interface {
	Tx(addr uint16, w, r []byte) error
}

var _ Bus = drivers.I2C(nil)
