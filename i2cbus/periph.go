package i2cbus

import (
	"github.com/pkg/errors"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"
)

var _ BusCloser = i2c.BusCloser(nil)

// OpenPeriph loads the periph.io host drivers and opens the named bus. An
// empty name opens the first bus found, "1" or "I2C1" pick a bus by number
// or name.
func OpenPeriph(name string) (i2c.BusCloser, error) {

	if _, err := host.Init(); err != nil {
		return nil, errors.Wrap(err, "periph host init")
	}

	bus, err := i2creg.Open(name)

	if err != nil {
		return nil, errors.Wrapf(err, "open i2c bus %q", name)
	}

	return bus, nil
}
