package i2cbus

import "github.com/pkg/errors"

// Backend names accepted by Open
const (
	BackendPeriph = "periph"
	BackendSysfs  = "sysfs"
)

// ErrUnknownBackend is returned by Open for backends other than
// BackendPeriph and BackendSysfs
var ErrUnknownBackend = errors.New("unknown i2c backend")

// Open opens device through backend. addr is only used by the sysfs backend,
// which binds its handle to a device address up front.
func Open(backend, device string, addr uint8) (BusCloser, error) {

	switch backend {
	case BackendPeriph:
		return OpenPeriph(device)
	case BackendSysfs:
		s, err := OpenSysfs(device, addr)

		if err != nil {
			return nil, err
		}

		return s, nil
	}

	return nil, errors.Wrapf(ErrUnknownBackend, "%q", backend)
}
