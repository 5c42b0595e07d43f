package soil

import (
	"context"
	"fmt"
)

var ErrBusBusy = fmt.Errorf("I2C engine is busy (command not completed)")

type AddressableReader interface {
	ReadFromAddr(ctx context.Context, address byte, buffer []byte) error
}

type AddressableWriter interface {
	WriteToAddr(ctx context.Context, address byte, buffer []byte) error
	Release(ctx context.Context) error
}

// I2CBus is the transport capability consumed by the sensor driver.
// Implementations transfer exactly len(buffer) bytes to or from the 7-bit
// device address and surface any shorter transfer as an error.
type I2CBus interface {
	AddressableReader
	AddressableWriter
}
