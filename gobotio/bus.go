package gobotio

import (
	"context"
	"fmt"
	"sync"

	"gobot.io/x/gobot/v2/drivers/i2c"

	"github.com/mklimuk/soil"
)

var _ soil.I2CBus = &Bus{}

// Bus exposes a gobot I2C adaptor as a soil.I2CBus, so the sensor can run on
// any platform gobot supports. Device connections are opened on first use
// and reused afterwards.
type Bus struct {
	mx        sync.Mutex
	connector i2c.Connector
	busNr     int
	conns     map[byte]i2c.Connection
}

// NewBus wraps the adaptor. Pass connector.DefaultI2cBus() or an explicit
// bus number.
func NewBus(connector i2c.Connector, busNr int) *Bus {
	return &Bus{
		connector: connector,
		busNr:     busNr,
		conns:     map[byte]i2c.Connection{},
	}
}

func (b *Bus) connection(address byte) (i2c.Connection, error) {
	if conn, ok := b.conns[address]; ok {
		return conn, nil
	}
	conn, err := b.connector.GetI2cConnection(int(address), b.busNr)
	if err != nil {
		return nil, fmt.Errorf("could not get i2c connection to %x on bus %d: %w", address, b.busNr, err)
	}
	b.conns[address] = conn
	return conn, nil
}

func (b *Bus) WriteToAddr(ctx context.Context, address byte, buffer []byte) error {
	b.mx.Lock()
	defer b.mx.Unlock()
	conn, err := b.connection(address)
	if err != nil {
		return err
	}
	n, err := conn.Write(buffer)
	if err != nil {
		return fmt.Errorf("could not write to i2c device %x: %w", address, err)
	}
	if n != len(buffer) {
		return fmt.Errorf("short write to i2c device %x: %d of %d bytes", address, n, len(buffer))
	}
	return nil
}

func (b *Bus) ReadFromAddr(ctx context.Context, address byte, buffer []byte) error {
	b.mx.Lock()
	defer b.mx.Unlock()
	conn, err := b.connection(address)
	if err != nil {
		return err
	}
	n, err := conn.Read(buffer)
	if err != nil {
		return fmt.Errorf("could not read from i2c device %x: %w", address, err)
	}
	if n != len(buffer) {
		return fmt.Errorf("short read from i2c device %x: %d of %d bytes", address, n, len(buffer))
	}
	return nil
}

func (b *Bus) Release(ctx context.Context) error {
	return nil
}

// Close closes all cached device connections.
func (b *Bus) Close() error {
	b.mx.Lock()
	defer b.mx.Unlock()
	var firstErr error
	for address, conn := range b.conns {
		if err := conn.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("could not close connection to %x: %w", address, err)
		}
		delete(b.conns, address)
	}
	return firstErr
}
