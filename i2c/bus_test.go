package i2c

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"periph.io/x/conn/v3/physic"
)

// fakeBus records transactions; Tx copies readData into the read buffer.
type fakeBus struct {
	addr     uint16
	w        []byte
	readData []byte
	txErr    error
	speed    physic.Frequency
	speedErr error
	closed   bool
}

func (b *fakeBus) String() string { return "fake" }

func (b *fakeBus) Tx(addr uint16, w, r []byte) error {
	b.addr = addr
	b.w = append([]byte(nil), w...)
	if b.txErr != nil {
		return b.txErr
	}
	copy(r, b.readData)
	return nil
}

func (b *fakeBus) SetSpeed(f physic.Frequency) error {
	if b.speedErr != nil {
		return b.speedErr
	}
	b.speed = f
	return nil
}

func (b *fakeBus) Close() error {
	b.closed = true
	return nil
}

func TestGenericBus_WriteToAddr(t *testing.T) {
	fake := &fakeBus{}
	bus := &GenericBus{bus: fake}

	err := bus.WriteToAddr(context.Background(), 0x36, []byte{0x0F, 0x10})
	assert.NoError(t, err)
	assert.Equal(t, uint16(0x36), fake.addr)
	assert.Equal(t, []byte{0x0F, 0x10}, fake.w)
}

func TestGenericBus_ReadFromAddr(t *testing.T) {
	fake := &fakeBus{readData: []byte{0x02, 0x9A}}
	bus := &GenericBus{bus: fake}

	buf := make([]byte, 2)
	err := bus.ReadFromAddr(context.Background(), 0x36, buf)
	assert.NoError(t, err)
	assert.Equal(t, []byte{0x02, 0x9A}, buf)
	assert.Equal(t, uint16(0x36), fake.addr)
	// a pure read carries no write buffer
	assert.Empty(t, fake.w)
}

func TestGenericBus_TxErrors(t *testing.T) {
	nack := errors.New("nack")
	fake := &fakeBus{txErr: nack}
	bus := &GenericBus{bus: fake}
	ctx := context.Background()

	err := bus.WriteToAddr(ctx, 0x36, []byte{0x00})
	assert.EqualError(t, err, "could not write to i2c device 36: nack")
	assert.ErrorIs(t, err, nack)

	err = bus.ReadFromAddr(ctx, 0x36, make([]byte, 2))
	assert.EqualError(t, err, "could not read from i2c device 36: nack")
	assert.ErrorIs(t, err, nack)
}

func TestGenericBus_SetSpeed(t *testing.T) {
	fake := &fakeBus{}
	bus := &GenericBus{bus: fake}

	assert.NoError(t, bus.SetSpeed(400*physic.KiloHertz))
	assert.Equal(t, 400*physic.KiloHertz, fake.speed)

	fake.speedErr = errors.New("clock not supported")
	assert.EqualError(t, bus.SetSpeed(physic.MegaHertz), "clock not supported")
}

func TestGenericBus_ReleaseAndClose(t *testing.T) {
	fake := &fakeBus{}
	bus := &GenericBus{bus: fake}

	assert.NoError(t, bus.Release(context.Background()))
	assert.False(t, fake.closed)

	assert.NoError(t, bus.Close())
	assert.True(t, fake.closed)
}
