package emu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRAM_FillPattern(t *testing.T) {
	assert := assert.New(t)

	ram := NewRAM(NewFreeRunningClock())
	b, err := ram.Load(0x1234)
	assert.NoError(err)
	assert.Equal(byte(DenseFill), b)
}

func TestRAM_StoreLoad(t *testing.T) {
	assert := assert.New(t)

	clock := NewFreeRunningClock()
	ram := NewRAM(clock)

	assert.NoError(ram.Store(0x10, 0x42))
	b, err := ram.Load(0x10)
	assert.NoError(err)
	assert.Equal(byte(0x42), b)

	assert.Equal(uint64(2), clock.CurrentCycle())
}

func TestMapper_RoutesToRegion(t *testing.T) {
	assert := assert.New(t)

	clock := NewFreeRunningClock()
	ram := NewRAM(clock)
	rom := NewRAM(clock)
	rom.Write(0x8000, []byte{0xde, 0xad})

	m := NewMapper()
	assert.NoError(m.Map("ram", 0x0000, 0x7fff, ram))
	assert.NoError(m.Map("rom", 0x8000, 0xffff, rom))

	b, err := m.Load(0x8000)
	assert.NoError(err)
	assert.Equal(byte(0xde), b)

	assert.NoError(m.Store(0x10, 0x55))
	b, err = ram.Load(0x10)
	assert.NoError(err)
	assert.Equal(byte(0x55), b)
}

func TestMapper_OverlapRejected(t *testing.T) {
	assert := assert.New(t)

	clock := NewFreeRunningClock()
	m := NewMapper()
	assert.NoError(m.Map("a", 0x0000, 0x0fff, NewRAM(clock)))

	err := m.Map("b", 0x0800, 0x1800, NewRAM(clock))
	assert.Error(err)
}

func TestMapper_Unmapped(t *testing.T) {
	assert := assert.New(t)

	m := NewMapper()
	_, err := m.Load(0x1000)
	assert.ErrorIs(err, ErrAddressUnmapped)
}
