package emu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSparseImage_PutByte(t *testing.T) {
	assert := assert.New(t)

	s := NewSparseImage()
	assert.NoError(s.PutByte(0x10, 0xaa, false))

	b, ok := s.GetByte(0x10)
	assert.True(ok)
	assert.Equal(byte(0xaa), b)
}

func TestSparseImage_PutByte_Collision(t *testing.T) {
	assert := assert.New(t)

	s := NewSparseImage()
	assert.NoError(s.PutByte(0x10, 0xaa, false))

	err := s.PutByte(0x10, 0xbb, false)
	assert.ErrorIs(err, ErrCollision)

	b, _ := s.GetByte(0x10)
	assert.Equal(byte(0xaa), b, "collision must not modify the existing byte")
}

func TestSparseImage_PutByte_Overwrite(t *testing.T) {
	assert := assert.New(t)

	s := NewSparseImage()
	assert.NoError(s.PutByte(0x10, 0xaa, false))
	assert.NoError(s.PutByte(0x10, 0xbb, true))

	b, _ := s.GetByte(0x10)
	assert.Equal(byte(0xbb), b)
}

func TestSparseImage_CodeRange(t *testing.T) {
	assert := assert.New(t)

	s := NewSparseImage()
	assert.NoError(s.PutByte(0x2000, 1, false))
	assert.NoError(s.PutByte(0x1000, 2, false))
	assert.NoError(s.PutByte(0x1500, 3, false))

	lo, hi := s.CodeRange()
	assert.Equal(Address(0x1000), lo)
	assert.Equal(Address(0x2000), hi)
}

func TestSparseImage_DumpDense(t *testing.T) {
	assert := assert.New(t)

	s := NewSparseImage()
	assert.NoError(s.PutBytes(0x10, []byte{0x01, 0x02, 0x03}, false))

	dense := s.DumpDense()
	assert.Equal([]byte{0x01, 0x02, 0x03}, dense)
}

func TestSparseImage_DumpDense_FillsGaps(t *testing.T) {
	assert := assert.New(t)

	s := NewSparseImage()
	assert.NoError(s.PutByte(0x00, 0x01, false))
	assert.NoError(s.PutByte(0x02, 0x02, false))

	dense := s.DumpDense()
	assert.Equal([]byte{0x01, 0x00, 0x02}, dense)
}

func TestSparseImage_Equal(t *testing.T) {
	assert := assert.New(t)

	a := NewSparseImage()
	assert.NoError(a.PutByte(1, 0xaa, false))

	b := NewSparseImage()
	assert.NoError(b.PutByte(1, 0xaa, false))

	assert.True(a.Equal(b))

	assert.NoError(b.PutByte(2, 0xbb, false))
	assert.False(a.Equal(b))
}
