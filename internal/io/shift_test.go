package io

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShiftRegister(t *testing.T) {
	t.Run("offset 0 returns the high byte", func(t *testing.T) {
		var s ShiftRegister
		s.Push(0xAB)
		s.SetOffset(0)
		assert.Equal(t, uint8(0xAB), s.Result())
	})
	t.Run("push moves high into low", func(t *testing.T) {
		var s ShiftRegister
		s.Push(0x0F)
		s.Push(0xFF) // value is now 0xFF0F
		s.SetOffset(4)
		assert.Equal(t, uint8(0xF0), s.Result())
	})
	t.Run("composite 0x0FFF", func(t *testing.T) {
		var s ShiftRegister
		s.Push(0xFF)
		s.Push(0x0F) // value is now 0x0FFF
		s.SetOffset(4)
		assert.Equal(t, uint8(0xFF), s.Result())
	})
	t.Run("offset 7", func(t *testing.T) {
		var s ShiftRegister
		s.Push(0x80)
		s.Push(0x01) // 0x0180
		s.SetOffset(7)
		assert.Equal(t, uint8(0xC0), s.Result())
	})
	t.Run("offset uses low 3 bits", func(t *testing.T) {
		var s ShiftRegister
		s.Push(0x00)
		s.Push(0x01)
		s.SetOffset(0x09)
		assert.Equal(t, uint8(0x02), s.Result())
		assert.Equal(t, uint8(1), s.Offset())
		assert.Equal(t, uint16(0x0100), s.Value())
	})
}
