package views

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFrameTimes(t *testing.T) {
	var f frameTimes
	xys, mean := f.points()
	assert.Empty(t, xys)
	assert.Zero(t, mean)

	f.add(2 * time.Millisecond)
	f.add(4 * time.Millisecond)
	xys, mean = f.points()
	assert.Len(t, xys, 2)
	assert.Equal(t, 2.0, xys[0].Y)
	assert.Equal(t, 3.0, mean)

	for i := 0; i < frameHistory; i++ {
		f.add(time.Duration(i) * time.Millisecond)
	}
	xys, _ = f.points()
	assert.Len(t, xys, frameHistory)
	assert.Equal(t, 0.0, xys[0].Y, "oldest entries are dropped")
	assert.Equal(t, float64(frameHistory-1), xys[frameHistory-1].Y)
}

func TestFormatRow(t *testing.T) {
	data := make([]byte, 32)
	copy(data[16:], "INVADERS")

	addr, hex, ascii := formatRow(16, data)
	assert.Equal(t, "0010", addr)
	assert.Equal(t, "49", hex[0])
	assert.Equal(t, "I", ascii[0])
	assert.Equal(t, ".", ascii[15])
}
