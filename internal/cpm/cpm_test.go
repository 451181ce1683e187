package cpm

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thelolagemann/go-invaders/internal/cpu"
)

// hello prints a string through BDOS function 9 and warm boots.
var hello = append([]byte{
	0x0E, 0x09, // MVI C,9
	0x11, 0x0B, 0x01, // LXI D,010Bh
	0xCD, 0x05, 0x00, // CALL 0005h
	0xC3, 0x00, 0x00, // JMP 0000h
}, []byte("CPU IS OPERATIONAL$")...)

func TestMachine_Run(t *testing.T) {
	echo := &bytes.Buffer{}
	m, err := New(hello, WithOutput(echo))
	require.NoError(t, err)

	res, err := m.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "CPU IS OPERATIONAL", res.Output)
	assert.Equal(t, res.Output, echo.String())
	// four instructions, the BDOS call and the warm boot
	assert.Equal(t, uint64(6), res.Instructions)
	assert.NotZero(t, res.Cycles)
}

func TestMachine_TermCPM(t *testing.T) {
	program := []byte{
		0x0E, 0x02, // MVI C,2
		0x1E, '!', // MVI E,'!'
		0xCD, 0x05, 0x00, // CALL 0005h
		0x0E, 0x00, // MVI C,0
		0xCD, 0x05, 0x00, // CALL 0005h
		0x76, // HLT, never reached
	}
	m, err := New(program)
	require.NoError(t, err)

	res, err := m.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "!", res.Output)
}

func TestMachine_StackFromBDOSVector(t *testing.T) {
	program := []byte{
		0x2A, 0x06, 0x00, // LHLD 0006h
		0xF9, // SPHL
		0xC3, 0x00, 0x00, // JMP 0000h
	}
	m, err := New(program)
	require.NoError(t, err)

	_, err = m.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint16(memoryTop), m.CPU.SP)
}

func TestMachine_Args(t *testing.T) {
	m, err := New([]byte{0xC3, 0x00, 0x00}, WithArgs(" TEST"))
	require.NoError(t, err)

	assert.Equal(t, uint8(5), m.MMU.Read(0x0080))
	assert.Equal(t, []byte(" TEST"), m.MMU.Bytes()[0x0081:0x0086])

	_, err = New(nil, WithArgs(string(make([]byte, 0x80))))
	assert.Error(t, err)
}

func TestMachine_Errors(t *testing.T) {
	t.Run("halt", func(t *testing.T) {
		m, err := New([]byte{0x76})
		require.NoError(t, err)

		_, err = m.Run(context.Background())
		assert.ErrorIs(t, err, ErrHalted)
	})
	t.Run("runaway", func(t *testing.T) {
		m, err := New([]byte{0xC3, 0x00, 0x01}, WithInstructionLimit(1000))
		require.NoError(t, err)

		res, err := m.Run(context.Background())
		assert.ErrorIs(t, err, cpu.ErrRunaway)
		assert.Equal(t, uint64(1000), res.Instructions)
	})
	t.Run("cancelled", func(t *testing.T) {
		m, err := New([]byte{0xC3, 0x00, 0x01})
		require.NoError(t, err)

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
		defer cancel()

		_, err = m.Run(ctx)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})
	t.Run("missing file", func(t *testing.T) {
		_, err := Open("testdata/does-not-exist.com")
		assert.Error(t, err)
	})
}
