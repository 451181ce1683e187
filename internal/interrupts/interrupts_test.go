package interrupts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/thelolagemann/go-invaders/internal/types"
)

func TestService(t *testing.T) {
	s := NewService()
	assert.False(t, s.Deliverable(), "disabled at power on")

	s.Enable()
	assert.True(t, s.Deliverable())

	s.Halt()
	assert.True(t, s.Halted)

	s.Acknowledge()
	assert.False(t, s.Halted, "acknowledge wakes the cpu")
	assert.False(t, s.Deliverable(), "acknowledge disables interrupts")

	s.Enable()
	s.Disable()
	assert.False(t, s.Deliverable())
}

func TestService_State(t *testing.T) {
	s := &Service{IME: true, Halted: true}
	st := types.NewState()
	s.Save(st)

	restored := NewService()
	st.ResetPosition()
	restored.Load(st)
	assert.Equal(t, s, restored)
}
