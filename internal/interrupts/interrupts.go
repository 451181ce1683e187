// Package interrupts holds the 8080's interrupt state. The 8080 has a
// single interrupt enable flip-flop and no vector table: an external
// device supplies a one-byte instruction (normally an RST) which the
// CPU executes as if it had been fetched.
package interrupts

import (
	"github.com/thelolagemann/go-invaders/internal/types"
)

const (
	// RST1 is delivered by the Space Invaders board when the beam
	// reaches the middle of the screen. It calls 0x0008.
	RST1 uint8 = 0xCF
	// RST2 is delivered at the start of vertical blank. It calls
	// 0x0010.
	RST2 uint8 = 0xD7
)

// Service tracks the interrupt enable flip-flop (IME) and whether the
// CPU is halted waiting for an interrupt.
//
// IME is set by EI and cleared by DI, and is cleared automatically
// when an interrupt is accepted. A halted CPU only resumes when an
// interrupt is accepted.
type Service struct {
	IME    bool // interrupt master enable
	Halted bool // set by HLT
}

// NewService returns a new Service with interrupts disabled.
func NewService() *Service {
	return &Service{}
}

// Enable sets the IME (EI).
func (s *Service) Enable() {
	s.IME = true
}

// Disable clears the IME (DI).
func (s *Service) Disable() {
	s.IME = false
}

// Halt stops instruction fetch until an interrupt is accepted (HLT).
func (s *Service) Halt() {
	s.Halted = true
}

// Deliverable returns true if an interrupt request would be accepted.
func (s *Service) Deliverable() bool {
	return s.IME
}

// Acknowledge accepts an interrupt, leaving the halted state and
// disabling further interrupts until the program executes EI.
func (s *Service) Acknowledge() {
	s.IME = false
	s.Halted = false
}

// Reset returns the Service to its power-on state.
func (s *Service) Reset() {
	s.IME = false
	s.Halted = false
}

var _ types.Stater = (*Service)(nil)

// Load implements the types.Stater interface.
//
// The values are loaded in the following order:
//   - IME (bool)
//   - Halted (bool)
func (s *Service) Load(st *types.State) {
	s.IME = st.ReadBool()
	s.Halted = st.ReadBool()
}

// Save implements the types.Stater interface.
//
// The values are saved in the following order:
//   - IME (bool)
//   - Halted (bool)
func (s *Service) Save(st *types.State) {
	st.WriteBool(s.IME)
	st.WriteBool(s.Halted)
}
