// Package invaders provides an emulation of the Taito/Midway Space
// Invaders arcade board: an 8080 CPU, 8 KiB of ROM, 8 KiB of RAM of
// which 7 KiB is a 1-bit frame buffer, a hardware shift register and
// two interrupts per frame raised by the video hardware.
package invaders

import (
	"fmt"
	"sync"
	"time"

	"github.com/thelolagemann/go-invaders/internal/cpu"
	"github.com/thelolagemann/go-invaders/internal/interrupts"
	"github.com/thelolagemann/go-invaders/internal/io"
	"github.com/thelolagemann/go-invaders/internal/mmu"
	"github.com/thelolagemann/go-invaders/internal/scheduler"
	"github.com/thelolagemann/go-invaders/internal/types"
	"github.com/thelolagemann/go-invaders/internal/video"
	"github.com/thelolagemann/go-invaders/internal/video/palette"
	"github.com/thelolagemann/go-invaders/pkg/display/event"
	"github.com/thelolagemann/go-invaders/pkg/emulator"
	"github.com/thelolagemann/go-invaders/pkg/log"
)

const (
	// FramesPerSecond is the refresh rate of the monitor.
	FramesPerSecond = 59.541985
	// CyclesPerFrame is the number of clock cycles per frame,
	// cpu.ClockSpeed / FramesPerSecond.
	CyclesPerFrame = 33536
	// CyclesPerHalfFrame is when the beam reaches the middle of the
	// screen.
	CyclesPerHalfFrame = CyclesPerFrame / 2

	// FrameTime is the time between two frames at normal speed.
	FrameTime = time.Second * 1000000 / 59541985

	// highScoreRestoreFrames is how long the game takes to clear its
	// RAM and draw the attract screen after power on.
	highScoreRestoreFrames = 120
)

// HighScoreAddress holds the high score as two BCD bytes, low byte
// first.
const HighScoreAddress uint16 = 0x20F4

// FrameHook is run after every frame, such as by a Lua script.
type FrameHook interface {
	OnFrame(frame uint64) error
	Close() error
}

// Machine represents a Space Invaders board. It contains all the
// components of the board and is the main entry point for the
// emulator.
type Machine struct {
	CPU        *cpu.CPU
	MMU        *mmu.MMU
	IO         *io.Controller
	Input      *io.InputState
	Interrupts *interrupts.Service
	Scheduler  *scheduler.Scheduler
	Video      *video.Renderer

	log.Logger

	rom       []byte
	speed     float64
	listener  io.SoundListener
	hooks     []FrameHook
	savePath  string
	save      *emulator.Save
	state     []byte
	lastFrame []byte

	// mu serialises stepping with commands from other goroutines.
	mu         sync.Mutex
	paused     bool
	frameDone  bool
	irqCycles  uint64
	frames     uint64
	events     chan<- event.Event
	speedDirty bool

	done      chan struct{}
	closeOnce sync.Once
}

// New returns a Machine running rom, which must be at most ROMSize
// bytes. See LoadROMSet for reading the ROM chips from disk.
func New(rom []byte, opts ...Opt) (*Machine, error) {
	if _, err := checkROM(rom); err != nil {
		return nil, err
	}

	irq := interrupts.NewService()
	memBus := mmu.NewMMU()
	input := io.NewInputState(io.DefaultDIP)

	m := &Machine{
		MMU:        memBus,
		Input:      input,
		Interrupts: irq,
		Scheduler:  scheduler.NewScheduler(),
		Video:      video.NewRenderer(palette.Overlay),
		Logger:     log.NewNullLogger(),
		rom:        rom,
		speed:      1,
		done:       make(chan struct{}),
	}
	m.IO = io.NewController(input, soundRelay{m}, m.Logger)
	m.CPU = cpu.NewCPU(memBus, irq, m.IO)

	m.Scheduler.RegisterEvent(scheduler.MidScreen, m.midScreen)
	m.Scheduler.RegisterEvent(scheduler.EndScreen, m.endScreen)
	m.Scheduler.RegisterEvent(scheduler.RestoreHighScore, m.restoreHighScore)

	if err := m.MMU.LoadBytes(types.ROMStart, rom); err != nil {
		return nil, err
	}
	m.reset()

	for _, opt := range opts {
		opt(m)
	}

	// options may have replaced the logger
	m.CPU.Log = m.Logger
	m.MMU.Log = m.Logger
	m.IO.SetLogger(m.Logger)

	if m.savePath != "" {
		save, err := emulator.OpenSave(m.savePath, 2)
		if err != nil {
			m.Errorf("unable to open high score file: %v", err)
		} else {
			m.save = save
		}
	}

	if m.state != nil {
		if err := m.LoadState(m.state); err != nil {
			return nil, fmt.Errorf("loading state: %w", err)
		}
		m.state = nil
	}

	return m, nil
}

// reset power cycles the board, leaving the ROM in place.
func (m *Machine) reset() {
	m.MMU.Reset()
	_ = m.MMU.LoadBytes(types.ROMStart, m.rom)
	m.CPU.Reset()
	m.IO.Reset()
	m.Scheduler.Reset()
	m.frames = 0
	m.irqCycles = 0
	m.frameDone = false

	m.Scheduler.ScheduleEvent(scheduler.MidScreen, CyclesPerHalfFrame)
	m.Scheduler.ScheduleEvent(scheduler.EndScreen, CyclesPerFrame)
	m.Scheduler.ScheduleEvent(scheduler.RestoreHighScore, CyclesPerFrame*highScoreRestoreFrames)
}

func (m *Machine) midScreen() {
	m.interrupt(interrupts.RST1)
	m.Scheduler.ScheduleEvent(scheduler.MidScreen, CyclesPerFrame)
}

func (m *Machine) endScreen() {
	m.interrupt(interrupts.RST2)
	m.frameDone = true
	m.Scheduler.ScheduleEvent(scheduler.EndScreen, CyclesPerFrame)
}

// interrupt raises an interrupt. The cycles it takes are handed to the
// scheduler once the current tick has completed.
func (m *Machine) interrupt(opcode uint8) {
	m.irqCycles += uint64(m.CPU.ExecuteInterrupt(opcode))
}

// step executes a single instruction and advances the scheduler.
func (m *Machine) step() {
	m.Scheduler.Tick(uint64(m.CPU.Step()))
	for m.irqCycles > 0 {
		c := m.irqCycles
		m.irqCycles = 0
		m.Scheduler.Tick(c)
	}
}

// Step executes a single instruction, delivering any interrupts that
// become due.
func (m *Machine) Step() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.step()
}

// Frame steps the emulation until the video hardware has finished
// the current frame, then renders it. If the CPU stops with an error
// the partial frame is returned and Status reports Errored.
func (m *Machine) Frame() []byte {
	m.frameDone = false
	for !m.frameDone {
		m.step()
		if m.CPU.Err() != nil {
			m.Errorf("cpu stopped: %v", m.CPU.Err())
			break
		}
	}
	m.frames++

	for _, hook := range m.hooks {
		if err := hook.OnFrame(m.frames); err != nil {
			m.Errorf("frame hook: %v", err)
		}
	}

	m.lastFrame = m.Video.Render(m.MMU.VRAM())
	return m.lastFrame
}

// Frames returns the number of frames emulated since the last reset.
func (m *Machine) Frames() uint64 {
	return m.frames
}

// Inspect calls fn with the machine locked, so the CPU, memory and
// ports can be read while Start runs on another goroutine.
func (m *Machine) Inspect(fn func(c *cpu.CPU, mem *mmu.MMU, ports *io.Controller)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	fn(m.CPU, m.MMU, m.IO)
}

// AttachHook runs hook after every frame, from the next frame on.
func (m *Machine) AttachHook(hook FrameHook) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hooks = append(m.hooks, hook)
}

// Start runs the machine in real time until it is closed, sending each
// frame to fb. Button presses are read from pressed and released.
func (m *Machine) Start(fb chan<- []byte, events chan<- event.Event, pressed, released <-chan io.Button) {
	m.mu.Lock()
	m.events = events
	m.mu.Unlock()

	ticker := time.NewTicker(m.frameInterval())
	defer ticker.Stop()

	frames := 0
	start := time.Now()

	for {
		select {
		case <-m.done:
			m.mu.Lock()
			m.sendEvent(event.Event{Type: event.Quit})
			m.mu.Unlock()
			return
		case b := <-pressed:
			m.Input.Press(b)
		case b := <-released:
			m.Input.Release(b)
		case <-ticker.C:
			m.mu.Lock()
			if m.speedDirty {
				ticker.Reset(m.frameInterval())
				m.speedDirty = false
			}
			if m.paused || m.CPU.Err() != nil {
				m.mu.Unlock()
				continue
			}
			frameStart := time.Now()
			frame := m.Frame()
			m.sendEvent(event.Event{Type: event.FrameTime, Data: time.Since(frameStart)})

			frames++
			if time.Since(start) > time.Second {
				m.sendEvent(event.Event{Type: event.Title, Data: fmt.Sprintf("Space Invaders | FPS: %d", frames)})
				frames = 0
				start = time.Now()
			}
			m.mu.Unlock()

			select {
			case fb <- frame:
			default:
				// the driver is behind, drop the frame
			}
		}
	}
}

func (m *Machine) frameInterval() time.Duration {
	return time.Duration(float64(FrameTime) / m.speed)
}

// sendEvent forwards an event to the driver without blocking. The
// caller holds mu.
func (m *Machine) sendEvent(e event.Event) {
	if m.events == nil {
		return
	}
	select {
	case m.events <- e:
	default:
	}
}

// Speed returns the speed multiplier of the emulator.
func (m *Machine) Speed() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.speed
}

// Status returns the status of the emulator.
func (m *Machine) Status() emulator.Status {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch {
	case m.CPU.Err() != nil:
		return emulator.Errored
	case m.Interrupts.Halted && !m.Interrupts.IME:
		return emulator.Halted
	case m.paused:
		return emulator.Paused
	}
	return emulator.Running
}

// Pause stops emulation until Resume is called.
func (m *Machine) Pause() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.paused = true
	m.sendEvent(event.Event{Type: event.Paused, Data: true})
}

// Resume continues a paused machine.
func (m *Machine) Resume() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.paused = false
	m.sendEvent(event.Event{Type: event.Paused, Data: false})
}

// Paused reports whether the machine is paused.
func (m *Machine) Paused() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.paused
}

// Reset power cycles the machine.
func (m *Machine) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.storeHighScore()
	m.reset()
	m.Infof("machine reset")
}

// Close stops the machine, persisting the high score and closing any
// frame hooks. It is safe to call more than once.
func (m *Machine) Close() error {
	var err error
	m.closeOnce.Do(func() {
		m.mu.Lock()
		defer m.mu.Unlock()

		close(m.done)
		m.storeHighScore()
		if m.save != nil {
			if cerr := m.save.Close(); cerr != nil {
				err = fmt.Errorf("saving high score: %w", cerr)
			}
		}
		for _, hook := range m.hooks {
			if cerr := hook.Close(); cerr != nil && err == nil {
				err = cerr
			}
		}
	})
	return err
}

var _ emulator.Controller = (*Machine)(nil)

// soundRelay forwards the sound latches to the configured listener
// and reports them to the display driver.
type soundRelay struct {
	m *Machine
}

func (r soundRelay) Start(s io.Sound) {
	if r.m.listener != nil {
		r.m.listener.Start(s)
	}
	r.m.sendEvent(event.Event{Type: event.Sound, Data: event.SoundData{Name: s.String(), Playing: true}})
}

func (r soundRelay) Stop(s io.Sound) {
	if r.m.listener != nil {
		r.m.listener.Stop(s)
	}
	r.m.sendEvent(event.Event{Type: event.Sound, Data: event.SoundData{Name: s.String(), Playing: false}})
}
