package types

// Address is a location in the 8080's 16-bit address space.
type Address = uint16

// The Space Invaders board decodes only 14 address lines, so the
// regions below repeat from MirrorStart upwards. The CPU core itself
// treats the full 64 KiB as plain storage; these constants document
// the layout for the machine, renderer and debugger.
const (
	// ROMStart is where the four 2 KiB program ROMs begin
	// (invaders.h, .g, .f and .e).
	ROMStart Address = 0x0000
	// ROMEnd is the last byte of program ROM.
	ROMEnd Address = 0x1FFF
	// RAMStart is the start of the 1 KiB work RAM, which also
	// holds the stack.
	RAMStart Address = 0x2000
	// VRAMStart is the start of the 7 KiB video RAM, scanned by
	// the renderer as 224 columns of 32 bytes.
	VRAMStart Address = 0x2400
	// VRAMEnd is the last byte of video RAM.
	VRAMEnd Address = 0x3FFF
	// MirrorStart is the first address of the RAM mirror.
	MirrorStart Address = 0x4000

	// StackStart is the initial stack pointer, the top of work RAM.
	StackStart Address = 0x2400

	// CPMProgramStart is the load address of CP/M .COM binaries.
	CPMProgramStart Address = 0x0100
	// BDOSEntry is the CP/M system call entry point.
	BDOSEntry Address = 0x0005
)

// VRAMSize is the size of video RAM in bytes.
const VRAMSize = int(VRAMEnd-VRAMStart) + 1
