package types

// Port is one of the 8080's 256 I/O ports. Either function may be
// nil, making the port write-only or read-only.
type Port struct {
	number uint8
	read   func() uint8
	write  func(v uint8)
}

// Ports is the I/O address space, indexed by port number. A nil
// entry is unmapped.
type Ports [0x100]*Port

// PortOpt configures a port.
type PortOpt func(*Port)

// WithRead sets the function serving IN instructions.
func WithRead(read func() uint8) PortOpt {
	return func(p *Port) {
		p.read = read
	}
}

// WithWrite sets the function serving OUT instructions.
func WithWrite(write func(v uint8)) PortOpt {
	return func(p *Port) {
		p.write = write
	}
}

// Register maps port number to a new Port, replacing any existing
// mapping.
func (p *Ports) Register(number uint8, opts ...PortOpt) {
	port := &Port{number: number}
	for _, opt := range opts {
		opt(port)
	}
	p[number] = port
}

// Read returns the value of the port. ok is false when nothing reads
// from it.
func (p *Ports) Read(number uint8) (value uint8, ok bool) {
	if port := p[number]; port != nil && port.read != nil {
		return port.read(), true
	}
	return 0, false
}

// Write writes value to the port. It returns false when nothing
// listens on it.
func (p *Ports) Write(number uint8, value uint8) bool {
	if port := p[number]; port != nil && port.write != nil {
		port.write(value)
		return true
	}
	return false
}

// Readable reports whether the port serves IN instructions.
func (p *Port) Readable() bool { return p.read != nil }

// Writable reports whether the port serves OUT instructions.
func (p *Port) Writable() bool { return p.write != nil }

// Number returns the port's address.
func (p *Port) Number() uint8 { return p.number }
