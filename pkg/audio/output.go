package audio

import (
	"fmt"
	"sort"
)

// Output plays a Mixer until closed.
type Output interface {
	Close() error
}

type opener func(m *Mixer) (Output, error)

var outputs = map[string]opener{
	"oto":  openOto,
	"sdl":  openSDL,
	"none": func(*Mixer) (Output, error) { return nopOutput{}, nil },
}

// Open starts playing m through the named backend.
func Open(backend string, m *Mixer) (Output, error) {
	open, ok := outputs[backend]
	if !ok {
		return nil, fmt.Errorf("audio: unknown backend %q, want one of %v", backend, Backends())
	}
	out, err := open(m)
	if err != nil {
		return nil, fmt.Errorf("audio: %s: %w", backend, err)
	}
	return out, nil
}

// Backends lists the backend names accepted by Open.
func Backends() []string {
	names := make([]string, 0, len(outputs))
	for name := range outputs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

type nopOutput struct{}

func (nopOutput) Close() error { return nil }
