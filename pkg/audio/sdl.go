package audio

import (
	"time"

	"github.com/veandco/go-sdl2/sdl"
)

const (
	// sdlQueueTarget is how much audio is kept queued on the device.
	sdlQueueTarget = SampleRate / 20 * 8 // 50ms of stereo float32
	sdlChunk       = 512 * 8
)

type sdlOutput struct {
	dev  sdl.AudioDeviceID
	done chan struct{}
	wg   chan struct{}
}

// openSDL queues the mixer's output on an SDL audio device from a
// goroutine, rather than through a cgo callback.
func openSDL(m *Mixer) (Output, error) {
	if err := sdl.InitSubSystem(sdl.INIT_AUDIO); err != nil {
		return nil, err
	}

	dev, err := sdl.OpenAudioDevice("", false, &sdl.AudioSpec{
		Freq:     SampleRate,
		Format:   sdl.AUDIO_F32LSB,
		Channels: 2,
		Samples:  1024,
	}, nil, 0)
	if err != nil {
		sdl.QuitSubSystem(sdl.INIT_AUDIO)
		return nil, err
	}

	o := &sdlOutput{dev: dev, done: make(chan struct{}), wg: make(chan struct{})}
	sdl.PauseAudioDevice(dev, false)
	go o.feed(m)
	return o, nil
}

func (o *sdlOutput) feed(m *Mixer) {
	defer close(o.wg)

	buf := make([]byte, sdlChunk)
	ticker := time.NewTicker(5 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-o.done:
			return
		case <-ticker.C:
			for sdl.GetQueuedAudioSize(o.dev) < sdlQueueTarget {
				n, _ := m.Read(buf)
				if err := sdl.QueueAudio(o.dev, buf[:n]); err != nil {
					return
				}
			}
		}
	}
}

func (o *sdlOutput) Close() error {
	close(o.done)
	<-o.wg
	sdl.CloseAudioDevice(o.dev)
	sdl.QuitSubSystem(sdl.INIT_AUDIO)
	return nil
}
