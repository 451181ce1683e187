package audio

import (
	"time"

	"github.com/ebitengine/oto/v3"
)

type otoOutput struct {
	ctx    *oto.Context
	player *oto.Player
}

func openOto(m *Mixer) (Output, error) {
	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   SampleRate,
		ChannelCount: 2,
		Format:       oto.FormatFloat32LE,
		BufferSize:   50 * time.Millisecond,
	})
	if err != nil {
		return nil, err
	}
	<-ready

	player := ctx.NewPlayer(m)
	player.Play()
	return &otoOutput{ctx: ctx, player: player}, nil
}

func (o *otoOutput) Close() error {
	return o.player.Close()
}
