package web

import (
	"encoding/binary"
	"sync"

	"github.com/cespare/xxhash"
	"github.com/google/brotli/go/cbrotli"
	"github.com/thelolagemann/go-invaders/internal/video"
	"github.com/thelolagemann/go-invaders/pkg/utils"
)

const (
	pixels    = video.ScreenWidth * video.ScreenHeight
	cacheSize = 64
)

// player turns the machine's RGB frames into the messages broadcast to
// clients. A frame is sent whole, as a patch of the changed pixels, as
// an index into the clients' caches, or not at all when nothing
// changed and frame skipping is enabled.
type player struct {
	mu sync.Mutex

	compression      bool
	compressionLevel int
	framePatching    bool
	framePatchRatio  int
	frameSkipping    bool

	current []byte // RGBA
	dirty   []byte // RGBA, only changed pixels set
	skipped uint32

	patchCache, frameCache *cache
}

func newPlayer() *player {
	return &player{
		compression:      true,
		compressionLevel: 7,
		framePatching:    true,
		framePatchRatio:  2,
		frameSkipping:    true,
		current:          make([]byte, pixels*4),
		dirty:            make([]byte, pixels*4),
		patchCache:       newCache(cacheSize),
		frameCache:       newCache(cacheSize),
	}
}

// encode returns the messages that bring clients up to date with fb.
func (p *player) encode(fb []byte) ([][]byte, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	dirtied := 0
	for i := 0; i < pixels; i++ {
		r, g, b := fb[i*3], fb[i*3+1], fb[i*3+2]
		if p.current[i*4] != r || p.current[i*4+1] != g || p.current[i*4+2] != b || p.current[i*4+3] != 255 {
			p.dirty[i*4] = r
			p.dirty[i*4+1] = g
			p.dirty[i*4+2] = b
			p.dirty[i*4+3] = 255
			dirtied++
		}
		p.current[i*4] = r
		p.current[i*4+1] = g
		p.current[i*4+2] = b
		p.current[i*4+3] = 255
	}
	defer clear(p.dirty)

	if dirtied == 0 && p.frameSkipping {
		p.skipped++
		return nil, nil
	}

	var messages [][]byte
	if p.skipped > 0 {
		messages = append(messages, binary.LittleEndian.AppendUint32([]byte{FrameSkip}, p.skipped))
		p.skipped = 0
	}

	kind, c, cached, buffer := Frame, p.frameCache, FrameCache, p.current
	if p.framePatching && dirtied > 0 && dirtied < p.framePatchRatio*pixels/10 {
		kind, c, cached, buffer = FramePatch, p.patchCache, PatchCache, p.dirty
	}

	output, err := p.compress(buffer, p.compressionLevel)
	if err != nil {
		return nil, err
	}

	hash := xxhash.Sum64(output)
	c.Lock()
	defer c.Unlock()
	if idx := c.index(hash); idx != -1 {
		return append(messages, binary.LittleEndian.AppendUint16([]byte{cached}, uint16(idx))), nil
	}
	idx := c.add(hash, output)
	msg := binary.LittleEndian.AppendUint16([]byte{kind}, uint16(idx))
	return append(messages, append(msg, output...)), nil
}

// compress returns a copy of b, brotli encoded when compression is
// enabled.
func (p *player) compress(b []byte, quality int) ([]byte, error) {
	if !p.compression {
		return append([]byte(nil), b...), nil
	}
	return cbrotli.Encode(b, cbrotli.WriterOptions{Quality: quality})
}

// sync returns the messages a newly connected client needs: the
// current frame and both caches.
func (p *player) sync() ([][]byte, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	frame, err := cbrotli.Encode(p.current, cbrotli.WriterOptions{Quality: 9})
	if err != nil {
		return nil, err
	}

	p.patchCache.Lock()
	patches := p.patchCache.sync()
	p.patchCache.Unlock()
	p.frameCache.Lock()
	frames := p.frameCache.sync()
	p.frameCache.Unlock()

	return [][]byte{
		append([]byte{FrameSync}, frame...),
		append([]byte{PatchCacheSync, boolByte(p.compression)}, patches...),
		append([]byte{FrameCacheSync, boolByte(p.compression)}, frames...),
	}, nil
}

// set changes a setting, reporting whether it was recognised.
func (p *player) set(s Setting, v byte) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	switch s {
	case Compression:
		p.compression = v == 1
	case CompressionLevel:
		p.compressionLevel = utils.Clamp(0, int(v), 11)
	case FramePatching:
		p.framePatching = v == 1
	case FramePatchingRatio:
		p.framePatchRatio = utils.Clamp(1, int(v), 10)
	case FrameSkipping:
		p.frameSkipping = v == 1
	default:
		return false
	}

	// the caches hold data in the old encoding
	p.patchCache = newCache(cacheSize)
	p.frameCache = newCache(cacheSize)
	return true
}

// info packs the settings into a byte:
//
//	Bit 0: running
//	Bit 2: compression enabled
//	Bit 3: frame patching enabled
//	Bit 4: frame skipping enabled
//	Bit 5: paused
func (p *player) info(paused bool) byte {
	p.mu.Lock()
	defer p.mu.Unlock()

	var info byte
	if paused {
		info |= 1 << 5
	} else {
		info |= 1 << 0
	}
	if p.compression {
		info |= 1 << 2
	}
	if p.framePatching {
		info |= 1 << 3
	}
	if p.frameSkipping {
		info |= 1 << 4
	}
	return info
}

func boolByte(b bool) byte {
	if b {
		return 1
	}
	return 0
}
