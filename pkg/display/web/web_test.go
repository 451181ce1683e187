package web

import (
	"context"
	"encoding/binary"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thelolagemann/go-invaders/internal/io"
	"github.com/thelolagemann/go-invaders/pkg/log"
)

func TestCache(t *testing.T) {
	c := newCache(2)
	assert.Equal(t, -1, c.index(0), "empty entries never match")

	assert.Equal(t, 0, c.add(1, []byte{1}))
	assert.Equal(t, 1, c.add(2, []byte{2, 2}))
	assert.Equal(t, 1, c.index(2))

	assert.Equal(t, 0, c.add(3, []byte{3}), "oldest entry is replaced")
	assert.Equal(t, -1, c.index(1))

	sync := c.sync()
	assert.Equal(t, uint32(1), binary.LittleEndian.Uint32(sync))
	assert.Equal(t, uint16(0), binary.LittleEndian.Uint16(sync[4:]))
	assert.Equal(t, byte(3), sync[6])
	assert.Len(t, sync, 2*6+3)
}

func frame(fill byte, changed int) []byte {
	fb := make([]byte, pixels*3)
	for i := 0; i < changed*3; i++ {
		fb[i] = fill
	}
	return fb
}

func uncompressed() *player {
	p := newPlayer()
	p.compression = false
	return p
}

func TestPlayer_Encode(t *testing.T) {
	t.Run("full frame then cache", func(t *testing.T) {
		p := uncompressed()
		p.framePatching = false
		p.frameSkipping = false

		msgs, err := p.encode(frame(0xFF, pixels))
		require.NoError(t, err)
		require.Len(t, msgs, 1)
		assert.Equal(t, Frame, msgs[0][0])
		assert.Equal(t, uint16(0), binary.LittleEndian.Uint16(msgs[0][1:]))
		assert.Len(t, msgs[0], 3+pixels*4)

		msgs, err = p.encode(frame(0xFF, pixels))
		require.NoError(t, err)
		require.Len(t, msgs, 1)
		assert.Equal(t, []byte{FrameCache, 0, 0}, msgs[0])
	})
	t.Run("patch", func(t *testing.T) {
		p := uncompressed()
		_, err := p.encode(frame(0, 0))
		require.NoError(t, err)

		msgs, err := p.encode(frame(0xFF, 10))
		require.NoError(t, err)
		require.Len(t, msgs, 1)
		assert.Equal(t, FramePatch, msgs[0][0])
		patch := msgs[0][3:]
		assert.Equal(t, []byte{0xFF, 0xFF, 0xFF, 0xFF}, patch[:4])
		assert.Equal(t, []byte{0, 0, 0, 0}, patch[10*4:10*4+4], "unchanged pixels are left empty")
	})
	t.Run("skipping", func(t *testing.T) {
		p := uncompressed()
		_, err := p.encode(frame(0, 0))
		require.NoError(t, err)

		for i := 0; i < 3; i++ {
			msgs, err := p.encode(frame(0, 0))
			require.NoError(t, err)
			assert.Nil(t, msgs)
		}

		msgs, err := p.encode(frame(0xFF, pixels))
		require.NoError(t, err)
		require.Len(t, msgs, 2)
		assert.Equal(t, []byte{FrameSkip, 3, 0, 0, 0}, msgs[0])
		assert.Equal(t, Frame, msgs[1][0])
	})
}

func TestPlayer_Set(t *testing.T) {
	p := newPlayer()
	p.frameCache.add(1, []byte{1})

	assert.True(t, p.set(FrameSkipping, 0))
	assert.False(t, p.frameSkipping)
	assert.Equal(t, -1, p.frameCache.index(1), "caches are dropped")

	assert.True(t, p.set(CompressionLevel, 99))
	assert.Equal(t, 11, p.compressionLevel)
	assert.False(t, p.set(KeepAlive, 1))

	assert.Equal(t, byte(1<<0|1<<2|1<<3), p.info(false))
	assert.Equal(t, byte(1<<5|1<<2|1<<3), p.info(true))
}

func dial(t *testing.T, url string) *websocket.Conn {
	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(url, "http"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

// readUntil reads messages until one of type typ arrives.
func readUntil(t *testing.T, conn *websocket.Conn, typ Type) []byte {
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	for {
		_, msg, err := conn.ReadMessage()
		require.NoError(t, err)
		if len(msg) > 0 && msg[0] == typ {
			return msg
		}
	}
}

func TestHub(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	h := newHub(log.NewNullLogger())
	inputs := make(chan []byte, 1)
	h.onInput = func(msg []byte) { inputs <- msg }
	go h.run(ctx)

	srv := httptest.NewServer(h)
	defer srv.Close()

	first := dial(t, srv.URL)
	status := readUntil(t, first, ClientInfo)
	assert.Equal(t, ClientStatus, status[1])
	readUntil(t, first, FrameSync)
	assert.Equal(t, []byte{PlayerIdentify, 1}, readUntil(t, first, PlayerIdentify))

	second := dial(t, srv.URL)
	readUntil(t, second, ClientListSync)
	readUntil(t, first, ClientListNew)

	// only the first client controls the cabinet
	require.NoError(t, second.WriteMessage(websocket.BinaryMessage, []byte{InputMessage, io.ButtonCoin, 1}))
	require.NoError(t, first.WriteMessage(websocket.BinaryMessage, []byte{InputMessage, io.ButtonP1Start, 1}))
	select {
	case msg := <-inputs:
		assert.Equal(t, []byte{InputMessage, io.ButtonP1Start, 1}, msg)
	case <-time.After(5 * time.Second):
		t.Fatal("no input forwarded")
	}

	// control passes on when the player leaves
	require.NoError(t, first.WriteMessage(websocket.BinaryMessage, []byte{CloseMessage}))
	assert.Equal(t, []byte{PlayerIdentify, 1}, readUntil(t, second, PlayerIdentify))
}

func TestWebDriver_HandleInput(t *testing.T) {
	w := &webDriver{}
	pressed, released := make(chan io.Button, 1), make(chan io.Button, 1)

	w.handleInput([]byte{InputMessage, io.ButtonP1Shoot, 1}, pressed, released)
	assert.Equal(t, io.ButtonP1Shoot, <-pressed)
	w.handleInput([]byte{InputMessage, io.ButtonP1Shoot, 0}, pressed, released)
	assert.Equal(t, io.ButtonP1Shoot, <-released)

	w.handleInput([]byte{InputMessage, 0xFF, 1}, pressed, released)
	w.handleInput([]byte{InputMessage}, pressed, released)
	assert.Empty(t, pressed)
	assert.Empty(t, released)
}
