package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coreman2200/funtimes-ledmatrix/board"
	"github.com/coreman2200/funtimes-ledmatrix/bus"
	"github.com/coreman2200/funtimes-ledmatrix/is31fl3731"
)

func newServer(t *testing.T, kind board.Kind) (*Server, *bus.Sim, *httptest.Server) {
	t.Helper()
	sim := bus.NewSim(kind.DefaultAddress())
	disp, err := board.Open(sim, kind, 0)
	require.NoError(t, err)
	require.NoError(t, disp.Device().Setup(context.Background(), is31fl3731.DelayFunc(func(time.Duration) {})))
	s := New(disp, "sim", zerolog.Nop())
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return s, sim, ts
}

func dial(t *testing.T, ts *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/control"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func roundTrip(t *testing.T, conn *websocket.Conn, msg string) Reply {
	t.Helper()
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(msg)))
	var rep Reply
	require.NoError(t, conn.ReadJSON(&rep))
	return rep
}

func TestControlPixel(t *testing.T) {
	_, sim, ts := newServer(t, board.Matrix)
	conn := dial(t, ts)

	rep := roundTrip(t, conn, `{"id":7,"op":"pixel","x":1,"y":2,"value":200}`)
	assert.True(t, rep.OK)
	assert.Equal(t, 7, rep.ID)
	assert.Nil(t, rep.Diag)
	assert.Equal(t, byte(200), sim.Frame(0)[1+2*16])
	assert.Equal(t, byte(200), sim.Visible()[1+2*16])
}

func TestControlErrors(t *testing.T) {
	_, sim, ts := newServer(t, board.Matrix)
	conn := dial(t, ts)
	before := sim.Writes()

	cases := []struct {
		msg  string
		code string
	}{
		{`{"op":"pixel","x":16,"y":0,"value":1}`, "LOCATION.INVALID"},
		{`{"op":"rgb","x":0,"y":0,"r":1}`, "BOARD.MONO"},
		{`{"op":"mode","mode":"strobe"}`, "REQ.VALUE"},
		{`{"op":"fill","frame":9}`, "LOCATION.INVALID"},
		{`{"op":"dance"}`, "REQ.UNKNOWN_OP"},
		{`{"op":`, "REQ.BAD_JSON"},
	}
	for _, c := range cases {
		rep := roundTrip(t, conn, c.msg)
		assert.False(t, rep.OK, c.msg)
		require.NotNil(t, rep.Diag, c.msg)
		assert.Equal(t, c.code, rep.Diag.Code, c.msg)
	}
	assert.Equal(t, before, sim.Writes(), "rejected requests reach the bus")
}

func TestControlFrameAndFill(t *testing.T) {
	_, sim, ts := newServer(t, board.Matrix)
	conn := dial(t, ts)

	rep := roundTrip(t, conn, `{"op":"frame","frame":3}`)
	require.True(t, rep.OK)
	assert.Equal(t, uint8(3), rep.Frame)
	assert.Equal(t, uint8(3), sim.Displayed())

	rep = roundTrip(t, conn, `{"op":"fill","value":9,"blink":"on"}`)
	require.True(t, rep.OK)
	for _, v := range sim.Frame(3) {
		assert.Equal(t, byte(9), v)
	}
	assert.True(t, sim.Blinking(3, 143))

	rep = roundTrip(t, conn, `{"op":"clear"}`)
	require.True(t, rep.OK)
	assert.Zero(t, sim.Visible()[0])

	rep = roundTrip(t, conn, `{"op":"sleep","asleep":true}`)
	require.True(t, rep.OK)
	assert.True(t, sim.Shutdown())
}

func TestControlRGB(t *testing.T) {
	_, sim, ts := newServer(t, board.RGBMatrix5x5)
	conn := dial(t, ts)

	rep := roundTrip(t, conn, `{"op":"rgb","x":0,"y":0,"r":10,"g":20,"b":30}`)
	require.True(t, rep.OK)
	regs := sim.Frame(0)
	for ch, want := range []byte{10, 20, 30} {
		led, err := board.RGBMatrix5x5.Translate(0, uint8(ch))
		require.NoError(t, err)
		assert.Equal(t, want, regs[led])
	}

	rep = roundTrip(t, conn, `{"op":"pixel","x":0,"y":0,"value":1}`)
	require.NotNil(t, rep.Diag)
	assert.Equal(t, "BOARD.RGB", rep.Diag.Code)
}

func TestApplyLEDs(t *testing.T) {
	s, sim, _ := newServer(t, board.Matrix)
	rep := s.Apply(context.Background(), Request{Op: "leds", LEDs: []uint8{1, 2, 3}})
	require.True(t, rep.OK)
	regs := sim.Frame(0)
	assert.Equal(t, []byte{1, 2, 3, 0}, regs[:4])

	rep = s.Apply(context.Background(), Request{Op: "leds", LEDs: make([]uint8, 145)})
	assert.False(t, rep.OK)
}

func TestHealth(t *testing.T) {
	s, _, ts := newServer(t, board.ScrollPhatHD)
	s.Apply(context.Background(), Request{Op: "nope"})

	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))

	var h map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&h))
	assert.Equal(t, "scroll-phat-hd", h["board"])
	assert.Equal(t, "sim", h["driver"])
	assert.EqualValues(t, 1, h["ops"])
	assert.EqualValues(t, 1, h["failures"])
	assert.EqualValues(t, 0x74, h["address"])
}
