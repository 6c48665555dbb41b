package commands

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/battlesnakeio/gridsnake/api"
	"github.com/battlesnakeio/gridsnake/controller"
	"github.com/battlesnakeio/gridsnake/controller/pb"
	"github.com/battlesnakeio/gridsnake/rules"
	"github.com/gorilla/websocket"
	termbox "github.com/nsf/termbox-go"
	"github.com/stretchr/testify/require"
)

func TestKeyDirection(t *testing.T) {
	tests := []struct {
		ev  termbox.Event
		dir rules.Direction
		ok  bool
	}{
		{termbox.Event{Key: termbox.KeyArrowUp}, rules.DirectionUp, true},
		{termbox.Event{Key: termbox.KeyArrowDown}, rules.DirectionDown, true},
		{termbox.Event{Key: termbox.KeyArrowLeft}, rules.DirectionLeft, true},
		{termbox.Event{Key: termbox.KeyArrowRight}, rules.DirectionRight, true},
		{termbox.Event{Ch: 'w'}, rules.DirectionUp, true},
		{termbox.Event{Ch: 'j'}, rules.DirectionDown, true},
		{termbox.Event{Ch: 'a'}, rules.DirectionLeft, true},
		{termbox.Event{Ch: 'l'}, rules.DirectionRight, true},
		{termbox.Event{Ch: 'x'}, rules.DirectionUp, false},
	}
	for _, test := range tests {
		dir, ok := keyDirection(test.ev)
		require.Equal(t, test.ok, ok, "%+v", test.ev)
		if ok {
			require.Equal(t, test.dir, dir)
		}
	}
}

func TestSocketURL(t *testing.T) {
	u, err := socketURL("http://localhost:3005", "abc")
	require.NoError(t, err)
	require.Equal(t, "ws://localhost:3005/socket/abc?encoding=proto", u)

	u, err = socketURL("https://snake.example.com/", "abc")
	require.NoError(t, err)
	require.Equal(t, "wss://snake.example.com/socket/abc?encoding=proto", u)
}

func TestSimulateJSONFrames(t *testing.T) {
	defer func(w, h, turns int, seed int64, frames bool) {
		simWidth, simHeight, simMaxTurns, simSeed, simFrames = w, h, turns, seed, frames
	}(simWidth, simHeight, simMaxTurns, simSeed, simFrames)
	simWidth, simHeight, simMaxTurns, simSeed, simFrames = 10, 8, 200, 7, true

	out := &bytes.Buffer{}
	res, err := simulate(context.Background(), out)
	require.NoError(t, err)
	require.NotEmpty(t, res.HaltCause)

	var frames []*pb.Frame
	scanner := bufio.NewScanner(out)
	for scanner.Scan() {
		f := &pb.Frame{}
		require.NoError(t, json.Unmarshal(scanner.Bytes(), f))
		require.NoError(t, f.Validate())
		frames = append(frames, f)
	}
	require.NoError(t, scanner.Err())
	require.True(t, len(frames) >= 2)
	require.True(t, frames[0].Snapshot)
	last := frames[len(frames)-1]
	require.True(t, last.Halted)
	require.Equal(t, res.Score, last.Score)
	require.Equal(t, res.Turns, last.Turn)
	require.Equal(t, int(res.Turns), len(frames)-2)
}

func TestSimulateSummaryOnly(t *testing.T) {
	defer func(turns int, frames bool) {
		simMaxTurns, simFrames = turns, frames
	}(simMaxTurns, simFrames)
	simMaxTurns, simFrames = 50, false

	out := &bytes.Buffer{}
	res, err := simulate(context.Background(), out)
	require.NoError(t, err)
	require.True(t, res.Turns <= 50)
	require.Empty(t, out.String())
}

func TestCreateAndStatus(t *testing.T) {
	c := controller.New(controller.InMemStore(0, 0), 64)
	srv := httptest.NewServer(api.New(":0", c, 0).Handler())
	defer srv.Close()

	defer func(addr string) { apiAddr = addr }(apiAddr)
	apiAddr = srv.URL

	game, err := createGame(&pb.CreateRequest{Width: 12, Height: 10, Seed: 9})
	require.NoError(t, err)
	require.NotEmpty(t, game.ID)

	s, err := getStatus(game.ID)
	require.NoError(t, err)
	require.Equal(t, game.ID, s.Game.ID)
	require.Equal(t, uint32(12), s.Game.Width)

	_, err = getStatus("missing")
	require.Error(t, err)

	_, err = createGame(&pb.CreateRequest{Width: 1000})
	require.Error(t, err)
}

// closingSocket sends one proto frame and then closes with code.
func closingSocket(t *testing.T, code int) *httptest.Server {
	upgrader := websocket.Upgrader{}
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		data, err := pb.EncodeFrame(&pb.Frame{Turn: 4, Snapshot: true}, pb.EncodingProto)
		if err != nil {
			return
		}
		if err := conn.WriteMessage(websocket.BinaryMessage, data); err != nil {
			return
		}
		msg := websocket.FormatCloseMessage(code, "")
		_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
		_, _, _ = conn.ReadMessage()
	}))
}

func TestStreamFramesClose(t *testing.T) {
	tests := []struct {
		code    int
		wantErr bool
	}{
		{websocket.CloseNormalClosure, false},
		{websocket.CloseTryAgainLater, true},
	}
	for _, test := range tests {
		srv := closingSocket(t, test.code)
		conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
		require.NoError(t, err)

		frames, errc := streamFrames(conn)
		f, ok := <-frames
		require.True(t, ok)
		require.Equal(t, uint64(4), f.Turn)
		_, ok = <-frames
		require.False(t, ok)

		err = <-errc
		if test.wantErr {
			require.True(t, websocket.IsCloseError(err, test.code), "%v", err)
		} else {
			require.NoError(t, err)
		}
		conn.Close()
		srv.Close()
	}
}
