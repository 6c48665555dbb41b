package api

import (
	"context"
	"net/http"
	"time"

	"github.com/battlesnakeio/gridsnake/controller/pb"
	"github.com/battlesnakeio/gridsnake/rules"
	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
	log "github.com/sirupsen/logrus"
)

const writeWait = 5 * time.Second

// socket streams a game: one snapshot frame, then every tick frame as it is
// produced, then a normal close once the game ends. A stream the store drops
// while the game is still running closes with try again later.
func (s *Server) socket(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")
	enc, err := pb.ParseEncoding(r.URL.Query().Get("encoding"))
	if err != nil {
		writeError(w, err, http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	snapshot, frames, err := s.controller.Watch(ctx, id)
	if err != nil {
		writeError(w, err, errorStatus(err))
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.WithError(err).WithField("GameID", id).Warn("websocket upgrade failed")
		return
	}
	defer conn.Close()

	// Control frames are only processed while reading; a read error means
	// the client went away.
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.NextReader(); err != nil {
				return
			}
		}
	}()

	entry := log.WithField("GameID", id)
	if err := writeFrame(conn, snapshot, enc); err != nil {
		entry.WithError(err).Debug("socket write failed")
		return
	}
	halted := snapshot.Halted
	for f := range frames {
		if err := writeFrame(conn, f, enc); err != nil {
			entry.WithError(err).Debug("socket write failed")
			return
		}
		halted = halted || f.Halted
	}

	code, reason := websocket.CloseNormalClosure, ""
	if !halted && s.stillRunning(id) {
		code, reason = websocket.CloseTryAgainLater, "stream dropped"
		entry.Info("frame stream dropped while game is running")
	}
	msg := websocket.FormatCloseMessage(code, reason)
	if err := conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait)); err != nil {
		entry.WithError(err).Debug("socket close failed")
	}
}

// stillRunning reports whether a game is running, which means its frame
// stream was cut short by the store.
func (s *Server) stillRunning(id string) bool {
	game, err := s.controller.Store.GetGame(context.Background(), id)
	return err == nil && game.Status == string(rules.GameStatusRunning)
}

func writeFrame(conn *websocket.Conn, f *pb.Frame, enc pb.Encoding) error {
	data, err := pb.EncodeFrame(f, enc)
	if err != nil {
		return err
	}
	msgType := websocket.TextMessage
	if enc == pb.EncodingProto {
		msgType = websocket.BinaryMessage
	}
	if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return conn.WriteMessage(msgType, data)
}
