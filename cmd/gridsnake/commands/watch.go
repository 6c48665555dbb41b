package commands

import (
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/battlesnakeio/gridsnake/controller/pb"
	"github.com/gorilla/websocket"
	termbox "github.com/nsf/termbox-go"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func init() {
	watchCmd.Flags().StringVarP(&gameID, "game-id", "g", "", "the game id of the game to watch")
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "watches a hosted game live in the terminal",
	Args: func(c *cobra.Command, args []string) error {
		if len(gameID) == 0 {
			return errors.New("game id is required")
		}
		return nil
	},
	Run: func(*cobra.Command, []string) {
		if err := watchGame(gameID); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

// socketURL turns the api address into the websocket address of a game.
func socketURL(addr, id string) (string, error) {
	u, err := url.Parse(addr)
	if err != nil {
		return "", errors.Wrapf(err, "parse api address %s", addr)
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	u.Path = strings.TrimSuffix(u.Path, "/") + "/socket/" + id
	u.RawQuery = url.Values{"encoding": {string(pb.EncodingProto)}}.Encode()
	return u.String(), nil
}

// streamFrames reads frames off the socket until it closes. errc receives
// nil on a normal close.
func streamFrames(c *websocket.Conn) (<-chan *pb.Frame, <-chan error) {
	frames := make(chan *pb.Frame)
	errc := make(chan error, 1)
	go func() {
		defer close(frames)
		for {
			mt, message, err := c.ReadMessage()
			if err != nil {
				if websocket.IsCloseError(err, websocket.CloseNormalClosure) {
					err = nil
				}
				errc <- err
				return
			}

			enc := pb.EncodingProto
			if mt == websocket.TextMessage {
				enc = pb.EncodingJSON
			}
			frame, err := pb.DecodeFrame(message, enc)
			if err != nil {
				errc <- errors.Wrap(err, "decode frame")
				return
			}
			frames <- frame
		}
	}()
	return frames, errc
}

func watchGame(id string) error {
	status, err := getStatus(id)
	if err != nil {
		return err
	}
	game := status.Game

	u, err := socketURL(apiAddr, id)
	if err != nil {
		return err
	}
	c, _, err := websocket.DefaultDialer.Dial(u, nil)
	if err != nil {
		return errors.Wrapf(err, "dial %s", u)
	}
	defer func() {
		if err := c.Close(); err != nil {
			log.WithError(err).Debug("failure to close websocket connection")
		}
	}()

	// Log lines would draw over the board.
	log.SetLevel(log.ErrorLevel)

	if err = termbox.Init(); err != nil {
		return errors.Wrap(err, "init terminal")
	}
	defer termbox.Close()

	scr := newScreen(fmt.Sprintf("Gridsnake %s", game.ID), game.Width, game.Height)
	if !scr.fits() {
		return errors.Errorf("terminal too small for a %dx%d grid", game.Width, game.Height)
	}
	if err = scr.drawBoard(); err != nil {
		return err
	}

	events := setupEventQueue()
	frames, errc := streamFrames(c)
	var last *pb.Frame
	for {
		select {
		case ev := <-events:
			if ev.Type == termbox.EventKey && (ev.Key == termbox.KeyEsc || ev.Ch == 'q') {
				return nil
			}
		case f, ok := <-frames:
			if !ok {
				msg := "Stream ended. Press esc to exit..."
				if last != nil && last.Halted {
					msg = fmt.Sprintf("Game over: %s. Press esc to exit...", last.HaltCause)
				}
				if err := <-errc; err != nil {
					msg = fmt.Sprintf("Disconnected: %v. Press esc to exit...", err)
				}
				scr.message(msg)
				if err := termbox.Flush(); err != nil {
					return err
				}
				waitForExit(events)
				return nil
			}
			last = f
			if err := scr.apply(f); err != nil {
				return err
			}
		}
	}
}
