// Package e2e drives a full in process server over its http api.
package e2e

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/battlesnakeio/gridsnake/controller/pb"
	"github.com/battlesnakeio/gridsnake/rules"
)

type client struct {
	apiURL string
	client *http.Client
}

func (c *client) beginGame(cr *pb.CreateRequest) (string, error) {
	data, err := json.Marshal(cr)
	if err != nil {
		return "", err
	}
	buf := bytes.NewBuffer(data)
	resp, err := c.client.Post(fmt.Sprintf("%s/games", c.apiURL), "application/json", buf)
	if err != nil {
		return "", err
	}
	game := &pb.Game{}
	err = json.NewDecoder(resp.Body).Decode(game)
	if cErr := resp.Body.Close(); cErr != nil {
		return "", cErr
	}
	if err != nil {
		return "", err
	}
	return game.ID, nil
}

func (c *client) get(path string, v interface{}) error {
	resp, err := c.client.Get(c.apiURL + path)
	if err != nil {
		return err
	}
	err = json.NewDecoder(resp.Body).Decode(v)
	if cErr := resp.Body.Close(); cErr != nil {
		return cErr
	}
	return err
}

func (c *client) gameStatus(gameID string) (*pb.StatusResponse, *pb.ListGameFramesResponse, error) {
	st := &pb.StatusResponse{}
	frames := &pb.ListGameFramesResponse{}
	if err := c.get(fmt.Sprintf("/games/%s", gameID), st); err != nil {
		return nil, nil, err
	}
	if err := c.get(fmt.Sprintf("/games/%s/frames?limit=1000", gameID), frames); err != nil {
		return nil, nil, err
	}
	return st, frames, nil
}

func (c *client) snapshot(gameID string) (*pb.Frame, error) {
	f := &pb.Frame{}
	return f, c.get(fmt.Sprintf("/games/%s/snapshot", gameID), f)
}

// replay applies frames the way a renderer does and returns the painted
// cells keyed by point.
func replay(frames []*pb.Frame) (map[rules.Point]rules.Cell, error) {
	cells := map[rules.Point]rules.Cell{}
	for _, f := range frames {
		d, err := rules.DiffFromFrame(f)
		if err != nil {
			return nil, err
		}
		if d.Snapshot {
			cells = map[rules.Point]rules.Cell{}
		}
		for _, ch := range d.Changes {
			if ch.Cell == rules.CellEmpty {
				delete(cells, ch.Point)
				continue
			}
			cells[ch.Point] = ch.Cell
		}
	}
	return cells, nil
}
