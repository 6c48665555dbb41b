package commands

import (
	"fmt"
	"net/http"
	"os"

	"github.com/battlesnakeio/gridsnake/controller/pb"
	"github.com/davecgh/go-spew/spew"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "gets the status of a game from a gridsnake server",
	Args: func(c *cobra.Command, args []string) error {
		if len(gameID) == 0 {
			return errors.New("game id is required")
		}
		return nil
	},
	Run: func(*cobra.Command, []string) {
		s, err := getStatus(gameID)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		spew.Dump(s)
	},
}

var (
	gameID string
)

func init() {
	statusCmd.Flags().StringVarP(&gameID, "game-id", "g", "", "the game id of the game to get the status of")
}

func getStatus(id string) (*pb.StatusResponse, error) {
	sr := &pb.StatusResponse{}
	if err := apiCall(http.MethodGet, "/games/"+id, nil, sr); err != nil {
		return nil, err
	}
	return sr, nil
}
