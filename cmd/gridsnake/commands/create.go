package commands

import (
	"fmt"
	"net/http"
	"os"

	"github.com/battlesnakeio/gridsnake/controller/pb"
	"github.com/spf13/cobra"
)

var cr = &pb.CreateRequest{}

func init() {
	createCmd.Flags().Uint32Var(&cr.Width, "width", 0, "grid width, 0 uses the default")
	createCmd.Flags().Uint32Var(&cr.Height, "height", 0, "grid height, 0 uses the default")
	createCmd.Flags().Int64Var(&cr.Seed, "seed", 0, "food placement seed, 0 picks one")
	createCmd.Flags().Uint32Var(&cr.TickMS, "tick-ms", 0, "milliseconds between ticks, 0 uses the server default")
}

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "creates a new autopilot game on a gridsnake server",
	Run: func(*cobra.Command, []string) {
		game, err := createGame(cr)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		fmt.Printf(`{"ID": "%s"}`+"\n", game.ID)
	},
}

func createGame(req *pb.CreateRequest) (*pb.Game, error) {
	game := &pb.Game{}
	if err := apiCall(http.MethodPost, "/games", req, game); err != nil {
		return nil, err
	}
	return game, nil
}
