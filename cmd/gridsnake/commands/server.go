package commands

import (
	"context"
	"net"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/battlesnakeio/gridsnake/api"
	"github.com/battlesnakeio/gridsnake/config"
	"github.com/battlesnakeio/gridsnake/controller"
	"github.com/battlesnakeio/gridsnake/controller/pb"
	"github.com/battlesnakeio/gridsnake/worker"
	grpcmiddleware "github.com/grpc-ecosystem/go-grpc-middleware"
	promgrpc "github.com/grpc-ecosystem/go-grpc-prometheus"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"google.golang.org/grpc"
)

var (
	serverListen       = ":3005"
	controllerListen   = "127.0.0.1:3004"
	workerThreads      = 10
	workerPollInterval = 250 * time.Millisecond
	tickInterval       = config.TickInterval
	tickBurst          = config.TickBurst
	maxTurns           = config.MaxTurns
	maxGridSize        = config.MaxGridSize
	frameBuffer        = config.FrameBuffer
	maxGames           = config.MaxGames
	maxConns           = config.MaxConns
	shutdownTimeout    = 5 * time.Second
)

func init() {
	serverCmd.Flags().StringVarP(&serverListen, "listen", "l", serverListen, "api address to listen on")
	serverCmd.Flags().StringVar(&controllerListen, "controller-listen", controllerListen, "address for the worker controller to bind to")
	serverCmd.Flags().IntVarP(&workerThreads, "threads", "t", workerThreads, "worker threads, this is the amount of concurrent games that can be run")
	serverCmd.Flags().DurationVarP(&workerPollInterval, "poll-interval", "p", workerPollInterval, "worker poll interval")
	serverCmd.Flags().DurationVar(&tickInterval, "tick", tickInterval, "default time between ticks")
	serverCmd.Flags().IntVar(&tickBurst, "tick-burst", tickBurst, "ticks that may run back to back after a stall")
	serverCmd.Flags().IntVar(&maxTurns, "max-turns", maxTurns, "stop games after this many turns, 0 means no limit")
	serverCmd.Flags().IntVar(&maxGridSize, "max-grid", maxGridSize, "largest grid side a game may request")
	serverCmd.Flags().IntVar(&frameBuffer, "frame-buffer", frameBuffer, "frames retained per game")
	serverCmd.Flags().IntVar(&maxGames, "max-games", maxGames, "games retained by the store")
	serverCmd.Flags().IntVar(&maxConns, "max-conns", maxConns, "concurrent api connections")
}

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "hosts autopilot games and streams them to renderers",
	Run: func(c *cobra.Command, args []string) {
		store := controller.InstrumentStore(controller.InMemStore(frameBuffer, maxGames))
		ctrl := controller.New(store, uint32(maxGridSize))

		ctrlSrv := controller.NewServer(store)
		go func() {
			log.WithField("listen", controllerListen).Info("gridsnake controller serving")
			if err := ctrlSrv.Serve(controllerListen); err != nil {
				log.WithError(err).
					WithField("listen", controllerListen).
					Fatal("controller failed to serve")
			}
		}()

		client, err := pb.Dial(ctrlSrv.DialAddress(), grpc.WithUnaryInterceptor(
			grpcmiddleware.ChainUnaryClient(promgrpc.UnaryClientInterceptor),
		))
		if err != nil {
			log.WithError(err).
				WithField("address", ctrlSrv.DialAddress()).
				Fatal("failed to dial controller")
		}

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		w := &worker.Worker{
			ControllerClient:  client,
			PollInterval:      workerPollInterval,
			HeartbeatInterval: controller.LockExpiry / 4,
			TickInterval:      tickInterval,
			TickBurst:         tickBurst,
			MaxTurns:          uint64(maxTurns),
			RunGame:           worker.Perform,
		}

		wg := &sync.WaitGroup{}
		wg.Add(workerThreads)
		for i := 0; i < workerThreads; i++ {
			go func(i int) {
				defer wg.Done()
				log.WithField("worker", i).Info("gridsnake worker starting")
				w.Run(ctx, i)
			}(i)
		}

		lis, err := net.Listen("tcp", serverListen)
		if err != nil {
			log.WithError(err).
				WithField("listen", serverListen).
				Fatal("failed to listen")
		}
		srv := api.New(serverListen, ctrl, maxConns)

		go func() {
			sigs := make(chan os.Signal, 1)
			signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)
			<-sigs
			log.Info("shutting down")
			cancel()
			sctx, scancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer scancel()
			if err := srv.Shutdown(sctx); err != nil {
				log.WithError(err).Warn("api shutdown failed")
			}
		}()

		if err := srv.Serve(lis); err != nil {
			log.WithError(err).
				WithField("listen", serverListen).
				Fatal("api server failed")
		}
		wg.Wait()
		ctrlSrv.Stop()
	},
}
