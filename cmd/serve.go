package cmd

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/cv-tailor/internal/logger"
	"github.com/spigell/cv-tailor/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the workflow over HTTP with a browser UI",
	Run: func(_ *cobra.Command, _ []string) {
		serve()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("addr", server.DefaultAddr, "address to listen on")

	viper.BindPFlag("server.addr", serveCmd.Flags().Lookup("addr"))
}

func serve() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	lg, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}
	defer logger.Sync(lg)

	config, err := getConfig()
	if err != nil {
		lg.Fatal("getting a config", zap.Error(err))
	}

	lg.Info("starting the cv-tailor server", zap.String("version", version))

	controller, err := newController(ctx, config, lg)
	if err != nil {
		lg.Fatal("building the workflow", zap.Error(err))
	}

	srv := server.New(controller, server.Config{
		Addr:           config.Server.Addr,
		AllowedOrigins: config.Server.AllowedOrigins,
	}, lg)

	if err := srv.Run(ctx); err != nil {
		lg.Fatal("server stopped", zap.Error(err))
	}

	lg.Info("server stopped")
}
