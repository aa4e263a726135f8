package cmd

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/talentgrid/assessment-recommender/internal/server"
)

const defaultListenAddr = ":8080"

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the recommendation engine over HTTP",
	Run: func(_ *cobra.Command, _ []string) {
		serve()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringP("listen", "l", "", "listen address, host:port (default :8080)")

	viper.BindPFlag("server.listen", serveCmd.Flags().Lookup("listen"))
}

func serve() {
	log := newLogger()

	config, err := getConfig()
	if err != nil {
		log.Fatal("getting a config", zap.Error(err))
	}

	log.Info("starting the assessment-recommender", zap.String("version", version))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	eng := newEngine(config, log)

	var aiConfig *AIConfig
	if config != nil {
		aiConfig = config.AI
	}

	explainer, err := newExplainer(ctx, aiConfig, log)
	if err != nil {
		log.Warn("serving without explanations", zap.Error(err))
	}

	srv := server.New(listenAddr(config), eng, explainer, log)

	if err := srv.Run(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal("http server failed", zap.Error(err))
	}

	log.Info("http server stopped")
}

func listenAddr(config *Config) string {
	if addr := viper.GetString("server.listen"); addr != "" {
		return addr
	}
	if config != nil && config.Server != nil && config.Server.Listen != "" {
		return config.Server.Listen
	}
	return defaultListenAddr
}
