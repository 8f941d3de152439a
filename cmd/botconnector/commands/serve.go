package commands

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/genesys-ai/botconnector/internal/catalog"
	"github.com/genesys-ai/botconnector/internal/config"
	"github.com/genesys-ai/botconnector/internal/exchange"
	"github.com/genesys-ai/botconnector/internal/logging"
	"github.com/genesys-ai/botconnector/internal/provider"
	"github.com/genesys-ai/botconnector/internal/server"
	"github.com/genesys-ai/botconnector/internal/store"
)

var (
	servePort   int
	serveConfig string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the bot-connector HTTP server",
	Long: `Start the bot-connector as an HTTP server exposing the Genesys
bot-connector endpoints (/botconnector/messages, /botconnector/bots).`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "Port to listen on (overrides config)")
	serveCmd.Flags().StringVarP(&serveConfig, "config", "c", "", "Path to config file")
}

func runServe(cmd *cobra.Command, args []string) error {
	// Local .env values feed the env-override layer of the config loader.
	_ = godotenv.Load()

	workDir, err := os.Getwd()
	if err != nil {
		return err
	}

	cfg, err := config.Load(workDir, serveConfig)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if servePort != 0 {
		cfg.Port = servePort
	}

	level := cfg.LogLevel
	if logLevel != "" {
		level = logLevel
	}
	logging.Init(logging.Config{
		Level:  logging.ParseLevel(level),
		Pretty: prettyLogs || cfg.LogPretty,
	})

	logging.Info().Str("version", Version).Msg("starting botconnector server")

	st, err := store.New(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	cat, err := catalog.New(cfg.BotsConfigPath)
	if err != nil {
		return err
	}

	client := provider.NewClient(cfg.OpenAIBaseURL)
	svc := exchange.New(cfg, st, cat, client)

	serverConfig := server.DefaultConfig()
	serverConfig.Port = cfg.Port

	srv := server.New(serverConfig, cfg, svc, cat)

	errCh := make(chan error, 1)
	go func() {
		logging.Info().Int("port", cfg.Port).Msg("server listening")
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case <-quit:
	}

	logging.Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.Error().Err(err).Msg("server shutdown error")
		return err
	}

	logging.Info().Msg("server stopped")
	return nil
}
