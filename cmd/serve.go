package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Tameem1/quran-chatbot/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP question-answering server",
	Long:  `Starts an HTTP server exposing the answering pipeline: POST /ask, POST /ask/stream, and a WebSocket at /ws for stage-by-stage progress.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		if port, _ := cmd.Flags().GetInt("port"); port != 0 {
			cfg.Server.Port = port
		}

		p, store, err := buildPipeline(cfg)
		if err != nil {
			return err
		}
		defer store.Close()

		srv := server.New(server.Config{
			Port:     cfg.Server.Port,
			AllowAll: cfg.Server.CORSAllowAll,
		}, p, store)

		if err := srv.Start(); err != nil {
			return fmt.Errorf("server: %w", err)
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().IntP("port", "p", 0, "override the configured port")
	rootCmd.AddCommand(serveCmd)
}
