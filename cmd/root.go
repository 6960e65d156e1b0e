package cmd

import (
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/chew-z/crop-identifier/internal/config"
	"github.com/chew-z/crop-identifier/internal/models"
	"github.com/chew-z/crop-identifier/internal/server"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "crop-identifier",
	Short: "Identify crops in photos with a multimodal chat-completion model",
	Long: `Crop Identifier uploads a crop photo together with a question to a
multimodal chat-completion API (Groq by default) and shows the model's answer,
usually JSON such as {"croptype": "mango"}.

Run 'crop-identifier serve' for the web page or 'crop-identifier identify' from the terminal.`,
	Version: server.Version,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if err := config.LoadDotEnv(); err != nil {
			log.Printf("Warning: %v", err)
		}
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// setupLogging configures the default slog logger
func setupLogging(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

// loadCatalog returns the configured model catalog, falling back to the built-in one
func loadCatalog(cfg *config.Config) (*models.Catalog, error) {
	if cfg.ModelsFile == "" {
		return models.Default(), nil
	}
	return models.LoadCatalog(cfg.ModelsFile)
}
