package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/chew-z/crop-identifier/internal/config"
	"github.com/chew-z/crop-identifier/internal/identify"
	"github.com/chew-z/crop-identifier/internal/imagefile"
	"github.com/spf13/cobra"
)

var identifyCmd = &cobra.Command{
	Use:   "identify [image]",
	Short: "Identify the crop in an image file",
	Long: `Send a JPEG or PNG image to the model and print its answer.
JSON answers are indented, anything else is printed as is.`,
	Args: cobra.ExactArgs(1),
	Run:  runIdentify,
}

func init() {
	rootCmd.AddCommand(identifyCmd)

	identifyCmd.Flags().String("prompt", identify.DefaultPrompt, "Question to ask about the image")
	identifyCmd.Flags().StringP("model", "m", "", "Model label (see 'crop-identifier models'); empty selects the default")
	identifyCmd.Flags().BoolP("debug", "d", false, "Enable debug logging")
}

func runIdentify(cmd *cobra.Command, args []string) {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if debug, _ := cmd.Flags().GetBool("debug"); debug {
		cfg.Debug = true
	}
	setupLogging(cfg.Debug)

	if cfg.APIKey == "" {
		log.Fatal("API key is not configured. Please run 'crop-identifier config set api_key YOUR_API_KEY' or set GROQ_API_KEY environment variable.")
	}

	catalog, err := loadCatalog(cfg)
	if err != nil {
		log.Fatalf("Failed to load model catalog: %v", err)
	}

	prompt, _ := cmd.Flags().GetString("prompt")
	label, _ := cmd.Flags().GetString("model")
	modelID, ok := catalog.Resolve(label)
	if !ok {
		log.Fatalf("Unknown model '%s'. Run 'crop-identifier models' to list the choices.", label)
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		log.Fatalf("Failed to read image: %v", err)
	}
	if _, err := imagefile.Validate(data); err != nil {
		log.Fatalf("Invalid image %s: %v", args[0], err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	svc := identify.NewService(cfg, catalog)
	res, err := svc.Identify(ctx, identify.Request{
		Image:  data,
		Prompt: prompt,
		Model:  modelID,
	})
	if err != nil {
		log.Fatalf("❌ %v", err)
	}

	fmt.Println(identify.Pretty(res.Content))
}
