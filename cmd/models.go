package cmd

import (
	"fmt"
	"log"
	"os"
	"text/tabwriter"

	"github.com/chew-z/crop-identifier/internal/config"
	"github.com/spf13/cobra"
)

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List selectable models",
	Run:   runModels,
}

func init() {
	rootCmd.AddCommand(modelsCmd)
}

func runModels(cmd *cobra.Command, args []string) {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	catalog, err := loadCatalog(cfg)
	if err != nil {
		log.Fatalf("Failed to load model catalog: %v", err)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "LABEL\tMODEL ID")
	for _, m := range catalog.Models() {
		fmt.Fprintf(w, "%s\t%s\n", m.Label, m.ID)
	}
	w.Flush()
}
