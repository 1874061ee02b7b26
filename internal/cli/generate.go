package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"sectorbrief/internal/logger"
	"sectorbrief/internal/model"
	"sectorbrief/internal/store"
)

var (
	generateSector  string
	generateTimeout time.Duration
)

// generateCmd represents the generate command
var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate and store today's brief for a sector, bypassing the schedule",
	Long: `Generate runs one synthesis cycle immediately. The generation guard still
applies, and the result replaces any brief already stored for today.

Example:
  sectorbrief generate --sector defense
  sectorbrief generate --sector energy --timeout 3m`,
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().StringVar(&generateSector, "sector", "defense", "sector to generate (defense, pharma, energy)")
	generateCmd.Flags().DurationVar(&generateTimeout, "timeout", 5*time.Minute, "overall generation timeout")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	sector, err := model.ParseSector(generateSector)
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	log := logger.New(cfg.Log.Level, cfg.Log.Format)
	defer func() { _ = log.Sync() }()

	ctx, cancel := context.WithTimeout(context.Background(), generateTimeout)
	defer cancel()

	st, err := store.Open(cfg.Database, log)
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	if err := st.Migrate(ctx); err != nil {
		return err
	}

	gen, err := buildGenerator(cfg, st, log)
	if err != nil {
		return err
	}

	brief, err := gen.Generate(ctx, sector)
	if err != nil {
		return fmt.Errorf("generate %s brief: %w", sector, err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(brief)
}
