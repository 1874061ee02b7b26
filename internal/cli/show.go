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
	showSector string
	showDate   string
)

// showCmd represents the show command
var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Print a stored brief as JSON",
	Long: `Show prints the stored brief for a sector and date without triggering
generation.

Example:
  sectorbrief show --sector defense
  sectorbrief show --sector pharma --date 2026-08-28`,
	RunE: runShow,
}

func init() {
	rootCmd.AddCommand(showCmd)

	showCmd.Flags().StringVar(&showSector, "sector", "defense", "sector to show (defense, pharma, energy)")
	showCmd.Flags().StringVar(&showDate, "date", "", "brief date (YYYY-MM-DD, default: today in the schedule time zone)")
}

func runShow(cmd *cobra.Command, args []string) error {
	sector, err := model.ParseSector(showSector)
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	date := showDate
	if date == "" {
		loc, err := time.LoadLocation(cfg.Schedule.TimeZone)
		if err != nil {
			return fmt.Errorf("load time zone: %w", err)
		}
		date = time.Now().In(loc).Format(model.DateLayout)
	} else if _, err := time.Parse(model.DateLayout, date); err != nil {
		return fmt.Errorf("invalid date %q: %w", date, err)
	}

	log := logger.New("error", cfg.Log.Format)
	st, err := store.Open(cfg.Database, log)
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	brief, err := st.GetDailyNews(ctx, date, sector)
	if err != nil {
		return err
	}
	if brief == nil {
		return fmt.Errorf("no brief stored for %s on %s", sector, date)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(brief)
}
