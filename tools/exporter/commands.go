package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/apex/log"
	"github.com/spf13/cobra"

	"ecowatch/config"
	"ecowatch/database"
	"ecowatch/export"
	"ecowatch/models"
	"ecowatch/seed"
)

type options struct {
	outDir        string
	officialsFrom string
}

type exportFunc func(reports []models.PollutionReport) ([]byte, error)

var exports = []struct {
	use      string
	short    string
	filename string
	build    exportFunc
}{
	{"csv", "Household weekly usage as CSV", export.HouseholdUsageFilename, func([]models.PollutionReport) ([]byte, error) {
		return export.HouseholdUsageCSV(seed.WeeklyUsage())
	}},
	{"json", "Community dashboard data as JSON", export.CommunityDataFilename, func([]models.PollutionReport) ([]byte, error) {
		return export.CommunityJSON(seed.CommunityData())
	}},
	{"xlsx", "Usage and pollution reports workbook", export.WorkbookFilename, func(reports []models.PollutionReport) ([]byte, error) {
		return export.Workbook(seed.WeeklyUsage(), reports)
	}},
	{"geojson", "Pollution reports as a GeoJSON FeatureCollection", export.ReportsGeoJSONFilename, export.ReportsGeoJSON},
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "exporter",
		Short: "Write ecowatch dashboard exports to disk",
		Long: `Write ecowatch dashboard exports to disk.

Available exports:
  csv       - household_weekly_usage.csv
  json      - community_data.json
  xlsx      - ecowatch_reports.xlsx
  geojson   - pollution_reports.geojson
  all       - every export above`,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVarP(&opts.outDir, "out", "o", ".", "output directory")
	root.PersistentFlags().StringVar(&opts.officialsFrom, "officials", "seed", "officials directory source: seed or db")

	for _, e := range exports {
		e := e
		root.AddCommand(&cobra.Command{
			Use:   e.use,
			Short: e.short,
			RunE: func(cmd *cobra.Command, args []string) error {
				path, err := write(opts, e.filename, e.build)
				if err != nil {
					return err
				}
				cmd.Printf("wrote %s\n", path)
				return nil
			},
		})
	}

	root.AddCommand(&cobra.Command{
		Use:   "all",
		Short: "Write every export",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, e := range exports {
				path, err := write(opts, e.filename, e.build)
				if err != nil {
					return err
				}
				cmd.Printf("wrote %s\n", path)
			}
			return nil
		},
	})
	return root
}

func officials(opts *options) ([]models.Official, error) {
	switch opts.officialsFrom {
	case "", "seed":
		return seed.Officials(), nil
	case "db":
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return database.LoadOfficials(ctx, config.Load(), seed.Officials()), nil
	default:
		return nil, fmt.Errorf("unknown officials source %q", opts.officialsFrom)
	}
}

func write(opts *options, filename string, build exportFunc) (string, error) {
	dir, err := officials(opts)
	if err != nil {
		return "", err
	}
	data, err := build(seed.Reports(dir))
	if err != nil {
		return "", fmt.Errorf("build %s: %w", filename, err)
	}
	if err := os.MkdirAll(opts.outDir, 0o755); err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}
	path := filepath.Join(opts.outDir, filename)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	log.Infof("Wrote %d bytes to %s", len(data), path)
	return path, nil
}
