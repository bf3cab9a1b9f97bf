// Copyright 2026 The HospiFind Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"database/sql"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	_ "github.com/duckdb/duckdb-go/v2" // register duckdb driver
	"github.com/jcodagnone/hospifind/hospital"
	"github.com/jcodagnone/hospifind/utils"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var serveOptions = struct {
	listen   string
	dbPath   string
	csvPath  string
	geocoder string
	trace    bool
}{}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the hospital finder web server",
	Args:  cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		_ = godotenv.Load()

		db, err := openDatabase()
		if err != nil {
			return err
		}
		defer db.Close()

		repo := hospital.NewRepository(db)
		if err := repo.CreateSchema(); err != nil {
			return fmt.Errorf("creating schema: %w", err)
		}

		if err := seedIfEmpty(repo); err != nil {
			return err
		}

		dataset, err := repo.All()
		if err != nil {
			return fmt.Errorf("loading dataset: %w", err)
		}

		types, err := repo.Types()
		if err != nil {
			return fmt.Errorf("loading type labels: %w", err)
		}

		geocoder, err := buildGeocoder()
		if err != nil {
			return err
		}

		server := hospital.NewServer(dataset, types, geocoder)

		fmt.Printf("🏥 Serving %s hospitals\n", utils.FormatInt(int64(len(dataset))))
		fmt.Printf("📍 Open http://%s in your browser\n", serveOptions.listen)

		return server.Run(serveOptions.listen)
	},
}

func openDatabase() (*sql.DB, error) {
	if serveOptions.dbPath != "" {
		if err := os.MkdirAll(filepath.Dir(serveOptions.dbPath), 0o750); err != nil {
			return nil, fmt.Errorf("creating db directory: %w", err)
		}
	}

	db, err := sql.Open("duckdb", serveOptions.dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	return db, nil
}

// seedIfEmpty populates an empty hospitals table from the configured CSV,
// or from the built-in sample data when no CSV is given.
func seedIfEmpty(repo hospital.Repository) error {
	count, err := repo.Count()
	if err != nil {
		return fmt.Errorf("counting hospitals: %w", err)
	}

	if count > 0 {
		return nil
	}

	if serveOptions.csvPath != "" {
		hospitals, skipped, err := hospital.ReadCSVFile(serveOptions.csvPath)
		if err != nil {
			return fmt.Errorf("reading %s: %w", serveOptions.csvPath, err)
		}

		if skipped > 0 {
			log.Printf("⚠️  Skipped %s malformed rows from %s", utils.FormatInt(int64(skipped)), serveOptions.csvPath)
		}

		if len(hospitals) == 0 {
			return fmt.Errorf("%s holds no loadable hospitals", serveOptions.csvPath)
		}

		return repo.BulkInsert(hospitals)
	}

	log.Printf("ℹ️  No dataset found, seeding the built-in sample hospitals")

	return repo.BulkInsert(hospital.Fallback())
}

func buildGeocoder() (hospital.Geocoder, error) {
	var trace io.Writer
	if serveOptions.trace {
		trace = os.Stderr
	}

	switch serveOptions.geocoder {
	case "nominatim":
		return hospital.NewNominatimGeocoder(Version, trace), nil
	case "google":
		return hospital.NewGoogleMapsGeocoder(), nil
	default:
		return nil, fmt.Errorf("unknown geocoder %q (expected nominatim or google)", serveOptions.geocoder)
	}
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveOptions.listen, "listen", "localhost:8080", "address to serve on")
	serveCmd.Flags().StringVar(&serveOptions.dbPath, "db", filepath.Join("data", "hospifind.duckdb"), "path of the DuckDB database (empty for in-memory)")
	serveCmd.Flags().StringVar(&serveOptions.csvPath, "csv", "", "hospitals CSV to seed an empty database from")
	serveCmd.Flags().StringVar(&serveOptions.geocoder, "geocoder", "nominatim", "geocoding provider: nominatim or google")
	serveCmd.Flags().BoolVar(&serveOptions.trace, "trace", false, "dump geocoding HTTP transactions to stderr")
}
