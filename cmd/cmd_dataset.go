// Copyright 2026 The HospiFind Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/duckdb/duckdb-go/v2" // register duckdb driver
	"github.com/jcodagnone/hospifind/hospital"
	"github.com/jcodagnone/hospifind/utils"
	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

const exportFile = "hospitals.json"

// ExportData is the JSON export file format.
type ExportData struct {
	Version     string              `json:"version"`
	LastUpdated time.Time           `json:"last_updated"`
	Hospitals   []hospital.Hospital `json:"hospitals"`
}

var datasetCmd = &cobra.Command{
	Use:   "dataset",
	Short: "Manage the hospital dataset",
}

var datasetImportCmd = &cobra.Command{
	Use:   "import <csv>",
	Short: "Import hospitals from a CSV file",
	Long: `Imports hospitals from a CSV file with the columns
name,type,latitude,longitude,doctors,rating where doctors is a
pipe-separated list. Malformed rows are skipped, existing hospitals with the
same name are updated.`,
	Args: cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		hospitals, skipped, err := hospital.ReadCSVFile(args[0])
		if err != nil {
			return fmt.Errorf("reading %s: %w", args[0], err)
		}

		db, err := openDatabase()
		if err != nil {
			return err
		}
		defer db.Close()

		repo := hospital.NewRepository(db)
		if err := repo.CreateSchema(); err != nil {
			return fmt.Errorf("creating schema: %w", err)
		}

		var bar *progressbar.ProgressBar
		if isatty.IsTerminal(os.Stderr.Fd()) {
			bar = progressbar.NewOptions(len(hospitals),
				progressbar.OptionSetDescription("Importing "+args[0]),
				progressbar.OptionSetWriter(os.Stderr),
				progressbar.OptionShowCount(),
				progressbar.OptionClearOnFinish(),
			)
		}

		// Insert in batches so the bar moves on large files.
		const batchSize = 256

		for start := 0; start < len(hospitals); start += batchSize {
			end := min(start+batchSize, len(hospitals))

			if err := repo.BulkInsert(hospitals[start:end]); err != nil {
				return fmt.Errorf("inserting hospitals: %w", err)
			}

			if bar != nil {
				_ = bar.Add(end - start)
			}
		}

		fmt.Printf("✅ Imported %s hospitals (%s rows skipped)\n",
			utils.FormatInt(int64(len(hospitals))),
			utils.FormatInt(int64(skipped)))

		return nil
	},
}

var datasetExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the stored dataset to a JSON file",
	Args:  cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		db, err := openDatabase()
		if err != nil {
			return err
		}
		defer db.Close()

		repo := hospital.NewRepository(db)
		if err := repo.CreateSchema(); err != nil {
			return fmt.Errorf("creating schema: %w", err)
		}

		hospitals, err := repo.All()
		if err != nil {
			return fmt.Errorf("loading hospitals: %w", err)
		}

		data, err := json.MarshalIndent(
			ExportData{
				Version:     "1.0",
				LastUpdated: time.Now(),
				Hospitals:   hospitals,
			},
			"",
			"  ",
		)
		if err != nil {
			return fmt.Errorf("marshaling dataset: %w", err)
		}

		if err := os.WriteFile(exportFile, data, 0o600); err != nil {
			return fmt.Errorf("writing export file: %w", err)
		}

		fmt.Printf("✅ Exported %s hospitals to %s\n",
			utils.FormatInt(int64(len(hospitals))), exportFile)

		return nil
	},
}

var datasetListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the stored hospitals",
	Args:  cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		db, err := openDatabase()
		if err != nil {
			return err
		}
		defer db.Close()

		repo := hospital.NewRepository(db)
		if err := repo.CreateSchema(); err != nil {
			return fmt.Errorf("creating schema: %w", err)
		}

		hospitals, err := repo.All()
		if err != nil {
			return fmt.Errorf("loading hospitals: %w", err)
		}

		a, b, c := strings.Repeat("─", 36), strings.Repeat("─", 16), strings.Repeat("─", 6)
		fmt.Printf("╭─%-36s─┬─%-16s─┬─%-6s╮\n", a, b, c)
		fmt.Printf("│ %-36s │ %-16s │ %-6s│\n", "Name", "Type", "Rating")
		fmt.Printf("├─%-36s─┼─%-16s─┼─%-6s┤\n", a, b, c)

		for _, hosp := range hospitals {
			fmt.Printf("│ %-36s │ %-16s │ %-6.1f│\n", hosp.Name, hosp.Type, hosp.Rating)
		}

		fmt.Printf("╰─%-36s─┴─%-16s─┴─%-6s╯\n", a, b, c)
		fmt.Printf("%s hospitals\n", utils.FormatInt(int64(len(hospitals))))

		return nil
	},
}

func init() {
	rootCmd.AddCommand(datasetCmd)
	datasetCmd.AddCommand(datasetImportCmd)
	datasetCmd.AddCommand(datasetExportCmd)
	datasetCmd.AddCommand(datasetListCmd)

	datasetCmd.PersistentFlags().StringVar(&serveOptions.dbPath, "db", filepath.Join("data", "hospifind.duckdb"), "path of the DuckDB database")
}
