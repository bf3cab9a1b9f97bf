// Copyright 2026 The HospiFind Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// isTerminal reports whether f is attached to a terminal; when stat fails
// we say that it isn't.
func isTerminal(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}

	return (info.Mode() & os.ModeCharDevice) != 0
}

var debugCmd = &cobra.Command{
	Use:   "debug",
	Short: "Dev tools",
}

var debugGeocodeCmd = &cobra.Command{
	Use:   "geocode",
	Short: "Resolve free-text locations to coordinates",
	Long: `Reads one location per line and prints the location followed by the
geocoding result.

$ echo Chennai | hospifind debug geocode
Chennai		{"point":{"lat":13.08,"lng":80.27},"confidence":"high",…}
	`,
	RunE: func(_ *cobra.Command, _ []string) error {
		geocoder, err := buildGeocoder()
		if err != nil {
			return err
		}

		input := os.Stdin
		if isTerminal(input) {
			fmt.Fprintln(os.Stderr, "Enter locations to resolve, one per line…")
		}

		scanner := bufio.NewScanner(input)
		for scanner.Scan() {
			location := scanner.Text()

			result, err := geocoder.Geocode(location)
			if err != nil {
				fmt.Printf("%s\t%q\n", location, err)

				continue
			}

			s, err := json.Marshal(result)
			if err != nil {
				return fmt.Errorf("marshaling result: %w", err)
			}

			fmt.Printf("%s\t\t%s\n", location, s)
		}

		if err := scanner.Err(); err != nil {
			return fmt.Errorf("reading input: %w", err)
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(debugCmd)
	debugCmd.AddCommand(debugGeocodeCmd)

	debugGeocodeCmd.Flags().StringVar(&serveOptions.geocoder, "geocoder", "nominatim", "geocoding provider: nominatim or google")
	debugGeocodeCmd.Flags().BoolVar(&serveOptions.trace, "trace", false, "dump geocoding HTTP transactions to stderr")
}
