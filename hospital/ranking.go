// Copyright 2026 The HospiFind Authors
// SPDX-License-Identifier: Apache-2.0

package hospital

import (
	"errors"
	"sort"

	"github.com/jcodagnone/hospifind/spatial"
)

// TypeAll is the sentinel type filter meaning "no filter".
const TypeAll = "All"

// MaxNearby bounds the length of the nearby list handed to the presentation
// layer. The best pick is still chosen from the full filtered set, so it may
// rank beyond this cutoff by distance.
const MaxNearby = 8

var (
	// ErrEmptyDataset is returned when there is no dataset at all.
	ErrEmptyDataset = errors.New("hospital: no dataset loaded")

	// ErrNoMatchingType is returned when the dataset holds no record of the
	// requested type. Distinct from ErrEmptyDataset so callers can tell the
	// two conditions apart.
	ErrNoMatchingType = errors.New("hospital: no hospitals of that type")
)

// Rank filters the dataset by type, annotates every surviving record with
// the great-circle distance to origin, and produces:
//
//   - nearby: at most MaxNearby records ordered by distance ascending,
//     ties broken by name, so output is reproducible given identical input;
//   - best: the single recommendation, ordered by rating descending, then
//     distance ascending, then name. Quality dominates closeness here,
//     a higher-rated hospital farther away beats a closer, lower-rated one.
//
// Rank is a pure function of its inputs and performs no I/O.
func Rank(dataset []Hospital, origin spatial.Point, typeFilter string) (best Ranked, nearby []Ranked, err error) {
	if len(dataset) == 0 {
		return Ranked{}, nil, ErrEmptyDataset
	}

	filtered := make([]Ranked, 0, len(dataset))

	for _, hosp := range dataset {
		if typeFilter != TypeAll && hosp.Type != typeFilter {
			continue
		}

		filtered = append(filtered, Ranked{
			Hospital:   hosp,
			DistanceKm: origin.HaversineKm(hosp.Point),
		})
	}

	if len(filtered) == 0 {
		return Ranked{}, nil, ErrNoMatchingType
	}

	// Best pick over the full filtered set, before truncation.
	best = filtered[0]
	for _, r := range filtered[1:] {
		if betterPick(r, best) {
			best = r
		}
	}

	sort.Slice(filtered, func(i, j int) bool {
		if filtered[i].DistanceKm != filtered[j].DistanceKm {
			return filtered[i].DistanceKm < filtered[j].DistanceKm
		}

		return filtered[i].Name < filtered[j].Name
	})

	if len(filtered) > MaxNearby {
		filtered = filtered[:MaxNearby]
	}

	return best, filtered, nil
}

// betterPick reports whether a should be recommended over b: rating
// descending, then distance ascending, then name ascending.
func betterPick(a, b Ranked) bool {
	if a.Rating != b.Rating {
		return a.Rating > b.Rating
	}

	if a.DistanceKm != b.DistanceKm {
		return a.DistanceKm < b.DistanceKm
	}

	return a.Name < b.Name
}

// Types returns the distinct type labels of the dataset sorted
// alphabetically, with the TypeAll sentinel prepended for filter population.
func Types(dataset []Hospital) []string {
	seen := make(map[string]bool, len(dataset))

	for _, hosp := range dataset {
		if hosp.Type != "" {
			seen[hosp.Type] = true
		}
	}

	types := make([]string, 0, len(seen)+1)
	for t := range seen {
		types = append(types, t)
	}

	sort.Strings(types)

	return append([]string{TypeAll}, types...)
}
