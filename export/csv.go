/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/humaidq/carewheels/visit"
)

// CSV writes the visit as a two column label/value sheet. Sections are
// separated by blank records.
func CSV(w io.Writer, v visit.Visit, now time.Time) error {
	r := Build(v, now)
	cw := csv.NewWriter(w)

	records := [][]string{
		{r.Title},
		{"Generated on:", r.GeneratedAt.Format(time.DateTime)},
		{""},
	}

	for _, s := range r.Sections {
		records = append(records, []string{s.Title})

		for _, row := range s.Rows {
			records = append(records, []string{row.Label, row.Value})
		}

		for _, item := range s.Items {
			records = append(records, []string{"", item})
		}

		records = append(records, []string{""})
	}

	records = append(records, []string{r.Footer})

	for _, rec := range records {
		for i, cell := range rec {
			rec[i] = neutralizeFormula(cell)
		}
	}

	if err := cw.WriteAll(records); err != nil {
		return fmt.Errorf("failed to write csv report: %w", err)
	}

	logger.Debug("Wrote CSV report", "visit_id", v.ID, "sections", len(r.Sections))

	return nil
}

// neutralizeFormula quotes cells that spreadsheets would evaluate.
func neutralizeFormula(cell string) string {
	if cell != "" && strings.ContainsRune("=+-@\t\r", rune(cell[0])) {
		return "'" + cell
	}

	return cell
}
