// Package summary aggregates statement expenses by merchant description.
package summary

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/shopspring/decimal"

	"github.com/insightdelivered/cardstatement/internal/models"
)

// VendorTotal is the summed transaction amount of one description.
type VendorTotal struct {
	Description string          `json:"description"`
	Total       decimal.Decimal `json:"total"`
	Count       int             `json:"count"`
}

func (v VendorTotal) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Description string      `json:"description"`
		Total       json.Number `json:"total"`
		Count       int         `json:"count"`
	}{v.Description, json.Number(models.FormatAmount(v.Total)), v.Count})
}

// ByDescription sums transaction amounts per description, largest total first.
// Ties are ordered by description.
func ByDescription(records []models.TransactionRecord) []VendorTotal {
	index := make(map[string]int)
	var totals []VendorTotal
	for _, rec := range records {
		i, ok := index[rec.Description]
		if !ok {
			i = len(totals)
			index[rec.Description] = i
			totals = append(totals, VendorTotal{Description: rec.Description})
		}
		totals[i].Total = totals[i].Total.Add(rec.TransactionAmount)
		totals[i].Count++
	}

	sort.SliceStable(totals, func(a, b int) bool {
		if c := totals[a].Total.Cmp(totals[b].Total); c != 0 {
			return c > 0
		}
		return totals[a].Description < totals[b].Description
	})
	return totals
}

// Expenses summarises primary and secondary cardholder expenses together.
func Expenses(stmt *models.Statement) []VendorTotal {
	return ByDescription(stmt.Expenses())
}

// Print writes the summary as an aligned two-column table.
func Print(out io.Writer, totals []VendorTotal) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "transaction_description\ttransaction_amount\t")
	for _, t := range totals {
		fmt.Fprintf(tw, "%s\t%s\t\n", t.Description, models.FormatAmount(t.Total))
	}
	return tw.Flush()
}

// WriteCSV writes the summary as CSV.
func WriteCSV(out io.Writer, totals []VendorTotal) error {
	w := csv.NewWriter(out)
	if err := w.Write([]string{"transaction_description", "transaction_amount"}); err != nil {
		return fmt.Errorf("failed to write summary header: %w", err)
	}
	for _, t := range totals {
		if err := w.Write([]string{t.Description, models.FormatAmount(t.Total)}); err != nil {
			return fmt.Errorf("failed to write summary row: %w", err)
		}
	}
	w.Flush()
	return w.Error()
}

// SaveCSV writes the summary to base + "_expense_summary.csv" and returns the path.
func SaveCSV(base string, totals []VendorTotal) (string, error) {
	path := base + "_expense_summary.csv"
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create summary file %q: %w", path, err)
	}
	defer f.Close()

	if err := WriteCSV(f, totals); err != nil {
		return "", err
	}
	return path, f.Close()
}
