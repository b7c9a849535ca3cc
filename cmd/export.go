package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/clockstorm/internal/installation"
	"github.com/Tiliavir/clockstorm/internal/model"
	"github.com/Tiliavir/clockstorm/internal/options"
	"github.com/Tiliavir/clockstorm/internal/timecalc"
	"github.com/Tiliavir/clockstorm/internal/timesheets"
)

var exportFormat string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export every stored week to stdout",
	Args:  cobra.NoArgs,
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportFormat, "format", "csv", "Output format: csv, json")
}

type exportedWeek struct {
	Week      string                 `json:"week"`
	TimeSheet model.TimeSheet        `json:"timeSheet"`
	Summary   model.TimeSheetSummary `json:"summary"`
}

func runExport(cmd *cobra.Command, args []string) error {
	if exportFormat != "csv" && exportFormat != "json" {
		return fmt.Errorf("unknown format %q (use csv or json)", exportFormat)
	}

	ctx := cmd.Context()
	t := now()
	mondays, err := installation.EveryMondaySince(ctx, appStore, timecalc.DateOnlyOf(t))
	if err != nil {
		return dataError(err)
	}
	opts := options.Load(ctx, appStore)

	weeks := make([]exportedWeek, 0, len(mondays))
	for _, monday := range mondays {
		ts := timesheets.Get(ctx, appStore, monday)
		weeks = append(weeks, exportedWeek{
			Week:      ts.Key(),
			TimeSheet: ts,
			Summary:   timesheets.Summarize(ts, opts, t),
		})
	}

	out := cmd.OutOrStdout()
	if exportFormat == "json" {
		data, err := json.MarshalIndent(weeks, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding JSON: %w", err)
		}
		fmt.Fprintln(out, string(data))
		return nil
	}
	printCSV(out, weeks)
	return nil
}

func printCSV(out io.Writer, weeks []exportedWeek) {
	fmt.Fprintln(out, "week,card,status,monday,tuesday,wednesday,thursday,friday,saturday,sunday,total")
	for _, w := range weeks {
		for i, card := range w.TimeSheet.TimeCards {
			row := csvEscape(w.Week) + "," + strconv.Itoa(i+1) + "," + csvEscape(string(card.Status))
			total := 0.0
			for _, d := range timecalc.DaysOfWeek {
				h := card.Hours.Get(d)
				total += h
				row += "," + formatHours(h)
			}
			fmt.Fprintln(out, row+","+formatHours(total))
		}
	}
}

func formatHours(h float64) string {
	return strconv.FormatFloat(h, 'f', -1, 64)
}

// csvEscape wraps a field in quotes if it contains a comma, quote, or newline.
func csvEscape(s string) string {
	needsQuote := false
	for _, c := range s {
		if c == ',' || c == '"' || c == '\n' || c == '\r' {
			needsQuote = true
			break
		}
	}
	if !needsQuote {
		return s
	}
	// Escape internal double quotes by doubling them.
	escaped := ""
	for _, c := range s {
		if c == '"' {
			escaped += "\""
		}
		escaped += string(c)
	}
	return `"` + escaped + `"`
}
