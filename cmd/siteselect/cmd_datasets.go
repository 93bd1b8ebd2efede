package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/spboyer/siteselect/internal/dataset"
	"github.com/spboyer/siteselect/internal/summary"
	"github.com/spf13/cobra"
)

func newDatasetsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "datasets [criteria]",
		Short: "List the built-in datasets or preview one as CSV",
		Long: `List the built-in datasets.

With a criteria argument, print that dataset's candidate table as CSV with
every row unselected, the same preview the web page shows before a run.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				return previewDataset(cmd.OutOrStdout(), args[0])
			}
			return listDatasets(cmd.OutOrStdout())
		},
	}
}

func listDatasets(w io.Writer) error {
	samples, err := dataset.List()
	if err != nil {
		return err
	}

	headers := []string{"CRITERIA", "LABEL", "MODE", "CANDIDATES"}
	rows := make([][]string, 0, len(samples))
	for _, s := range samples {
		rows = append(rows, []string{s.Criteria, s.Label, string(s.Mode()), strconv.Itoa(len(s.Candidates))})
	}

	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = runewidth.StringWidth(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			widths[i] = max(widths[i], runewidth.StringWidth(cell))
		}
	}

	writeRow := func(cells []string) {
		padded := make([]string, len(cells))
		for i, cell := range cells {
			if i == len(cells)-1 {
				padded[i] = cell
				continue
			}
			padded[i] = padRight(cell, widths[i])
		}
		fmt.Fprintln(w, strings.Join(padded, "  ")) //nolint:errcheck
	}

	writeRow(headers)
	for _, row := range rows {
		writeRow(row)
	}
	return nil
}

func previewDataset(w io.Writer, criteria string) error {
	s, err := dataset.Lookup(criteria)
	if err != nil {
		return err
	}
	// The preview does not depend on the budget.
	inst, err := s.Instance(1)
	if err != nil {
		return err
	}
	out, err := summary.ToCSV(inst, nil)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, out)
	return err
}

// padRight pads s with spaces so its terminal display width reaches width.
func padRight(s string, width int) string {
	sw := runewidth.StringWidth(s)
	if sw >= width {
		return s
	}
	return s + strings.Repeat(" ", width-sw)
}
