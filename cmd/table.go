package cmd

import (
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/go-imsto/imwebp/batch"
)

func newTable(w io.Writer) *tablewriter.Table {
	return tablewriter.NewTable(w,
		tablewriter.WithConfig(tablewriter.Config{
			Row: tw.CellConfig{
				Formatting: tw.CellFormatting{
					AutoWrap: tw.WrapNone,
				},
				Alignment: tw.CellAlignment{
					Global: tw.AlignLeft,
				},
			},
			Header: tw.CellConfig{
				Formatting: tw.CellFormatting{
					AutoFormat: tw.On,
				},
				Alignment: tw.CellAlignment{
					Global: tw.AlignLeft,
				},
			},
		}),
		tablewriter.WithRendition(tw.Rendition{
			Borders: tw.BorderNone,
			Settings: tw.Settings{
				Separators: tw.Separators{
					ShowHeader: tw.Off,
				},
			},
		}),
	)
}

var summaryHeader = []string{"file", "result", "resize", "thumb", "in", "out"}

func summaryRows(sum *batch.Summary) [][]string {
	rows := make([][]string, 0, len(sum.Results)+1)
	for _, r := range sum.Results {
		if !r.OK() {
			rows = append(rows, []string{r.Task.Name, "failed", "-", "-", humanBytes(r.InSize), "-"})
			continue
		}
		result := "ok"
		if r.Deleted {
			result = "ok, deleted"
		}
		thumb := "-"
		if r.Thumb != nil {
			thumb = r.Thumb.String()
		}
		rows = append(rows, []string{r.Task.Name, result, r.Resize.String(), thumb,
			humanBytes(r.InSize), humanBytes(r.OutSize + r.ThumbSize)})
	}
	rows = append(rows, []string{"total", fmt.Sprintf("%d/%d", sum.Succeeded, sum.Total), "", "",
		humanBytes(sum.InBytes), fmt.Sprintf("%s (%.1f%% saved)", humanBytes(sum.OutBytes), sum.Saved())})
	return rows
}

// renderSummary writes the per file table of a finished run
func renderSummary(w io.Writer, sum *batch.Summary) error {
	if sum == nil || len(sum.Results) == 0 {
		return nil
	}
	table := newTable(w)
	table.Header(summaryHeader)
	if err := table.Bulk(summaryRows(sum)); err != nil {
		return err
	}
	return table.Render()
}

func humanBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
