package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"gopkg.in/yaml.v3"

	"github.com/amribhatt/pega/pkg/strings"
)

// maxDetailsWidth bounds the details column of the table output.
const maxDetailsWidth = 80

// RenderReport writes report to w in the given format.
func RenderReport(w io.Writer, report *Report, format OutputFormat) error {
	switch format {
	case OutputFormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			return fmt.Errorf("failed to encode report as JSON: %w", err)
		}
		return nil

	case OutputFormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(report); err != nil {
			return fmt.Errorf("failed to encode report as YAML: %w", err)
		}
		return enc.Close()

	case OutputFormatTable, "":
		renderTable(w, report)
		return nil

	default:
		return ValidateOutputFormat(string(format))
	}
}

func renderTable(w io.Writer, report *Report) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleRounded)

	if report.Target != "" {
		t.SetTitle("Pega MCP Server checks: %s", report.Target)
	}

	t.AppendHeader(table.Row{
		text.FgHiCyan.Sprint("CHECK"),
		text.FgHiCyan.Sprint("STATUS"),
		text.FgHiCyan.Sprint("MESSAGE"),
		text.FgHiCyan.Sprint("DETAILS"),
	})

	for _, result := range report.Results {
		t.AppendRow(table.Row{
			result.Name,
			statusCell(result.Status),
			result.Message,
			strings.Snippet(result.Details, maxDetailsWidth),
		})
	}

	t.Render()

	fmt.Fprintf(w, "\n%s %d\n", text.FgHiBlue.Sprint("Total Tests:"), report.Total)
	fmt.Fprintf(w, "%s %d\n", text.FgHiBlue.Sprint("Passed:"), report.Passed)
	fmt.Fprintf(w, "%s %d\n", text.FgHiBlue.Sprint("Failed:"), report.Failed)
	fmt.Fprintf(w, "%s %.1f%%\n", text.FgHiBlue.Sprint("Success Rate:"), report.SuccessRate)

	if report.AllPassed() {
		fmt.Fprintf(w, "\n%s\n", text.FgGreen.Sprint("All tests passed!"))
	} else {
		fmt.Fprintf(w, "\n%s\n", text.FgRed.Sprintf("%d test(s) failed. Check the details above.", report.Failed))
	}
}

func statusCell(status CheckStatus) string {
	if status == StatusPass {
		return text.FgGreen.Sprint(string(status))
	}
	return text.FgRed.Sprint(string(status))
}
