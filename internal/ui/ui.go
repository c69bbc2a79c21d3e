// Package ui renders terminal output for the safequery CLI.
package ui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"
	"github.com/pterm/pterm"

	"github.com/satishbabariya/safequery/internal/core/query/domain"
)

var (
	// Out receives regular output.
	Out io.Writer = os.Stdout
	// Err receives error output.
	Err io.Writer = os.Stderr
)

var (
	// Colors
	PrimaryColor   = lipgloss.Color("#00D9FF")
	SuccessColor   = lipgloss.Color("#00FF88")
	WarningColor   = lipgloss.Color("#FFB800")
	ErrorColor     = lipgloss.Color("#FF4444")
	SecondaryColor = lipgloss.Color("#6C757D")

	// Styles
	TitleStyle = lipgloss.NewStyle().
			Foreground(PrimaryColor).
			Bold(true)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(SuccessColor).
			Bold(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ErrorColor).
			Bold(true)

	WarningStyle = lipgloss.NewStyle().
			Foreground(WarningColor).
			Bold(true)

	SecondaryStyle = lipgloss.NewStyle().
			Foreground(SecondaryColor)
)

func width() int {
	if w := pterm.GetTerminalWidth(); w > 0 && w < 120 {
		return w
	}
	return 80
}

// PrintHeader prints a boxed title.
func PrintHeader(title string, subtitle string) {
	header := lipgloss.NewStyle().
		Width(width() - 2).
		Align(lipgloss.Center).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(PrimaryColor).
		Padding(0, 2).
		Render(
			lipgloss.JoinVertical(
				lipgloss.Center,
				TitleStyle.Render(title),
				SecondaryStyle.Render(subtitle),
			),
		)

	fmt.Fprintln(Out, header)
}

// PrintSuccess prints a success message
func PrintSuccess(format string, args ...interface{}) {
	fmt.Fprintln(Out, SuccessStyle.Render("✓ "+fmt.Sprintf(format, args...)))
}

// PrintError prints an error message
func PrintError(format string, args ...interface{}) {
	fmt.Fprintln(Err, ErrorStyle.Render("✗ "+fmt.Sprintf(format, args...)))
}

// PrintWarning prints a warning message
func PrintWarning(format string, args ...interface{}) {
	fmt.Fprintln(Out, WarningStyle.Render("⚠ "+fmt.Sprintf(format, args...)))
}

// PrintInfo prints an info message
func PrintInfo(format string, args ...interface{}) {
	fmt.Fprintln(Out, SecondaryStyle.Render("ℹ "+fmt.Sprintf(format, args...)))
}

// PrintTable prints a table using pterm
func PrintTable(headers []string, rows [][]string) error {
	tableData := pterm.TableData{headers}
	tableData = append(tableData, rows...)
	s, err := pterm.DefaultTable.WithHasHeader().WithData(tableData).Srender()
	if err != nil {
		return err
	}
	fmt.Fprintln(Out, s)
	return nil
}

// PrintResultSet prints rows in column order, followed by a row count.
func PrintResultSet(rs *domain.ResultSet) error {
	if rs.Len() == 0 {
		PrintWarning("no rows")
		return nil
	}

	rows := make([][]string, rs.Len())
	for i := range rows {
		values := rs.Values(i)
		cells := make([]string, len(values))
		for j, v := range values {
			cells[j] = formatValue(v)
		}
		rows[i] = cells
	}

	if err := PrintTable(rs.Columns(), rows); err != nil {
		return err
	}
	PrintInfo("%d row(s)", rs.Len())
	return nil
}

func formatValue(v interface{}) string {
	switch v := v.(type) {
	case nil:
		return "NULL"
	case []byte:
		return string(v)
	default:
		return fmt.Sprint(v)
	}
}

// PrintFindings lists audit findings, one per line.
func PrintFindings(findings []domain.Finding) {
	rule := color.New(color.FgRed, color.Bold)
	for _, f := range findings {
		rule.Fprintf(Out, "  %-20s", f.Rule)
		fmt.Fprintln(Out, f.Message)
	}
}

// RenderMarkdown renders markdown for the terminal.
func RenderMarkdown(content string) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width()),
	)
	if err != nil {
		return "", err
	}
	return r.Render(content)
}

// PrintMarkdown renders markdown content
func PrintMarkdown(content string) error {
	out, err := RenderMarkdown(content)
	if err != nil {
		return err
	}
	fmt.Fprint(Out, out)
	return nil
}

// PrintSection prints a section header
func PrintSection(title string) {
	section := lipgloss.NewStyle().
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(SecondaryColor).
		Render(title)

	fmt.Fprintln(Out, section)
}

// PrintKeyValues prints aligned key/value pairs in the given order.
func PrintKeyValues(pairs [][2]string) {
	pad := 0
	for _, kv := range pairs {
		if len(kv[0]) > pad {
			pad = len(kv[0])
		}
	}
	key := color.New(color.FgCyan)
	for _, kv := range pairs {
		key.Fprint(Out, kv[0]+":"+strings.Repeat(" ", pad-len(kv[0])+1))
		fmt.Fprintln(Out, kv[1])
	}
}

// Spinner starts a terminal spinner. Call Success or Fail on the result.
func Spinner(message string) (*pterm.SpinnerPrinter, error) {
	return pterm.DefaultSpinner.Start(message)
}
