package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

// Mode selects how command results are printed.
type Mode string

const (
	ModeJSON  Mode = "json"
	ModeTable Mode = "table"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	footerStyle = lipgloss.NewStyle().Faint(true)
	errorStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
)

// DetectMode returns JSON when --json is set or stdout is not a terminal.
func DetectMode(cmd *cobra.Command) Mode {
	if jsonFlag, err := cmd.Flags().GetBool("json"); err == nil && jsonFlag {
		return ModeJSON
	}
	if f, ok := cmd.OutOrStdout().(*os.File); ok && isTerminal(f) {
		return ModeTable
	}
	return ModeJSON
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// view is a printable command result.
type view struct {
	Columns []string
	Rows    [][]string
	Footer  []string
	Data    any
}

func render(cmd *cobra.Command, mode Mode, v *view) error {
	out := cmd.OutOrStdout()
	if mode == ModeJSON {
		return writeJSON(out, v.Data)
	}
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		Headers(v.Columns...).
		Rows(v.Rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	if _, err := fmt.Fprintln(out, t.Render()); err != nil {
		return err
	}
	for _, line := range v.Footer {
		if _, err := fmt.Fprintln(out, footerStyle.Render(line)); err != nil {
			return err
		}
	}
	return nil
}

func writeJSON(w io.Writer, data any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// printError writes err to the command's error stream in the given mode.
func printError(cmd *cobra.Command, mode Mode, err *CliError) {
	w := cmd.ErrOrStderr()
	if mode == ModeJSON {
		_ = writeJSON(w, map[string]any{"error": err})
		return
	}
	fmt.Fprintln(w, errorStyle.Render(err.Message))
	if err.Details != "" {
		fmt.Fprintln(w, err.Details)
	}
	keys := make([]string, 0, len(err.Fields))
	for k := range err.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(w, "  %s: %s\n", k, strings.Join(err.Fields[k], " "))
	}
}
