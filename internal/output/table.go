// Package output renders terminal output for wrapperize: the `list` table
// and warning lines. ASCII tables with ANSI colors, gated on TTY detection
// and NO_COLOR.
package output

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/mattn/go-isatty"
)

const (
	colorReset  = "\033[0m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorRed    = "\033[31m"
)

// IsColorEnabled returns true if ANSI color codes should be emitted.
func IsColorEnabled() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	return isatty.IsTerminal(os.Stdout.Fd())
}

// WrapRow is one wrapped target in the list table.
type WrapRow struct {
	Target  string
	Details string // summarized injected args/env
	Package string
	Status  string // "active", "broken", or "no hooks"
}

// RenderWrapTable renders the wrapped-target table, sorted by target path.
func RenderWrapTable(rows []*WrapRow) string {
	return renderWrapTable(rows, IsColorEnabled())
}

func renderWrapTable(rows []*WrapRow, color bool) string {
	if len(rows) == 0 {
		return "No wrapped programs.\n"
	}

	sorted := make([]*WrapRow, len(rows))
	copy(sorted, rows)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Target < sorted[j].Target
	})

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%-30s %-30s %-15s %s\n", "Target", "Injects", "Package", "Status"))
	sb.WriteString(strings.Repeat("─", 84))
	sb.WriteString("\n")

	for _, row := range sorted {
		pkg := row.Package
		if pkg == "" {
			pkg = "-"
		}
		sb.WriteString(fmt.Sprintf("%-30s %-30s %-15s %s\n",
			row.Target, row.Details, pkg, colorStatus(row.Status, color)))
	}
	return sb.String()
}

func colorStatus(status string, color bool) string {
	if !color {
		return status
	}
	switch status {
	case "active":
		return colorGreen + status + colorReset
	case "broken":
		return colorRed + status + colorReset
	default:
		return colorYellow + status + colorReset
	}
}

// Warnf prints a warning line to w.
func Warnf(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "Warning: "+format+"\n", args...)
}

// SummarizeInjections builds the short "Injects" cell from counts.
func SummarizeInjections(args, env int) string {
	parts := []string{}
	if args > 0 {
		parts = append(parts, fmt.Sprintf("%d arg(s)", args))
	}
	if env > 0 {
		parts = append(parts, fmt.Sprintf("%d env var(s)", env))
	}
	if len(parts) == 0 {
		return "-"
	}
	return strings.Join(parts, ", ")
}
