package cli

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
)

const (
	clockLayout = "15:04"
	dateLayout  = "2006-01-02"
)

var headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
var cellStyle = lipgloss.NewStyle().Padding(0, 1)

// printTable renders rows under headers. Empty rows print empty instead.
func printTable(cmd *cobra.Command, empty string, headers []string, rows [][]string) {
	if len(rows) == 0 {
		cmd.Println(empty)
		return
	}
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderColumn(false).
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Headers(headers...).
		Rows(rows...)
	cmd.Println(t.Render())
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
