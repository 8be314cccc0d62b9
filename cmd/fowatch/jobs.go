package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
)

func (a *app) jobsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "jobs",
		Short: "List the configured jobs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := a.loadConfig(cmd.Context())
			if err != nil {
				return err
			}
			cell := lipgloss.NewStyle().PaddingRight(2)
			t := table.New().
				Border(lipgloss.HiddenBorder()).
				BorderTop(false).BorderBottom(false).
				BorderLeft(false).BorderRight(false).
				BorderColumn(false).BorderHeader(false).
				StyleFunc(func(_, _ int) lipgloss.Style { return cell }).
				Headers("  JOB", "ANALYZER", "COMMAND")
			for _, name := range cfg.JobNames() {
				jc := cfg.Jobs[name]
				marker := " "
				if name == cfg.DefaultJob {
					marker = "*"
				}
				t.Row(marker+" "+name, jc.Kind().String(), strings.Join(jc.Command, " "))
			}
			_, err = fmt.Fprintln(a.stdout, t.Render())
			return err
		},
	}
}
